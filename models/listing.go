package models

import "strings"

// Listing is one parking-spot offer. SchoolName and the coordinates are
// optional; an empty school name is normalized to absent at decode time.
type Listing struct {
	ID          string   `json:"id"`
	Address     string   `json:"address"`
	Price       string   `json:"price"`
	Notes       string   `json:"notes"`
	IsAvailable bool     `json:"isAvailable"`
	PostedBy    string   `json:"postedBy"`
	SchoolName  *string  `json:"schoolName,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Draft carries the fields of a listing about to be created. The backend
// assigns the id and stamps postedBy from the session.
type Draft struct {
	Address     string   `json:"address"`
	Price       string   `json:"price"`
	Notes       string   `json:"notes"`
	IsAvailable bool     `json:"isAvailable"`
	SchoolName  string   `json:"schoolName"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// DecodeListing builds a Listing from a raw document, defaulting every
// absent or wrong-typed field instead of failing the batch.
func DecodeListing(id string, doc map[string]any) Listing {
	l := Listing{
		ID:          id,
		Address:     asString(doc["address"]),
		Price:       asString(doc["price"]),
		Notes:       asString(doc["notes"]),
		IsAvailable: asBool(doc["isAvailable"], true),
		PostedBy:    asString(doc["postedBy"]),
		Latitude:    asFloat(doc["latitude"]),
		Longitude:   asFloat(doc["longitude"]),
	}

	if name := asString(doc["schoolName"]); name != "" {
		l.SchoolName = &name
	}

	return l
}

// Locatable reports whether the listing can be placed on a map. A single
// coordinate is as good as none.
func (l Listing) Locatable() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// School returns the school name or "" when absent.
func (l Listing) School() string {
	if l.SchoolName == nil {
		return ""
	}
	return *l.SchoolName
}

// DisplayAddress is the list-row title: the trimmed address, or the
// school name (or "Unknown") when the address is blank.
func (l Listing) DisplayAddress() string {
	if addr := strings.TrimSpace(l.Address); addr != "" {
		return addr
	}
	if l.SchoolName != nil {
		return *l.SchoolName
	}
	return "Unknown"
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}
