package models

// School is reference data served by the directory endpoint. It is never
// persisted locally and is treated as immutable once loaded.
type School struct {
	Name          string      `json:"name"`
	EmailDomain   string      `json:"email_domain"`
	Coordinates   Coordinates `json:"coordinates"`
	StreetsNearby []string    `json:"streets_nearby"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SchoolDirectory is the JSON envelope both directory endpoints serve.
type SchoolDirectory struct {
	Schools []School `json:"schools"`
}
