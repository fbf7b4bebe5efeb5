// Package pipeline holds the pure filter/sort transformations applied to
// the in-memory listing sequence. Nothing here has side effects; callers
// re-run it whenever the listing set or the selected filters change.
package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"eaglepark/models"
)

type PriceSort int

const (
	SortNone PriceSort = iota
	SortAscending
	SortDescending
)

func (s PriceSort) String() string {
	switch s {
	case SortAscending:
		return "Low → High"
	case SortDescending:
		return "High → Low"
	}
	return "None"
}

// Query is one filter/sort selection. School equal to "All" disables the
// school filter.
type Query struct {
	MineOnly  bool
	School    string
	PriceSort PriceSort
}

// Apply filters and sorts listings without mutating the input. identity
// is the session email; the ownership comparison lower-cases both sides
// but does not trim.
func Apply(listings []models.Listing, identity string, q Query) []models.Listing {
	results := make([]models.Listing, 0, len(listings))

	for _, l := range listings {
		if q.MineOnly && strings.ToLower(l.PostedBy) != strings.ToLower(identity) {
			continue
		}
		if q.School != "" && q.School != "All" {
			name := l.School()
			if name == "" || NormalizeSchoolName(name) != q.School {
				continue
			}
		}
		results = append(results, l)
	}

	switch q.PriceSort {
	case SortAscending:
		sort.SliceStable(results, func(i, j int) bool {
			return NumericPrice(results[i].Price) < NumericPrice(results[j].Price)
		})
	case SortDescending:
		sort.SliceStable(results, func(i, j int) bool {
			return NumericPrice(results[i].Price) > NumericPrice(results[j].Price)
		})
	}

	return results
}

// NumericPrice extracts a comparable number from a free-text price.
// Anything that is not a digit or a decimal point is stripped; an empty
// or unparseable remainder counts as 0.
func NumericPrice(price string) float64 {
	clean := digitsAndDots(price)
	if clean == "" {
		return 0.0
	}
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0.0
	}
	return n
}

// FormatPrice renders a stored price for display as "$N/hr", or "" when
// the price holds no digits.
func FormatPrice(price string) string {
	clean := digitsAndDots(price)
	if clean == "" {
		return ""
	}
	return "$" + clean + "/hr"
}

// CleanPrice normalizes user price input before it is written: "$15/hr"
// becomes "15". Applied on the submit path only; stored prices are shown
// through FormatPrice.
func CleanPrice(price string) string {
	clean := strings.ReplaceAll(price, "$", "")
	clean = strings.ReplaceAll(clean, "/hr", "")
	clean = strings.ReplaceAll(clean, "hr", "")
	clean = strings.ReplaceAll(clean, " ", "")
	return clean
}

func digitsAndDots(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeSchoolName maps a full institution name to its short display
// key. Unrecognized names pass through unchanged, which also makes the
// mapping idempotent.
func NormalizeSchoolName(name string) string {
	switch strings.ToLower(name) {
	case "boston college":
		return "BC"
	case "boston university":
		return "BU"
	case "northeastern university":
		return "Northeastern"
	case "harvard university":
		return "Harvard"
	case "massachusetts institute of technology":
		return "MIT"
	}
	return name
}

// LocatableOnly keeps listings with both coordinates present; these are
// the only ones the map view renders.
func LocatableOnly(listings []models.Listing) []models.Listing {
	var results []models.Listing
	for _, l := range listings {
		if l.Locatable() {
			results = append(results, l)
		}
	}
	return results
}

// SchoolOptions derives the map view's school picker choices from the
// listing set: "All" first, then the distinct raw school names sorted.
func SchoolOptions(listings []models.Listing) []string {
	seen := make(map[string]bool)
	for _, l := range listings {
		if name := l.School(); name != "" {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return append([]string{"All"}, names...)
}
