package pipeline

import (
	"testing"

	"eaglepark/models"
)

func listing(id, address, price, postedBy, school string) models.Listing {
	l := models.Listing{
		ID:          id,
		Address:     address,
		Price:       price,
		PostedBy:    postedBy,
		IsAvailable: true,
	}
	if school != "" {
		l.SchoolName = &school
	}
	return l
}

func TestNumericPrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$12.50/hr", 12.50},
		{"15", 15},
		{"no digits here", 0.0},
		{"", 0.0},
		{"free!", 0.0},
		{"about $8 per hour", 8},
	}

	for _, tc := range cases {
		if got := NumericPrice(tc.in); got != tc.want {
			t.Fatalf("NumericPrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice("12.50"); got != "$12.50/hr" {
		t.Fatalf("expected $12.50/hr, got %q", got)
	}
	if got := FormatPrice("no digits"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestCleanPrice(t *testing.T) {
	if got := CleanPrice("$15/hr"); got != "15" {
		t.Fatalf("expected 15, got %q", got)
	}
	if got := CleanPrice("20 hr"); got != "20" {
		t.Fatalf("expected 20, got %q", got)
	}
}

func TestNormalizeSchoolNameIdempotent(t *testing.T) {
	names := []string{
		"Boston College",
		"Boston University",
		"Northeastern University",
		"Harvard University",
		"Massachusetts Institute of Technology",
		"Tufts University", // unrecognized passes through
	}

	for _, name := range names {
		once := NormalizeSchoolName(name)
		twice := NormalizeSchoolName(once)
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q then %q", name, once, twice)
		}
	}

	if got := NormalizeSchoolName("boston college"); got != "BC" {
		t.Fatalf("expected BC, got %q", got)
	}
	if got := NormalizeSchoolName("Tufts University"); got != "Tufts University" {
		t.Fatalf("unrecognized name should pass through, got %q", got)
	}
}

func TestOwnershipFilterCaseInsensitive(t *testing.T) {
	listings := []models.Listing{
		listing("1", "1 Elm St", "10", "a@bc.edu", ""),
		listing("2", "2 Elm St", "10", "A@BC.EDU", ""),
		listing("3", "3 Elm St", "10", "b@bu.edu", ""),
	}

	got := Apply(listings, "a@bc.edu", Query{MineOnly: true})
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected ids %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSchoolFilter(t *testing.T) {
	listings := []models.Listing{
		listing("1", "1 Elm St", "10", "x@bc.edu", "Boston College"),
		listing("2", "2 Elm St", "10", "x@bu.edu", "Boston University"),
		listing("3", "3 Elm St", "10", "x@bu.edu", ""), // absent school
	}

	got := Apply(listings, "", Query{School: "BC"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only listing 1, got %d listings", len(got))
	}

	// Absent school is excluded under any specific filter.
	got = Apply(listings, "", Query{School: "BU"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected only listing 2, got %d listings", len(got))
	}

	// "All" keeps everything, absent school included.
	got = Apply(listings, "", Query{School: "All"})
	if len(got) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(got))
	}
}

func TestPriceSortReversalAndStability(t *testing.T) {
	listings := []models.Listing{
		listing("a", "1 St", "30", "", ""),
		listing("b", "2 St", "10", "", ""),
		listing("c", "3 St", "20", "", ""),
		listing("d", "4 St", "20", "", ""), // equal to c, must stay after it
	}

	asc := Apply(listings, "", Query{PriceSort: SortAscending})
	wantAsc := []string{"b", "c", "d", "a"}
	for i, id := range wantAsc {
		if asc[i].ID != id {
			t.Fatalf("ascending[%d] = %s, want %s", i, asc[i].ID, id)
		}
	}

	desc := Apply(listings, "", Query{PriceSort: SortDescending})
	wantDesc := []string{"a", "c", "d", "b"}
	for i, id := range wantDesc {
		if desc[i].ID != id {
			t.Fatalf("descending[%d] = %s, want %s", i, desc[i].ID, id)
		}
	}

	// Distinct prices reverse exactly; equal prices keep input order in
	// both directions.
	if asc[1].ID != desc[1].ID || asc[2].ID != desc[2].ID {
		t.Fatalf("equal-priced listings should keep input order in both sorts")
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	listings := []models.Listing{
		listing("a", "1 St", "30", "", ""),
		listing("b", "2 St", "10", "", ""),
	}

	Apply(listings, "", Query{PriceSort: SortAscending})

	if listings[0].ID != "a" || listings[1].ID != "b" {
		t.Fatalf("input order mutated: %s, %s", listings[0].ID, listings[1].ID)
	}
}

func TestLocatableOnly(t *testing.T) {
	lat, lng := 42.3355, -71.1685

	both := listing("both", "1 St", "", "", "")
	both.Latitude = &lat
	both.Longitude = &lng

	latOnly := listing("lat", "2 St", "", "", "")
	latOnly.Latitude = &lat

	lngOnly := listing("lng", "3 St", "", "", "")
	lngOnly.Longitude = &lng

	neither := listing("none", "4 St", "", "", "")

	got := LocatableOnly([]models.Listing{both, latOnly, lngOnly, neither})
	if len(got) != 1 || got[0].ID != "both" {
		t.Fatalf("expected only the fully located listing, got %d", len(got))
	}
}

func TestSchoolOptions(t *testing.T) {
	listings := []models.Listing{
		listing("1", "", "", "", "Boston University"),
		listing("2", "", "", "", "Boston College"),
		listing("3", "", "", "", "Boston College"),
		listing("4", "", "", "", ""),
	}

	got := SchoolOptions(listings)
	want := []string{"All", "Boston College", "Boston University"}
	if len(got) != len(want) {
		t.Fatalf("expected %d options, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("options[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
