package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eaglepark/models"
	"eaglepark/pipeline"
	"eaglepark/tui/styles"
)

var schoolFilters = []string{"All", "BC", "BU", "Northeastern", "Harvard", "MIT"}

// Home is the listing browser: school segment filter, "my listings"
// toggle, price sort, and the filtered list itself.
type Home struct {
	listings []models.Listing
	identity string

	filterIdx int
	mineOnly  bool
	priceSort pipeline.PriceSort

	selectedRow   int
	width, height int
}

func NewHome(identity string) Home {
	return Home{identity: identity}
}

func (v *Home) SetListings(listings []models.Listing) {
	v.listings = listings
	if v.selectedRow >= len(v.Filtered()) {
		v.selectedRow = 0
	}
}

func (v *Home) SetIdentity(identity string) {
	v.identity = identity
}

func (v *Home) SetSize(w, h int) {
	v.width = w
	v.height = h
}

// Filtered re-runs the pipeline over the current list; nothing is
// incrementally maintained.
func (v Home) Filtered() []models.Listing {
	return pipeline.Apply(v.listings, v.identity, pipeline.Query{
		MineOnly:  v.mineOnly,
		School:    schoolFilters[v.filterIdx],
		PriceSort: v.priceSort,
	})
}

// Selected returns the listing under the cursor, if any.
func (v Home) Selected() (models.Listing, bool) {
	filtered := v.Filtered()
	if len(filtered) == 0 || v.selectedRow >= len(filtered) {
		return models.Listing{}, false
	}
	return filtered[v.selectedRow], true
}

func (v Home) Update(msg tea.Msg) (Home, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selectedRow > 0 {
				v.selectedRow--
			}
		case "down", "j":
			if v.selectedRow < len(v.Filtered())-1 {
				v.selectedRow++
			}
		case "left", "h":
			v.filterIdx = (v.filterIdx + len(schoolFilters) - 1) % len(schoolFilters)
			v.selectedRow = 0
		case "right", "l":
			v.filterIdx = (v.filterIdx + 1) % len(schoolFilters)
			v.selectedRow = 0
		case "t":
			v.mineOnly = !v.mineOnly
			v.selectedRow = 0
		case "p":
			v.priceSort = (v.priceSort + 1) % 3
		}
	}
	return v, nil
}

func (v Home) View() string {
	var segments []string
	for i, f := range schoolFilters {
		if i == v.filterIdx {
			segments = append(segments, styles.FilterActive.Render(f))
		} else {
			segments = append(segments, styles.FilterInactive.Render(f))
		}
	}

	toggle := "off"
	if v.mineOnly {
		toggle = "on"
	}
	controls := styles.Muted.Render(fmt.Sprintf("My Listings: %s · Sort by Price: %s", toggle, v.priceSort))

	filtered := v.Filtered()

	var rows []string
	if len(filtered) == 0 {
		rows = append(rows, styles.Muted.Render("No listings match your filters."))
	}
	for i, l := range filtered {
		title := strings.TrimSpace(l.Address)
		if title == "" {
			// Row title falls back to the short school name.
			title = pipeline.NormalizeSchoolName(l.DisplayAddress())
		}

		line := title
		if price := pipeline.FormatPrice(l.Price); price != "" {
			line += "  " + styles.PriceTag.Render(price)
		}
		if school := l.School(); school != "" {
			line += "  " + styles.Muted.Render(pipeline.NormalizeSchoolName(school))
		}
		if l.IsAvailable {
			line += "  " + styles.Available.Render("Available")
		} else {
			line += "  " + styles.NotAvailable.Render("Not Available")
		}

		if i == v.selectedRow {
			line = styles.RowSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}

	help := styles.HelpBar.Render("←/→: school · t: my listings · p: price sort · enter: details · a: add · m: map · o: sign out · q: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Welcome Back!"),
		strings.Join(segments, ""),
		controls,
		"",
		strings.Join(rows, "\n"),
		"",
		help,
	)
}
