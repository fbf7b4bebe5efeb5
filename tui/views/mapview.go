package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eaglepark/geocode"
	"eaglepark/models"
	"eaglepark/pipeline"
	"eaglepark/tui/styles"
)

// Map lists the locatable listings with a camera center, standing in for
// the map collaborator. Unlocatable listings never appear here.
type Map struct {
	bridge *geocode.Bridge
	ctx    context.Context

	listings  []models.Listing
	schoolIdx int

	search    textinput.Model
	searching bool

	centerLat float64
	centerLng float64

	selectedRow int
	width       int
}

func NewMap(ctx context.Context, bridge *geocode.Bridge) Map {
	search := textinput.New()
	search.Placeholder = "Search address…"
	search.CharLimit = 200

	// Default camera over Chestnut Hill.
	return Map{bridge: bridge, ctx: ctx, search: search, centerLat: 42.3355, centerLng: -71.1685}
}

func (v *Map) SetListings(listings []models.Listing) {
	v.listings = listings
	v.schoolIdx = 0
	v.recenter()
}

// SetCenter is called when an accepted geocode result arrives.
func (v *Map) SetCenter(lat, lng float64) {
	v.centerLat = lat
	v.centerLng = lng
}

func (v *Map) SetSize(w, _ int) {
	v.width = w
}

func (v Map) options() []string {
	return pipeline.SchoolOptions(v.listings)
}

// Filtered keeps the locatable subset, narrowed to the selected school.
// The school comparison here is on the raw stored name, not the
// normalized display key.
func (v Map) Filtered() []models.Listing {
	options := v.options()
	selected := options[v.schoolIdx%len(options)]

	var results []models.Listing
	for _, l := range pipeline.LocatableOnly(v.listings) {
		if selected != "All" && l.School() != selected {
			continue
		}
		results = append(results, l)
	}
	return results
}

// Selected returns the listing under the cursor, if any.
func (v Map) Selected() (models.Listing, bool) {
	filtered := v.Filtered()
	if len(filtered) == 0 || v.selectedRow >= len(filtered) {
		return models.Listing{}, false
	}
	return filtered[v.selectedRow], true
}

// recenter moves the camera to the first filtered listing.
func (v *Map) recenter() {
	filtered := v.Filtered()
	if len(filtered) == 0 {
		return
	}
	first := filtered[0]
	v.centerLat = *first.Latitude
	v.centerLng = *first.Longitude
}

func (v Map) Update(msg tea.Msg) (Map, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.searching {
			switch msg.String() {
			case "enter":
				v.searching = false
				v.search.Blur()
				v.bridge.Lookup(v.ctx, v.search.Value())
				return v, nil
			case "esc":
				v.searching = false
				v.search.Blur()
				return v, nil
			}
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)
			return v, cmd
		}

		switch msg.String() {
		case "/":
			v.searching = true
			v.search.Focus()
			return v, nil
		case "left", "h":
			options := v.options()
			v.schoolIdx = (v.schoolIdx + len(options) - 1) % len(options)
			v.selectedRow = 0
			v.recenter()
		case "right", "l":
			options := v.options()
			v.schoolIdx = (v.schoolIdx + 1) % len(options)
			v.selectedRow = 0
			v.recenter()
		case "up", "k":
			if v.selectedRow > 0 {
				v.selectedRow--
			}
		case "down", "j":
			if v.selectedRow < len(v.Filtered())-1 {
				v.selectedRow++
			}
		}
	}
	return v, nil
}

func (v Map) View() string {
	options := v.options()

	var segments []string
	for i, key := range options {
		label := pipeline.NormalizeSchoolName(key)
		if i == v.schoolIdx%len(options) {
			segments = append(segments, styles.FilterActive.Render(label))
		} else {
			segments = append(segments, styles.FilterInactive.Render(label))
		}
	}

	camera := styles.Muted.Render(fmt.Sprintf("camera: %.4f, %.4f", v.centerLat, v.centerLng))

	filtered := v.Filtered()
	var rows []string
	if len(filtered) == 0 {
		rows = append(rows, styles.Muted.Render("No listings with map locations."))
	}
	for i, l := range filtered {
		line := fmt.Sprintf("%s  %s", l.DisplayAddress(),
			styles.Muted.Render(fmt.Sprintf("(%.4f, %.4f)", *l.Latitude, *l.Longitude)))
		if i == v.selectedRow {
			line = styles.RowSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}

	searchLine := v.search.View()
	help := styles.HelpBar.Render("/: search address · ←/→: school · enter: details · esc: back")

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Listings Map"),
		searchLine,
		strings.Join(segments, ""),
		camera,
		"",
		strings.Join(rows, "\n"),
		"",
		help,
	)
}
