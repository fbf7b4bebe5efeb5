package views

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eaglepark/geocode"
	"eaglepark/models"
	"eaglepark/store"
	"eaglepark/tui/styles"
)

type addField int

const (
	addAddress addField = iota
	addPrice
	addNotes
	addFieldCount
)

// Add is the add-listing form. Typing in the address field triggers a
// token-guarded geocode that moves the pin; picking a school recenters
// it on campus. The pin coordinate is what gets persisted.
type Add struct {
	store  *store.Store
	bridge *geocode.Bridge
	ctx    context.Context

	schools   []models.School
	schoolIdx int

	address textinput.Model
	price   textinput.Model
	notes   textinput.Model
	focus   addField

	available bool
	pinLat    float64
	pinLng    float64
	hasPin    bool

	width int
}

func NewAdd(ctx context.Context, st *store.Store, bridge *geocode.Bridge) Add {
	address := textinput.New()
	address.Placeholder = "Type address to move map…"
	address.CharLimit = 200
	address.Focus()

	price := textinput.New()
	price.Placeholder = "Hourly price"
	price.CharLimit = 32

	notes := textinput.New()
	notes.Placeholder = "Any details…"
	notes.CharLimit = 500

	return Add{
		store:     st,
		bridge:    bridge,
		ctx:       ctx,
		address:   address,
		price:     price,
		notes:     notes,
		available: true,
	}
}

// SetSchools installs the directory and centers the pin on the first
// school if no location has been picked yet.
func (v *Add) SetSchools(dir []models.School) {
	v.schools = dir
	if len(dir) > 0 && !v.hasPin {
		v.pinLat = dir[0].Coordinates.Lat
		v.pinLng = dir[0].Coordinates.Lng
		v.hasPin = true
	}
}

func (v *Add) SetSize(w, _ int) {
	v.width = w
}

// SetPin is called when an accepted geocode result arrives.
func (v *Add) SetPin(lat, lng float64) {
	v.pinLat = lat
	v.pinLng = lng
	v.hasPin = true
}

func (v Add) selectedSchool() (models.School, bool) {
	if len(v.schools) == 0 {
		return models.School{}, false
	}
	return v.schools[v.schoolIdx], true
}

func (v Add) Update(msg tea.Msg) (Add, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			v.focus = (v.focus + 1) % addFieldCount
			v.syncFocus()
			return v, nil
		case "shift+tab":
			v.focus = (v.focus + addFieldCount - 1) % addFieldCount
			v.syncFocus()
			return v, nil
		case "ctrl+k":
			if len(v.schools) > 0 {
				v.schoolIdx = (v.schoolIdx + 1) % len(v.schools)
				school := v.schools[v.schoolIdx]
				v.SetPin(school.Coordinates.Lat, school.Coordinates.Lng)
			}
			return v, nil
		case "ctrl+a":
			v.available = !v.available
			return v, nil
		case "enter":
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case addAddress:
		before := v.address.Value()
		v.address, cmd = v.address.Update(msg)
		if after := v.address.Value(); after != before {
			// One lookup per change; stale responses are dropped by
			// the bridge, not debounced here.
			v.bridge.Lookup(v.ctx, after)
		}
	case addPrice:
		v.price, cmd = v.price.Update(msg)
	case addNotes:
		v.notes, cmd = v.notes.Update(msg)
	}
	return v, cmd
}

func (v *Add) syncFocus() {
	v.address.Blur()
	v.price.Blur()
	v.notes.Blur()
	switch v.focus {
	case addAddress:
		v.address.Focus()
	case addPrice:
		v.price.Focus()
	case addNotes:
		v.notes.Focus()
	}
}

func (v Add) submit() tea.Cmd {
	draft := models.Draft{
		Address:     v.address.Value(),
		Price:       v.price.Value(),
		Notes:       v.notes.Value(),
		IsAvailable: v.available,
	}
	if school, ok := v.selectedSchool(); ok {
		draft.SchoolName = school.Name
	}
	if v.hasPin {
		lat, lng := v.pinLat, v.pinLng
		draft.Latitude = &lat
		draft.Longitude = &lng
	}

	st := v.store
	ctx := v.ctx
	return func() tea.Msg {
		writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		return CreateResultMsg{Err: st.Create(writeCtx, draft)}
	}
}

func (v Add) View() string {
	schoolName := "Loading schools…"
	if school, ok := v.selectedSchool(); ok {
		schoolName = school.Name
	}

	pin := "no location yet"
	if v.hasPin {
		pin = fmt.Sprintf("pin at %.4f, %.4f", v.pinLat, v.pinLng)
	}

	availability := "Available Now: yes"
	if !v.available {
		availability = "Available Now: no"
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		styles.Label.Render("Closest School: ")+styles.PriceTag.Render(schoolName),
		styles.Muted.Render(pin),
		"",
		styles.Label.Render("Address (optional)"),
		v.address.View(),
		"",
		styles.Label.Render("Price ($/hr)"),
		v.price.View(),
		"",
		styles.Label.Render("Notes"),
		v.notes.View(),
		"",
		styles.Label.Render(availability),
	)

	help := styles.HelpBar.Render("tab: next field · ctrl+k: school · ctrl+a: availability · enter: submit · esc: cancel")

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("Add Parking Listing"),
		styles.Card.Render(form),
		help,
	)
}
