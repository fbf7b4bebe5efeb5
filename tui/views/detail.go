package views

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eaglepark/models"
	"eaglepark/store"
	"eaglepark/tui/styles"
)

// Detail shows one listing in full. The remove control only exists for
// the listing's owner; that is presentation gating, not authorization.
type Detail struct {
	store    *store.Store
	ctx      context.Context
	listing  models.Listing
	identity string
}

func NewDetail(ctx context.Context, st *store.Store) Detail {
	return Detail{store: st, ctx: ctx}
}

func (v *Detail) Show(listing models.Listing, identity string) {
	v.listing = listing
	v.identity = identity
}

func (v Detail) Update(msg tea.Msg) (Detail, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "d" && store.CanDelete(v.listing, v.identity) {
			st := v.store
			id := v.listing.ID
			ctx := v.ctx
			return v, func() tea.Msg {
				writeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
				defer cancel()
				return DeleteResultMsg{Err: st.Delete(writeCtx, id)}
			}
		}
	}
	return v, nil
}

func (v Detail) View() string {
	l := v.listing

	price := "N/A"
	if l.Price != "" {
		price = l.Price
	}

	lines := []string{
		styles.Title.Render(l.DisplayAddress()),
		styles.Label.Render("Price: " + price),
	}

	if l.Notes != "" {
		lines = append(lines, styles.Label.Render("Notes: "+l.Notes))
	}

	if l.IsAvailable {
		lines = append(lines, styles.Available.Render("Available: Yes"))
	} else {
		lines = append(lines, styles.NotAvailable.Render("Available: No"))
	}

	lines = append(lines, styles.Muted.Render("Posted By: "+l.PostedBy))

	if l.Locatable() {
		lines = append(lines,
			styles.Label.Render("Location"),
			styles.Muted.Render(fmt.Sprintf("Lat: %f, Long: %f", *l.Latitude, *l.Longitude)),
		)
	}

	help := "esc: back"
	if store.CanDelete(l, v.identity) {
		help = "d: remove listing · esc: back"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		styles.HelpBar.Render(help),
	)
}
