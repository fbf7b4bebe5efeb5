// Package tui is the terminal presentation layer: login, listing
// browser, add-listing form, detail, and map screens over the client
// packages. All shared state mutates on the bubbletea update loop.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eaglepark/auth"
	"eaglepark/geocode"
	"eaglepark/models"
	"eaglepark/schools"
	"eaglepark/store"
	"eaglepark/tui/styles"
	"eaglepark/tui/views"
)

type screen int

const (
	screenLogin screen = iota
	screenHome
	screenAdd
	screenDetail
	screenMap
)

// Deps is everything the TUI consumes; main wires it up.
type Deps struct {
	Auth    *auth.Client
	Store   *store.Store
	Schools *schools.Client
	Bridge  *geocode.Bridge
}

type snapshotMsg store.Snapshot

type feedClosedMsg struct{}

type geocodeMsg geocode.Update

type App struct {
	deps Deps
	ctx  context.Context

	active     screen
	detailFrom screen // where esc returns to from the detail screen

	login  views.Login
	home   views.Home
	add    views.Add
	detail views.Detail
	mapv   views.Map

	schoolDir []models.School
	identity  string

	// The live subscription is scoped to the signed-in session.
	feed       <-chan store.Snapshot
	feedCancel context.CancelFunc

	// One alert at a time; a newer message replaces the old.
	alert  string
	notice string

	width, height int
}

func NewApp(ctx context.Context, deps Deps) App {
	return App{
		deps:   deps,
		ctx:    ctx,
		active: screenLogin,
		login:  views.NewLogin(deps.Auth),
		home:   views.NewHome(""),
		add:    views.NewAdd(ctx, deps.Store, deps.Bridge),
		detail: views.NewDetail(ctx, deps.Store),
		mapv:   views.NewMap(ctx, deps.Bridge),
	}
}

// Run drives the TUI until quit or ctx cancellation.
func Run(ctx context.Context, deps Deps) error {
	program := tea.NewProgram(NewApp(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.loadSchools(), a.listenGeocode())
}

// loadSchools fetches the directory once per activation; both the login
// domain check and the add form's picker read the result.
func (a App) loadSchools() tea.Cmd {
	client := a.deps.Schools
	ctx := a.ctx
	return func() tea.Msg {
		loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		dir, err := client.Load(loadCtx)
		return views.SchoolsMsg{Schools: dir, Err: err}
	}
}

func (a App) listenFeed() tea.Cmd {
	feed := a.feed
	return func() tea.Msg {
		snap, ok := <-feed
		if !ok {
			return feedClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (a App) listenGeocode() tea.Cmd {
	updates := a.deps.Bridge.Updates()
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case update := <-updates:
			return geocodeMsg(update)
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) openFeed() {
	feedCtx, cancel := context.WithCancel(a.ctx)
	a.feedCancel = cancel
	a.feed = a.deps.Store.Subscribe(feedCtx)
}

func (a *App) closeFeed() {
	if a.feedCancel != nil {
		a.feedCancel()
		a.feedCancel = nil
		a.feed = nil
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		a.home.SetSize(msg.Width, msg.Height)
		a.add.SetSize(msg.Width, msg.Height)
		a.mapv.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SchoolsMsg:
		if msg.Err != nil {
			// Degraded but usable: selection lists stay empty and the
			// user is told why.
			a.alert = "School directory unavailable: " + msg.Err.Error()
			return a, nil
		}
		a.schoolDir = msg.Schools
		a.login.SetDomains(schools.AllowedDomains(msg.Schools))
		a.add.SetSchools(msg.Schools)
		return a, nil

	case views.AuthResultMsg:
		if msg.Err != nil {
			a.alert = msg.Err.Error()
			return a, nil
		}
		a.identity = msg.Email
		a.home.SetIdentity(msg.Email)
		a.alert = ""
		a.notice = ""
		a.active = screenHome
		a.openFeed()
		return a, a.listenFeed()

	case views.SignedOutMsg:
		if msg.Err != nil {
			a.alert = msg.Err.Error()
		}
		return a, nil

	case snapshotMsg:
		if msg.Err != nil {
			a.alert = "Listing feed degraded: " + msg.Err.Error()
		} else {
			a.home.SetListings(msg.Listings)
			a.mapv.SetListings(msg.Listings)
		}
		return a, a.listenFeed()

	case feedClosedMsg:
		return a, nil

	case geocodeMsg:
		a.add.SetPin(msg.Result.Lat, msg.Result.Lng)
		a.mapv.SetCenter(msg.Result.Lat, msg.Result.Lng)
		return a, a.listenGeocode()

	case views.CreateResultMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, store.ErrNoIdentity) {
				a.alert = "Sign in before posting a listing."
			} else {
				a.alert = msg.Err.Error()
			}
			return a, nil
		}
		a.notice = "Listing added"
		a.active = screenHome
		return a, nil

	case views.DeleteResultMsg:
		if msg.Err != nil {
			a.alert = msg.Err.Error()
			return a, nil
		}
		a.notice = "Listing removed"
		a.active = a.detailFrom
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A keypress acknowledges the current alert.
	a.alert = ""
	a.notice = ""

	switch msg.String() {
	case "ctrl+c":
		a.closeFeed()
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.active {
	case screenLogin:
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case screenHome:
		switch msg.String() {
		case "q":
			a.closeFeed()
			return a, tea.Quit
		case "a":
			a.add = views.NewAdd(a.ctx, a.deps.Store, a.deps.Bridge)
			a.add.SetSchools(a.schoolDir)
			a.active = screenAdd
			return a, nil
		case "m":
			a.active = screenMap
			return a, nil
		case "o":
			a.closeFeed()
			a.identity = ""
			a.home.SetIdentity("")
			a.active = screenLogin
			return a, a.signOut()
		case "enter":
			if listing, ok := a.home.Selected(); ok {
				a.detail.Show(listing, a.identity)
				a.detailFrom = screenHome
				a.active = screenDetail
			}
			return a, nil
		}
		a.home, cmd = a.home.Update(msg)
		return a, cmd

	case screenAdd:
		if msg.String() == "esc" {
			a.active = screenHome
			return a, nil
		}
		a.add, cmd = a.add.Update(msg)
		return a, cmd

	case screenDetail:
		if msg.String() == "esc" {
			a.active = a.detailFrom
			return a, nil
		}
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case screenMap:
		switch msg.String() {
		case "esc":
			a.active = screenHome
			return a, nil
		case "enter":
			if listing, ok := a.mapv.Selected(); ok {
				a.detail.Show(listing, a.identity)
				a.detailFrom = screenMap
				a.active = screenDetail
				return a, nil
			}
		}
		a.mapv, cmd = a.mapv.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) signOut() tea.Cmd {
	client := a.deps.Auth
	ctx := a.ctx
	return func() tea.Msg {
		outCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return views.SignedOutMsg{Err: client.SignOut(outCtx)}
	}
}

func (a App) View() string {
	var body string
	switch a.active {
	case screenLogin:
		body = a.login.View()
	case screenHome:
		body = a.home.View()
	case screenAdd:
		body = a.add.View()
	case screenDetail:
		body = a.detail.View()
	case screenMap:
		body = a.mapv.View()
	}

	status := ""
	if a.alert != "" {
		status = styles.Alert.Render(a.alert)
	} else if a.notice != "" {
		status = styles.Notice.Render(a.notice)
	}

	if status == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}
