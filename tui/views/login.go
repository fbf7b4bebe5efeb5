package views

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"eaglepark/auth"
	"eaglepark/schools"
	"eaglepark/tui/styles"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

type Login struct {
	auth    *auth.Client
	domains []string

	email    textinput.Model
	password textinput.Model
	focus    loginField

	width int
}

func NewLogin(authClient *auth.Client) Login {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 128
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword

	return Login{auth: authClient, email: email, password: password}
}

func (v *Login) SetDomains(domains []string) {
	v.domains = domains
}

func (v *Login) SetSize(w, _ int) {
	v.width = w
}

// buttonsEnabled requires both fields plausible before sign-in or
// sign-up is allowed.
func (v Login) buttonsEnabled() bool {
	return schools.CredentialsPlausible(v.email.Value(), v.password.Value())
}

func (v Login) Update(msg tea.Msg) (Login, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			if v.focus == fieldEmail {
				v.focus = fieldPassword
				v.email.Blur()
				v.password.Focus()
			} else {
				v.focus = fieldEmail
				v.password.Blur()
				v.email.Focus()
			}
			return v, nil
		case "enter":
			return v, v.submit(false)
		case "ctrl+s":
			return v, v.submit(true)
		}
	}

	var cmd tea.Cmd
	if v.focus == fieldEmail {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

// submit validates the email domain against the loaded directory, then
// signs in (or up). Domain membership is a client-side gate only.
func (v Login) submit(signUp bool) tea.Cmd {
	if !v.buttonsEnabled() {
		return nil
	}

	email := v.email.Value()
	password := v.password.Value()

	if !schools.ValidEmailDomain(email, v.domains) {
		return func() tea.Msg {
			return AuthResultMsg{Err: &auth.AuthError{Op: "sign in", Msg: "please use a valid school email"}}
		}
	}

	client := v.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var err error
		if signUp {
			err = client.SignUp(ctx, email, password)
		} else {
			err = client.SignIn(ctx, email, password)
		}
		if err != nil {
			return AuthResultMsg{Err: err}
		}
		return AuthResultMsg{Email: email}
	}
}

func (v Login) View() string {
	title := styles.Title.Render("Eagle Park")
	tagline := styles.Tagline.Render("Stop Circling. Start Soaring.")

	form := lipgloss.JoinVertical(lipgloss.Left,
		styles.Label.Render("Email"),
		v.email.View(),
		"",
		styles.Label.Render("Password"),
		v.password.View(),
	)

	hint := "enter: log in · ctrl+s: sign up · tab: switch field"
	if !v.buttonsEnabled() {
		hint = "enter an email and a password of at least 6 characters"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		styles.Card.Render(form),
		"",
		styles.HelpBar.Render(hint),
		"",
		tagline,
	)
}
