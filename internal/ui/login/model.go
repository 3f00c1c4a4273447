package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/auth"
	"github.com/nhle/tasko/internal/theme"
)

// SubmitMsg carries validated credentials to the parent.
type SubmitMsg struct {
	Email    string
	Password string
}

// QuitMsg is sent when the user aborts the login form.
type QuitMsg struct{}

// credentials holds form values on the heap so huh's Value() pointers
// survive model copies.
type credentials struct {
	email    string
	password string
}

// Model is the sign-in screen shown while no session exists.
type Model struct {
	form   *huh.Form
	creds  *credentials
	err    string
	busy   bool
	width  int
	height int
}

// New creates the login screen.
func New(width, height int) Model {
	return Model{creds: &credentials{}, width: width, height: height}
}

// Start builds a fresh form. The email is kept from the previous attempt.
func (m *Model) Start() tea.Cmd {
	m.creds.password = ""
	m.busy = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.creds.email).
				Validate(auth.ValidateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.creds.password).
				Validate(func(s string) error {
					return auth.ValidatePassword(s, auth.LoginPasswordMin)
				}),
		),
	).WithWidth(m.formWidth())
	return m.form.Init()
}

// SetError shows a failed attempt and reopens the form.
func (m *Model) SetError(msg string) tea.Cmd {
	m.err = msg
	return m.Start()
}

// Busy reports whether a login request is in flight.
func (m Model) Busy() bool { return m.busy }

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.busy = true
		m.err = ""
		email := strings.TrimSpace(m.creds.email)
		password := m.creds.password
		return m, func() tea.Msg {
			return SubmitMsg{Email: email, Password: password}
		}
	case huh.StateAborted:
		return m, func() tea.Msg { return QuitMsg{} }
	}
	return m, cmd
}

// View renders the sign-in card.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorIndigo).
		Render("Tasko")
	subtitle := theme.MutedStyle.Render("Sign in to your account")

	parts := []string{title, subtitle, ""}
	if m.err != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.err), "")
	}
	if m.busy {
		parts = append(parts, theme.MutedStyle.Render("Signing in..."))
	} else if m.form != nil {
		parts = append(parts, m.form.View())
	}
	parts = append(parts, "", theme.HelpStyle.Render("No account? Run `tasko signup`. Forgot it? Run `tasko reset-password`."))

	card := theme.BorderStyle.
		Padding(1, 2).
		Width(m.formWidth() + 6).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-10, 30), 60)
}
