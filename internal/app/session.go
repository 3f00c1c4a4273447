package app

import (
	"context"
	"errors"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/credential"
	"github.com/nhle/tasko/internal/model"
)

// SessionStore persists the session cookies between runs.
type SessionStore interface {
	Save(baseURL string, cookies []*http.Cookie) error
	Clear(baseURL string) error
}

// keyringSessions stores sessions in the system keyring.
type keyringSessions struct{}

func (keyringSessions) Save(baseURL string, cookies []*http.Cookie) error {
	return credential.SaveSession(baseURL, cookies)
}

func (keyringSessions) Clear(baseURL string) error {
	return credential.ClearSession(baseURL)
}

// sessionCheckedMsg carries the identity endpoint's answer.
type sessionCheckedMsg struct {
	scoped
	user model.User
	err  error
}

// loginResultMsg is sent after a login attempt.
type loginResultMsg struct {
	scoped
	user model.User
	err  error
}

// logoutResultMsg is sent after the logout request completes.
type logoutResultMsg struct {
	err error
}

// sessionSavedMsg reports the outcome of persisting or clearing cookies.
type sessionSavedMsg struct {
	err error
}

// checkSession asks the server whether the stored cookies still hold a
// session.
func (m *Model) checkSession() tea.Cmd {
	c := m.client
	gen := m.gen
	return func() tea.Msg {
		s, err := c.CurrentUser(context.Background())
		if err != nil {
			return sessionCheckedMsg{scoped: scoped{gen}, err: err}
		}
		return sessionCheckedMsg{scoped: scoped{gen}, user: s.User}
	}
}

func (m Model) handleSessionChecked(msg sessionCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.log.Infow("session restored", "user", msg.user.Email)
		return m, m.startSession(msg.user)
	}

	m.currentView = ViewLogin
	if api.IsAuthError(msg.err) {
		m.log.Infow("no active session")
		return m, m.loginView.Start()
	}
	m.log.Warnw("session check failed", "error", msg.err)
	return m, m.loginView.SetError("Could not reach " + m.client.BaseURL())
}

// loginCmd posts the credentials from the login screen.
func (m *Model) loginCmd(email, password string) tea.Cmd {
	c := m.client
	gen := m.gen
	return func() tea.Msg {
		u, err := c.Login(context.Background(), email, password)
		if err != nil {
			return loginResultMsg{scoped: scoped{gen}, err: err}
		}
		return loginResultMsg{scoped: scoped{gen}, user: *u}
	}
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Infow("login failed", "error", msg.err)
		return m, m.loginView.SetError(loginFailure(msg.err))
	}

	m.log.Infow("logged in", "user", msg.user.Email)
	return m, tea.Batch(m.saveSession(), m.startSession(msg.user))
}

// loginFailure turns a login error into the message shown on the form.
func loginFailure(err error) string {
	if fe, ok := api.AsFieldErrors(err); ok {
		return fe.Summary()
	}
	var ae *api.AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "Login failed. Please try again."
}

// startSession installs the user and fires the bootstrap fetches. The
// filtered fetch follows once all three have answered.
func (m *Model) startSession(u model.User) tea.Cmd {
	m.state.User = u
	m.currentView = ViewBoard
	m.bootPending = 3
	m.syncViews()

	return tea.Batch(
		m.board.Init(),
		m.fetchAll(),
		m.fetchStats(),
		m.fetchNotifications(),
		m.scheduleDueScan(),
	)
}

// bootStep records one finished bootstrap fetch.
func (m *Model) bootStep() tea.Cmd {
	if m.bootPending == 0 {
		return nil
	}
	m.bootPending--
	if m.bootPending > 0 {
		return nil
	}
	return m.refilter()
}

// logout ends the session on the server and locally.
func (m *Model) logout() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return logoutResultMsg{err: c.Logout(context.Background())}
	}
}

func (m Model) handleLogoutResult(msg logoutResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && !api.IsAuthError(msg.err) {
		m.log.Warnw("logout failed", "error", msg.err)
		return m, m.toast.Present("Failed to log out", model.NotifyError)
	}
	m.log.Infow("logged out")
	return m, m.endSession("")
}

// endSession drops every piece of session state and shows the login
// screen, with reason as its message when set.
func (m *Model) endSession(reason string) tea.Cmd {
	m.gen++
	m.state.Reset()
	m.bootPending = 0
	m.searchGen++
	m.pendingSearch = ""
	m.pendingDelete = nil
	m.confirmPurge = false
	m.panelOpen = false
	m.form.Close()
	m.detail.Clear()
	m.currentView = ViewLogin
	m.resize()
	m.syncViews()

	start := m.loginView.Start()
	if reason != "" {
		start = m.loginView.SetError(reason)
	}
	return tea.Batch(start, m.clearSession())
}

// expire handles a 401 from any call made under the current session.
func (m *Model) expire(err error) tea.Cmd {
	m.log.Infow("session expired", "error", err)
	return m.endSession("Your session has expired. Please sign in again.")
}

func (m *Model) saveSession() tea.Cmd {
	c, store := m.client, m.sessions
	return func() tea.Msg {
		return sessionSavedMsg{err: store.Save(c.BaseURL(), c.Cookies())}
	}
}

func (m *Model) clearSession() tea.Cmd {
	c, store := m.client, m.sessions
	return func() tea.Msg {
		return sessionSavedMsg{err: store.Clear(c.BaseURL())}
	}
}
