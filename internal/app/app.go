package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/keys"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
	"github.com/nhle/tasko/internal/ui"
	"github.com/nhle/tasko/internal/ui/command"
	"github.com/nhle/tasko/internal/ui/detail"
	helpview "github.com/nhle/tasko/internal/ui/help"
	"github.com/nhle/tasko/internal/ui/login"
	"github.com/nhle/tasko/internal/ui/notifpanel"
	"github.com/nhle/tasko/internal/ui/taskform"
	"github.com/nhle/tasko/internal/ui/tasklist"
	"github.com/nhle/tasko/internal/ui/toast"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewBoard
	ViewDetail
	ViewForm
	ViewHelp
	ViewCommand
)

// Options configures the root model.
type Options struct {
	Client     *api.Client
	Config     *model.AppConfig
	ConfigPath string
	Log        *zap.SugaredLogger

	// Sessions persists the session cookies. Defaults to the system keyring.
	Sessions SessionStore

	// Now and Tick default to time.Now and tea.Tick.
	Now  func() time.Time
	Tick toast.Ticker
}

// Model is the root Bubble Tea model. It owns the dashboard state and
// routes messages to the active view.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	ready        bool

	client     *api.Client
	cfg        *model.AppConfig
	configPath string
	log        *zap.SugaredLogger
	sessions   SessionStore
	now        func() time.Time
	tick       toast.Ticker

	state *dashboard.State

	// gen identifies the current session. Responses to requests issued
	// under an earlier session are dropped.
	gen int

	// bootPending counts bootstrap fetches still outstanding; the first
	// filtered fetch is issued when it reaches zero.
	bootPending int

	searchGen     int
	pendingSearch string
	pendingDelete *model.Task
	confirmPurge  bool
	panelOpen     bool

	keys        *keys.KeyMap
	loginView   login.Model
	board       tasklist.Model
	detail      detail.Model
	form        taskform.Model
	panel       notifpanel.Model
	helpView    helpview.Model
	commandView command.Model
	toast       toast.Model
}

// New creates the root application model.
func New(opts Options) Model {
	k := keys.DefaultKeyMap()

	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = keyringSessions{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tick := opts.Tick
	if tick == nil {
		tick = tea.Tick
	}

	filters := dashboard.DefaultFilters()
	filters.Sort = dashboard.ParseSortKey(cfg.Display.Sort)
	filters.ListMode = cfg.Display.ListMode

	toastDuration := time.Duration(cfg.Display.ToastMillis) * time.Millisecond

	return Model{
		currentView: ViewLogin,
		client:      opts.Client,
		cfg:         cfg,
		configPath:  opts.ConfigPath,
		log:         log,
		sessions:    sessions,
		now:         now,
		tick:        tick,
		state:       dashboard.New(filters),
		keys:        k,
		loginView:   login.New(80, 24),
		board:       tasklist.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		form:        taskform.New(80, 24),
		panel:       notifpanel.New(k, 40, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		toast:       toast.New(toastDuration).WithTicker(tick),
	}
}

// State exposes the dashboard state for inspection.
func (m Model) State() *dashboard.State { return m.state }

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Init checks the stored session before anything else is shown.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Tasko"),
		m.checkSession(),
	)
}

// scoped is embedded in every message produced by a request so that
// responses outliving their session can be recognised.
type scoped struct {
	gen int
}

func (s scoped) sessionGen() int { return s.gen }

type sessionScoped interface {
	sessionGen() int
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s, ok := msg.(sessionScoped); ok && s.sessionGen() != m.gen {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd

	// Session
	case sessionCheckedMsg:
		return m.handleSessionChecked(msg)
	case login.SubmitMsg:
		return m, m.loginCmd(msg.Email, msg.Password)
	case login.QuitMsg:
		return m, tea.Quit
	case loginResultMsg:
		return m.handleLoginResult(msg)
	case logoutResultMsg:
		return m.handleLogoutResult(msg)
	case sessionSavedMsg:
		if msg.err != nil {
			m.log.Warnw("storing session failed", "error", msg.err)
		}
		return m, nil

	// Tasks
	case allTasksMsg:
		return m.handleAllTasks(msg)
	case filteredTasksMsg:
		return m.handleFilteredTasks(msg)
	case statsMsg:
		return m.handleStats(msg)
	case taskSavedMsg:
		return m.handleTaskSaved(msg)
	case taskDeletedMsg:
		return m.handleTaskDeleted(msg)
	case taskToggledMsg:
		return m.handleTaskToggled(msg)
	case bulkDoneMsg:
		return m.handleBulkDone(msg)
	case searchTickMsg:
		return m.handleSearchTick(msg)
	case dueTickMsg:
		return m.handleDueTick()

	// Notifications
	case notificationsMsg:
		return m.handleNotifications(msg)
	case notificationReadMsg:
		return m.handleNotificationRead(msg)
	case notificationsMarkedMsg:
		return m.handleNotificationsMarked(msg)
	case notificationsClearedMsg:
		return m.handleNotificationsCleared(msg)

	// Views
	case tasklist.SelectedTaskMsg:
		t, ok := m.state.Task(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.detail.SetTask(t, m.today())
		m.switchTo(ViewDetail)
		return m, nil

	case tasklist.SearchChangedMsg:
		return m.handleSearchChanged(msg.Query)

	case detail.BackMsg:
		m.currentView = ViewBoard
		m.detail.Clear()
		return m, nil

	case detail.ActionMsg:
		switch msg.Action {
		case detail.ActionEdit:
			return m, m.openEdit(msg.TaskID)
		case detail.ActionDelete:
			m.askDelete(msg.TaskID)
			return m, nil
		case detail.ActionToggle:
			return m, m.toggleDone(msg.TaskID)
		}
		return m, nil

	case taskform.SubmitMsg:
		return m.handleSubmit(msg)

	case taskform.CancelMsg:
		m.form.Close()
		m.currentView = m.previousView
		return m, nil

	case notifpanel.CloseMsg:
		m.panelOpen = false
		m.resize()
		return m, nil
	case notifpanel.MarkReadMsg:
		return m, m.markRead(msg.ID)
	case notifpanel.MarkAllReadMsg:
		return m, m.markAllRead()
	case notifpanel.ClearAllMsg:
		return m, m.clearNotifications()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(msg.Command)
	case command.InvalidMsg:
		m.currentView = m.previousView
		return m, m.toast.Present(msg.Err.Error(), model.NotifyError)
	case command.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			m.log.Warnw("saving config failed", "error", msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView != ViewLogin {
			if next, cmd, handled := m.handleKeys(msg); handled {
				return next, cmd
			}
		}
	}

	m.toast, _ = m.toast.Update(msg)

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.panelOpen && m.currentView == ViewBoard {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
	}

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewBoard:
		m.board, cmd = m.board.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// switchTo remembers the current view and activates v.
func (m *Model) switchTo(v ViewState) {
	if m.currentView == v {
		return
	}
	m.previousView = m.currentView
	m.currentView = v
}

// resize propagates the layout to every view.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()

	m.loginView.SetSize(w, h)
	m.board.SetSize(m.layout.BoardWidth(m.panelOpen), h)
	m.detail.SetSize(w, h)
	m.form.SetSize(w, h)
	m.panel.SetSize(m.layout.PanelWidth, h)
	m.helpView.SetSize(w, h)
	m.commandView.SetSize(w, h)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "Tasko"
	status := ""
	if m.currentView != ViewLogin {
		title = "Tasko · " + m.state.User.Welcome()
		status = ui.UserStatus(m.state.User, m.state.Notifications.Unread())
	}
	header := m.layout.RenderHeader(title, status)
	statusBar := m.layout.RenderToastBar(m.keyHints(), m.toast.View())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewBoard:
		if m.panelOpen {
			return m.layout.SideBySide(m.board.View(), m.panel.View())
		}
		return m.board.View()
	case ViewDetail:
		return m.detail.View()
	case ViewForm:
		return m.form.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.pendingDelete != nil {
		return fmt.Sprintf("Delete %q? y confirm | any other key cancels", m.pendingDelete.Title)
	}
	if m.confirmPurge {
		return "Delete all completed tasks? y confirm | any other key cancels"
	}

	switch m.currentView {
	case ViewLogin:
		return "enter next | esc quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc close"
	case ViewDetail:
		return "esc back | e edit | x toggle done | d delete | j/k scroll"
	case ViewForm:
		return "enter next | shift+tab back | esc cancel"
	default:
		if m.panelOpen {
			return "enter mark read | a mark all read | c clear all | esc close"
		}
		if m.board.Searching() {
			return "type to search | enter keep | esc clear"
		}
		return "q quit | ? help | n new | / search | 1-4 views | 5-7 projects | p priority | tab sort | v layout | b notifications"
	}
}

// today returns the local calendar date.
func (m Model) today() model.Date {
	return model.DateOf(m.now())
}

// syncViews repaints the board and the notification panel from state.
func (m *Model) syncViews() {
	today := m.today()
	m.board.SetBoard(dashboard.BuildBoard(m.state, today), m.state.Filters, today)
	m.panel.SetNotifications(m.state.Notifications.List())
}

// themeToggled flips the palette and persists the choice.
func (m *Model) themeToggled() tea.Cmd {
	mode := theme.Toggle()
	m.cfg.Display.Theme = string(mode)
	if t, ok := m.detail.Task(); ok {
		m.detail.SetTask(t, m.today())
	}
	return m.saveConfig()
}
