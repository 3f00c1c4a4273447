package app

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/ui/login"
	"github.com/nhle/tasko/internal/ui/notifpanel"
	"github.com/nhle/tasko/internal/ui/taskform"
	"github.com/nhle/tasko/internal/ui/tasklist"
	"github.com/nhle/tasko/tests/testutil"
)

var fixedNow = time.Date(2025, 3, 5, 10, 0, 0, 0, time.Local)

type memSessions struct {
	saved   int
	cleared int
}

func (s *memSessions) Save(string, []*http.Cookie) error { s.saved++; return nil }
func (s *memSessions) Clear(string) error                { s.cleared++; return nil }

func noTick(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }

type harness struct {
	api      *testutil.FakeAPI
	sessions *memSessions
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{api: testutil.NewFakeAPI(t), sessions: &memSessions{}}
}

// start builds the app, optionally with a live session, and runs Init
// until the message loop settles.
func (h *harness) start(t *testing.T, loggedIn bool) Model {
	t.Helper()

	c, err := api.NewClient(h.api.URL(), 5*time.Second, zap.NewNop().Sugar())
	require.NoError(t, err)
	if loggedIn {
		c.SetCookies(h.api.SessionCookies())
	}

	cfg := &model.AppConfig{
		Server: model.ServerConfig{BaseURL: h.api.URL(), TimeoutSec: 5},
		Display: model.DisplayConfig{
			Theme:          "auto",
			Sort:           "date",
			ToastMillis:    4000,
			DebounceMillis: 300,
			DueScanSec:     60,
		},
	}
	m := New(Options{
		Client:   c,
		Config:   cfg,
		Sessions: h.sessions,
		Now:      func() time.Time { return fixedNow },
		Tick:     noTick,
	})

	m = drive(t, m, tea.WindowSizeMsg{Width: 160, Height: 48})
	return drive(t, m, run(m.Init())...)
}

// drive feeds msgs through Update, executing returned commands
// synchronously. Only messages defined in this module are fed back;
// framework housekeeping such as cursor blinks is dropped.
func drive(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()

	var next tea.Model = m
	queue := msgs
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 1000, "message loop did not settle")
		msg := queue[0]
		queue = queue[1:]

		var cmd tea.Cmd
		next, cmd = next.Update(msg)
		queue = append(queue, run(cmd)...)
	}
	return next.(Model)
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if strings.HasPrefix(reflect.TypeOf(msg).PkgPath(), "github.com/nhle/tasko") {
		return []tea.Msg{msg}
	}
	return nil
}

func keyMsg(s string) tea.Msg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (h *harness) seed() {
	h.api.AddTask(model.Task{Title: "Write report", Priority: model.PriorityHigh, Project: model.ProjectWork, Date: "2025-04-01"})
	h.api.AddTask(model.Task{Title: "Buy milk", Priority: model.PriorityLow, Project: model.ProjectPersonal})
	h.api.AddTask(model.Task{Title: "Run", Priority: model.PriorityMedium, Project: model.ProjectHealth, Done: true})
}

func toastText(m Model) string {
	msg, _ := m.toast.Message()
	return msg
}

func TestBootstrapLoadsDashboard(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.api.Notifications = []model.Notification{{ID: "5", Title: "Welcome", Type: model.NotifyInfo}}

	m := h.start(t, true)

	assert.Equal(t, ViewBoard, m.CurrentView())
	s := m.State()
	assert.Equal(t, "Ada", s.User.FirstName)
	assert.Len(t, s.All, 3)
	assert.Len(t, s.Filtered, 3)
	assert.True(t, s.Loaded)
	require.NotNil(t, s.Stats)
	assert.Equal(t, 3, s.Stats.TotalTasks)
	assert.Equal(t, 1, s.Notifications.Unread())

	// the filtered fetch goes out once the bootstrap trio has answered
	reqs := h.api.Requests
	require.NotEmpty(t, reqs)
	last := reqs[len(reqs)-1]
	assert.Equal(t, "GET", last.Method)
	assert.Equal(t, "/tasko/api/tasks/", last.Path)
	assert.Len(t, h.api.Calls("GET", "/tasko/api/tasks/"), 2)

	view := m.View()
	assert.Contains(t, view, "Welcome back, Ada!")
	assert.Contains(t, view, "All Tasks")
}

func TestNoSessionShowsLogin(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, false)

	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.Empty(t, m.State().All)
	assert.Empty(t, h.api.Calls("GET", "/tasko/api/tasks/"))
	assert.Contains(t, m.View(), "Sign in to your account")
}

func TestLoginStartsSession(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, false)

	m = drive(t, m, login.SubmitMsg{Email: "ada@example.com", Password: "secret123"})

	assert.Equal(t, ViewBoard, m.CurrentView())
	assert.Equal(t, 1, h.sessions.saved)
	assert.Len(t, m.State().All, 3)
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, false)

	m = drive(t, m, login.SubmitMsg{Email: "ada@example.com", Password: "wrong-password"})

	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.Contains(t, m.View(), "Invalid credentials")
	assert.Zero(t, h.sessions.saved)
}

func TestCreateTaskNotifiesAndReconciles(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	before := len(h.api.Calls("GET", "/tasko/api/tasks/"))

	m = drive(t, m, keyMsg("n"))
	require.Equal(t, ViewForm, m.CurrentView())

	m = drive(t, m, taskform.SubmitMsg{Task: model.Task{
		Title:    "Pay rent",
		Priority: model.PriorityMedium,
		Project:  model.ProjectPersonal,
	}})

	assert.Equal(t, ViewBoard, m.CurrentView())
	require.Len(t, h.api.Calls("POST", "/tasko/api/tasks/"), 1)
	assert.Len(t, m.State().All, 4)

	head := m.State().Notifications.List()[0]
	assert.Equal(t, model.NotifyTaskCreated, head.Type)
	assert.Equal(t, `You created task "Pay rent" in Personal`, head.Desc)
	assert.True(t, head.Local)
	assert.Equal(t, "Task added successfully", toastText(m))

	// reconciliation: full + filtered tasks and stats
	assert.Equal(t, before+2, len(h.api.Calls("GET", "/tasko/api/tasks/")))
	assert.Len(t, h.api.Calls("GET", "/tasko/api/stats/"), 2)
}

func TestEditWithoutIDIsNeverSent(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, true)

	drive(t, m, taskform.SubmitMsg{Task: model.Task{Title: "ghost"}, IsEdit: true})

	assert.Empty(t, h.api.Calls("POST", "/tasko/api/tasks/"))
	assert.Empty(t, h.api.Calls("PUT", "/tasko/api/tasks/0/"))
}

func TestEditUnknownTaskIsNoop(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, true)

	cmd := m.openEdit(99)
	assert.Nil(t, cmd)
	assert.Equal(t, ViewBoard, m.CurrentView())
}

func TestSaveFailureKeepsState(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	h.api.FailWith("POST", "/tasko/api/tasks/", http.StatusInternalServerError)
	notices := m.State().Notifications.Len()

	m = drive(t, m, keyMsg("n"))
	m = drive(t, m, taskform.SubmitMsg{Task: model.Task{Title: "Pay rent", Priority: model.PriorityLow}})

	assert.Equal(t, "Failed to save task", toastText(m))
	assert.Equal(t, notices, m.State().Notifications.Len())
	assert.Len(t, m.State().All, 3)
	assert.Equal(t, ViewForm, m.CurrentView(), "form reopens with the user's input")
}

func TestFieldErrorsReachToast(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, true)

	m = drive(t, m, taskform.SubmitMsg{Task: model.Task{Title: " "}})

	assert.Contains(t, toastText(m), "Failed to save task")
	assert.Contains(t, toastText(m), "This field may not be blank.")
}

func TestToggleDoneRaisesSingleNotice(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	selected, ok := m.board.Selected()
	require.True(t, ok)
	require.False(t, selected.Done)
	notices := m.State().Notifications.Len()

	m = drive(t, m, keyMsg("x"))

	require.Len(t, h.api.Calls("PUT", "/tasko/api/tasks/1/"), 1)
	assert.Equal(t, notices+1, m.State().Notifications.Len())
	head := m.State().Notifications.List()[0]
	assert.Equal(t, model.NotifyTaskCompleted, head.Type)

	task, ok := m.State().Task(selected.ID)
	require.True(t, ok)
	assert.True(t, task.Done)
}

func TestRapidDoubleToggleRestoresState(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	selected, ok := m.board.Selected()
	require.True(t, ok)
	require.False(t, selected.Done)
	notices := m.State().Notifications.Len()

	// Both presses land before either save is answered.
	next, first := m.Update(keyMsg("x"))
	task, ok := next.(Model).State().Task(selected.ID)
	require.True(t, ok)
	assert.True(t, task.Done, "flipped before the reply")

	next, second := next.Update(keyMsg("x"))
	m = next.(Model)
	replies := append(run(first), run(second)...)
	m = drive(t, m, replies...)

	puts := h.api.Calls("PUT", "/tasko/api/tasks/1/")
	require.Len(t, puts, 2)
	assert.Contains(t, string(puts[0].Body), `"done":true`)
	assert.Contains(t, string(puts[1].Body), `"done":false`)

	task, ok = m.State().Task(selected.ID)
	require.True(t, ok)
	assert.False(t, task.Done)

	list := m.State().Notifications.List()
	require.Equal(t, notices+2, len(list))
	assert.Equal(t, model.NotifyTaskUncompleted, list[0].Type)
	assert.Equal(t, model.NotifyTaskCompleted, list[1].Type)
}

func TestToggleFailureRevertsFlag(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	h.api.FailWith("PUT", "/tasko/api/tasks/1/", http.StatusInternalServerError)
	notices := m.State().Notifications.Len()

	m = drive(t, m, keyMsg("x"))

	task, ok := m.State().Task(1)
	require.True(t, ok)
	assert.False(t, task.Done)
	assert.Equal(t, "Failed to save task", toastText(m))
	assert.Equal(t, notices, m.State().Notifications.Len())
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	selected, ok := m.board.Selected()
	require.True(t, ok)

	m = drive(t, m, keyMsg("d"))
	assert.Contains(t, m.View(), "y confirm")
	m = drive(t, m, keyMsg("n"))
	assert.Empty(t, h.api.Calls("DELETE", "/tasko/api/tasks/1/"))
	assert.Equal(t, ViewBoard, m.CurrentView(), "cancel does not open the form")

	m = drive(t, m, keyMsg("d"), keyMsg("y"))
	require.Len(t, h.api.Calls("DELETE", "/tasko/api/tasks/1/"), 1)

	_, ok = m.State().Task(selected.ID)
	assert.False(t, ok)
	head := m.State().Notifications.List()[0]
	assert.Equal(t, model.NotifyTaskDeleted, head.Type)
	assert.Equal(t, `You deleted task "Write report"`, head.Desc)
}

func TestDeleteFailureShowsToast(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	h.api.FailWith("DELETE", "/tasko/api/tasks/1/", http.StatusInternalServerError)

	m = drive(t, m, keyMsg("d"), keyMsg("y"))

	assert.Equal(t, "Failed to delete task", toastText(m))
	assert.Len(t, m.State().All, 3)
}

func TestUnauthorizedReturnsToLogin(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	h.api.FailWith("GET", "/tasko/api/tasks/", http.StatusUnauthorized)

	m = drive(t, m, keyMsg("r"))

	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.Empty(t, m.State().All)
	assert.Nil(t, m.State().Stats)
	assert.Equal(t, 1, h.sessions.cleared)
	assert.Contains(t, m.View(), "Your session has expired")
}

func TestResponsesFromEndedSessionAreDropped(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, true)

	stale := allTasksMsg{scoped: scoped{m.gen - 1}, tasks: []model.Task{{ID: 9, Title: "old"}}}
	m = drive(t, m, stale)
	_, ok := m.State().Task(9)
	assert.False(t, ok)
}

func TestStaleFilteredResponseIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	m = drive(t, m, keyMsg("2"))
	require.Len(t, m.State().Filtered, 2)

	stale := filteredTasksMsg{scoped: scoped{m.gen}, seq: 1, tasks: nil}
	m = drive(t, m, stale)
	assert.Len(t, m.State().Filtered, 2)
}

func TestStaleFilteredFailureIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	m = drive(t, m, keyMsg("2"))
	before := toastText(m)

	stale := filteredTasksMsg{scoped: scoped{m.gen}, seq: 1, err: errors.New("connection reset")}
	m = drive(t, m, stale)
	assert.Equal(t, before, toastText(m))
	assert.Len(t, m.State().Filtered, 2)
}

func TestViewFiltersQueryServer(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	m = drive(t, m, keyMsg("2"))
	calls := h.api.Calls("GET", "/tasko/api/tasks/")
	assert.Equal(t, "done=false", calls[len(calls)-1].Query)
	assert.Equal(t, dashboard.ViewPending, m.State().Filters.View)

	m = drive(t, m, keyMsg("4"))
	calls = h.api.Calls("GET", "/tasko/api/tasks/")
	assert.Equal(t, "", calls[len(calls)-1].Query, "important view adds no parameter")

	m = drive(t, m, keyMsg("5"))
	calls = h.api.Calls("GET", "/tasko/api/tasks/")
	assert.Equal(t, "project=work", calls[len(calls)-1].Query)
	assert.Equal(t, "Work Tasks", dashboard.BuildBoard(m.State(), m.today()).Title)

	n := len(h.api.Calls("GET", "/tasko/api/tasks/"))
	drive(t, m, keyMsg("5"))
	assert.Len(t, h.api.Calls("GET", "/tasko/api/tasks/"), n, "reselecting the project does not refetch")
}

func TestSortAndLayoutStayLocal(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	n := len(h.api.Requests)

	m = drive(t, m, keyMsg("tab"), keyMsg("v"))

	assert.Equal(t, dashboard.SortPriority, m.State().Filters.Sort)
	assert.True(t, m.State().Filters.ListMode)
	assert.Len(t, h.api.Requests, n)
}

func TestPriorityCycle(t *testing.T) {
	assert.Equal(t, model.PriorityLow, nextPriority(""))
	assert.Equal(t, model.PriorityMedium, nextPriority(model.PriorityLow))
	assert.Equal(t, model.PriorityHigh, nextPriority(model.PriorityMedium))
	assert.Equal(t, model.Priority(""), nextPriority(model.PriorityHigh))
}

func TestSearchIsDebounced(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	n := len(h.api.Calls("GET", "/tasko/api/tasks/"))

	m = drive(t, m, tasklist.SearchChangedMsg{Query: "m"})
	first := m.searchGen
	m = drive(t, m, tasklist.SearchChangedMsg{Query: "mi"})
	assert.Len(t, h.api.Calls("GET", "/tasko/api/tasks/"), n)

	m = drive(t, m, searchTickMsg{gen: first})
	assert.Len(t, h.api.Calls("GET", "/tasko/api/tasks/"), n, "superseded tick is ignored")

	m = drive(t, m, searchTickMsg{gen: m.searchGen})
	calls := h.api.Calls("GET", "/tasko/api/tasks/")
	require.Len(t, calls, n+1)
	assert.Equal(t, "search=mi", calls[n].Query)
	assert.Len(t, m.State().Filtered, 1)
}

func TestMarkReadServerAndLocal(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.api.Notifications = []model.Notification{{ID: "5", Title: "Welcome"}}
	m := h.start(t, true)

	m = drive(t, m, notifpanel.MarkReadMsg{ID: "5"})
	require.Len(t, h.api.Calls("PATCH", "/tasko/api/notifications/5/"), 1)
	n, ok := m.State().Notifications.Get("5")
	require.True(t, ok)
	assert.True(t, n.Read)
	assert.False(t, n.Pending)

	m = drive(t, m, taskform.SubmitMsg{Task: model.Task{Title: "Pay rent"}})
	local := m.State().Notifications.List()[0]
	require.True(t, local.Local)
	sent := len(h.api.Requests)
	m = drive(t, m, notifpanel.MarkReadMsg{ID: local.ID})
	assert.Len(t, h.api.Requests, sent, "local notices stay local")
	got, _ := m.State().Notifications.Get(local.ID)
	assert.True(t, got.Read)
}

func TestMarkReadFailureResyncs(t *testing.T) {
	h := newHarness(t)
	h.api.Notifications = []model.Notification{{ID: "5", Title: "Welcome"}}
	m := h.start(t, true)
	h.api.FailWith("PATCH", "/tasko/api/notifications/5/", http.StatusInternalServerError)

	m = drive(t, m, notifpanel.MarkReadMsg{ID: "5"})

	assert.Len(t, h.api.Calls("GET", "/tasko/api/notifications/"), 2)
	n, ok := m.State().Notifications.Get("5")
	require.True(t, ok)
	assert.False(t, n.Read, "server state wins after a failed flip")
	assert.False(t, n.Pending)
}

func TestMarkAllAndClear(t *testing.T) {
	h := newHarness(t)
	h.api.Notifications = []model.Notification{{ID: "5", Title: "a"}, {ID: "6", Title: "b"}}
	m := h.start(t, true)

	h.api.FailWith("POST", "/tasko/api/notifications/mark_all_read/", http.StatusInternalServerError)
	m = drive(t, m, notifpanel.MarkAllReadMsg{})
	assert.Equal(t, 2, m.State().Notifications.Unread(), "failure leaves state untouched")
	assert.Equal(t, "Failed to mark notifications as read", toastText(m))

	h.api.Lock()
	delete(h.api.Fail, "POST /tasko/api/notifications/mark_all_read/")
	h.api.Unlock()

	m = drive(t, m, notifpanel.MarkAllReadMsg{})
	assert.Zero(t, m.State().Notifications.Unread())
	assert.Equal(t, "All notifications marked as read", toastText(m))

	m = drive(t, m, notifpanel.ClearAllMsg{})
	assert.Zero(t, m.State().Notifications.Len())
	assert.Equal(t, "All notifications cleared", toastText(m))
}

func TestDueScanRaisesNotices(t *testing.T) {
	h := newHarness(t)
	h.api.AddTask(model.Task{Title: "Taxes", Date: "2025-03-01", Priority: model.PriorityHigh})
	h.api.AddTask(model.Task{Title: "Dentist", Date: "2025-03-06", Priority: model.PriorityLow})
	m := h.start(t, true)

	var types []model.NotificationType
	for _, n := range m.State().Notifications.List() {
		types = append(types, n.Type)
	}
	assert.ElementsMatch(t, []model.NotificationType{model.NotifyOverdue, model.NotifyDueSoon}, types)

	m = drive(t, m, dueTickMsg{scoped{m.gen}})
	assert.Equal(t, 2, m.State().Notifications.Len(), "each notice is raised once")
}

func TestCommandPalette(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	m = drive(t, m, keyMsg(":"))
	require.Equal(t, ViewCommand, m.CurrentView())
	for _, r := range "view completed" {
		m = drive(t, m, keyMsg(string(r)))
	}
	m = drive(t, m, keyMsg("enter"))

	assert.Equal(t, ViewBoard, m.CurrentView())
	assert.Equal(t, dashboard.ViewCompleted, m.State().Filters.View)
	assert.Len(t, m.State().Filtered, 1)
}

func palette(t *testing.T, m Model, input string) Model {
	t.Helper()
	m = drive(t, m, keyMsg(":"))
	for _, r := range input {
		m = drive(t, m, keyMsg(string(r)))
	}
	return drive(t, m, keyMsg("enter"))
}

func TestBulkUpdateAppliesToShownTasks(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	m = drive(t, m, keyMsg("2"))
	require.Len(t, m.State().Filtered, 2)

	m = palette(t, m, "star shown")

	calls := h.api.Calls("POST", "/tasko/api/tasks/bulk_update/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"task_ids":[1,2],"action":"mark_important"}`, string(calls[0].Body))
	assert.Equal(t, "2 tasks updated", toastText(m))

	for _, id := range []int64{1, 2} {
		task, ok := m.State().Task(id)
		require.True(t, ok)
		assert.True(t, task.Important, id)
	}
	other, _ := m.State().Task(3)
	assert.False(t, other.Important)
}

func TestBulkMarkAllDone(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	m = palette(t, m, "done all")

	require.Len(t, h.api.Calls("POST", "/tasko/api/bulk-operations/"), 1)
	assert.Equal(t, "2 tasks marked as done", toastText(m))
	for _, task := range m.State().All {
		assert.True(t, task.Done, task.Title)
	}
}

func TestDeleteCompletedAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)

	m = palette(t, m, "delete completed")
	assert.Contains(t, m.View(), "Delete all completed tasks?")
	m = drive(t, m, keyMsg("n"))
	assert.Empty(t, h.api.Calls("POST", "/tasko/api/bulk-operations/"))

	m = palette(t, m, "delete completed")
	m = drive(t, m, keyMsg("y"))

	calls := h.api.Calls("POST", "/tasko/api/bulk-operations/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"operation":"delete_completed"}`, string(calls[0].Body))
	assert.Len(t, m.State().All, 2)
	assert.Equal(t, "1 completed tasks deleted", toastText(m))
}

func TestBulkFailureShowsToast(t *testing.T) {
	h := newHarness(t)
	h.seed()
	m := h.start(t, true)
	h.api.FailWith("POST", "/tasko/api/bulk-operations/", http.StatusInternalServerError)

	m = palette(t, m, "done all")

	assert.Equal(t, "Failed to update tasks", toastText(m))
	for _, task := range m.State().All {
		if task.Title != "Run" {
			assert.False(t, task.Done, task.Title)
		}
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, true)

	m = drive(t, m, logoutResultMsg{})
	assert.Equal(t, ViewLogin, m.CurrentView())
	assert.Equal(t, 1, h.sessions.cleared)
}

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()

	unlock, err := Lock(dir)
	require.NoError(t, err)

	_, err = Lock(dir)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, unlock())
	unlock, err = Lock(dir)
	require.NoError(t, err)
	require.NoError(t, unlock())
}
