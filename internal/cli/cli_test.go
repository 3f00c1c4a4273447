package cli

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/credential"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/tests/testutil"
)

type memStore struct {
	sessions map[string][]*http.Cookie
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string][]*http.Cookie{}}
}

func (s *memStore) Load(baseURL string) ([]*http.Cookie, error) {
	c, ok := s.sessions[baseURL]
	if !ok {
		return nil, credential.ErrNoSession
	}
	return c, nil
}

func (s *memStore) Save(baseURL string, cookies []*http.Cookie) error {
	s.sessions[baseURL] = cookies
	return nil
}

func (s *memStore) Clear(baseURL string) error {
	delete(s.sessions, baseURL)
	return nil
}

// scriptedPrompter answers prompts from canned values. OTP codes and
// confirmations are consumed in order.
type scriptedPrompter struct {
	email, password string
	signup          api.SignupRequest
	newPassword     string
	codes           []string
	confirms        []bool
}

func (p *scriptedPrompter) Login(email, password *string) error {
	*email, *password = p.email, p.password
	return nil
}

func (p *scriptedPrompter) Signup(req *api.SignupRequest, confirm *string) error {
	*req = p.signup
	*confirm = p.signup.Password
	return nil
}

func (p *scriptedPrompter) Email(_ string, email *string) error {
	*email = p.email
	return nil
}

func (p *scriptedPrompter) OTP(_ string, code *string) error {
	*code, p.codes = p.codes[0], p.codes[1:]
	return nil
}

func (p *scriptedPrompter) NewPassword(password, confirm *string) error {
	*password, *confirm = p.newPassword, p.newPassword
	return nil
}

func (p *scriptedPrompter) Confirm(string) (bool, error) {
	ok := p.confirms[0]
	p.confirms = p.confirms[1:]
	return ok, nil
}

type cliEnv struct {
	api      *testutil.FakeAPI
	sessions *memStore
	prompt   *scriptedPrompter
	config   string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return &cliEnv{
		api:      testutil.NewFakeAPI(t),
		sessions: newMemStore(),
		prompt:   &scriptedPrompter{},
		config:   filepath.Join(home, "config.yaml"),
	}
}

func (e *cliEnv) signIn() {
	e.sessions.sessions[e.api.URL()] = e.api.SessionCookies()
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	a := &App{
		sessions: e.sessions,
		prompt:   e.prompt,
		now:      func() time.Time { return time.Date(2025, 3, 5, 10, 0, 0, 0, time.Local) },
	}
	cmd := newRootCmd(a)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config, "--server", e.api.URL()}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	e := newCLIEnv(t)
	out, err := e.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "tasko dev\n", out)
}

func TestLoginWithPasswordFromStdin(t *testing.T) {
	e := newCLIEnv(t)

	out, err := e.run(t, "secret123\n", "login", "--email", "ada@example.com", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada Lovelace")

	stored, err := e.sessions.Load(e.api.URL())
	require.NoError(t, err)
	var names []string
	for _, c := range stored {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "sessionid")
}

func TestLoginPrompted(t *testing.T) {
	e := newCLIEnv(t)
	e.prompt.email, e.prompt.password = "ada@example.com", "secret123"

	_, err := e.run(t, "", "login")
	require.NoError(t, err)
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/user/login/"), 1)
}

func TestLoginRejected(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "nope-nope\n", "login", "--email", "ada@example.com", "--password-stdin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.Empty(t, e.sessions.sessions)
}

func TestLoginValidatesBeforeSending(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "abc\n", "login", "--email", "ada@example.com", "--password-stdin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 6 characters")
	assert.Empty(t, e.api.Calls("POST", "/useraccounts/api/user/login/"))
}

func TestWhoami(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")

	e.signIn()
	out, err := e.run(t, "", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace <ada@example.com>\n", out)
}

func TestLogoutForgetsSession(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()

	out, err := e.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/user/logout/"), 1)
	assert.Empty(t, e.sessions.sessions)
}

func TestTasksPrintsBoard(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()
	e.api.AddTask(model.Task{Title: "Write report", Priority: model.PriorityHigh, Project: model.ProjectWork, Date: "2025-03-01"})
	e.api.AddTask(model.Task{Title: "Buy milk", Priority: model.PriorityLow, Important: true})
	e.api.AddTask(model.Task{Title: "Run", Done: true})

	out, err := e.run(t, "", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "All Tasks · 3 tasks")
	assert.Contains(t, out, "To Do (2)")
	assert.Contains(t, out, "Completed (1)")
	assert.Contains(t, out, "Overdue · 1 Mar 2025")
	assert.Contains(t, out, "★ Buy milk")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "This week: 1 of 3 done (33.3%)")

	out, err = e.run(t, "", "tasks", "--view", "pending", "--project", "work")
	require.NoError(t, err)
	assert.Contains(t, out, "Work Tasks · 1 tasks")
	assert.NotContains(t, out, "Completed (")
	assert.NotContains(t, out, "Buy milk")

	calls := e.api.Calls("GET", "/tasko/api/tasks/")
	assert.Equal(t, "done=false&project=work", calls[len(calls)-1].Query)
}

func TestTasksRejectsUnknownFilters(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()

	for _, args := range [][]string{
		{"tasks", "--view", "someday"},
		{"tasks", "--project", "garden"},
		{"tasks", "--priority", "urgent"},
		{"tasks", "--sort", "random"},
	} {
		_, err := e.run(t, "", args...)
		assert.Error(t, err, args)
	}
	assert.Empty(t, e.api.Requests)
}

func TestTasksRequiresSession(t *testing.T) {
	e := newCLIEnv(t)

	_, err := e.run(t, "", "tasks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestSignupRetriesCode(t *testing.T) {
	e := newCLIEnv(t)
	e.prompt.signup = api.SignupRequest{
		Email:     "grace@example.com",
		FirstName: "Grace",
		LastName:  "Hopper",
		Password:  "Cobol1959!",
	}
	e.prompt.codes = []string{"000000", "123 456"}
	e.prompt.confirms = []bool{true}

	out, err := e.run(t, "", "signup")
	require.NoError(t, err)
	assert.Contains(t, out, "A new code is on its way.")
	assert.Contains(t, out, "Account created")

	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/send-otp/"), 1)
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/verify-otp/"), 2)
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/resend-otp/"), 1)
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/complete-signup/"), 1)
}

func TestSignupGivesUpAfterRepeatedBadCodes(t *testing.T) {
	e := newCLIEnv(t)
	e.prompt.signup = api.SignupRequest{Email: "grace@example.com", FirstName: "Grace", LastName: "Hopper", Password: "Cobol1959!"}
	e.prompt.codes = []string{"000000", "111111", "222222"}
	e.prompt.confirms = []bool{false, false}

	_, err := e.run(t, "", "signup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification failed")
	assert.Empty(t, e.api.Calls("POST", "/useraccounts/api/auth/complete-signup/"))
}

func TestResetPassword(t *testing.T) {
	e := newCLIEnv(t)
	e.prompt.codes = []string{"123456"}
	e.prompt.newPassword = "N3w-password"

	out, err := e.run(t, "", "reset-password", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Password reset")

	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/forgot-password/send-otp/"), 1)
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/forgot-password/verify-otp/"), 1)
	assert.Len(t, e.api.Calls("POST", "/useraccounts/api/auth/reset-password/"), 1)
}

func TestBulkUpdateListedTasks(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()
	e.api.AddTask(model.Task{Title: "a"})
	e.api.AddTask(model.Task{Title: "b"})

	out, err := e.run(t, "", "bulk", "done", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "2 tasks updated\n", out)

	calls := e.api.Calls("POST", "/tasko/api/tasks/bulk_update/")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"task_ids":[1,2],"action":"mark_done"}`, string(calls[0].Body))
	for _, task := range e.api.Tasks {
		assert.True(t, task.Done, task.Title)
	}
}

func TestBulkOperationConfirmation(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()
	e.api.AddTask(model.Task{Title: "a", Done: true})
	e.api.AddTask(model.Task{Title: "b"})

	e.prompt.confirms = []bool{false}
	_, err := e.run(t, "", "bulk", "clear-all")
	assert.ErrorIs(t, err, errAborted)
	assert.Empty(t, e.api.Calls("POST", "/tasko/api/bulk-operations/"))

	out, err := e.run(t, "", "bulk", "delete-completed", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "1 completed tasks deleted\n", out)
	assert.Len(t, e.api.Tasks, 1)
}

func TestBulkRejectsBadInput(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()

	for _, args := range [][]string{
		{"bulk", "archive", "1"},
		{"bulk", "done"},
		{"bulk", "star", "x"},
		{"bulk", "done-all", "3"},
	} {
		_, err := e.run(t, "", args...)
		assert.Error(t, err, args)
	}
	assert.Empty(t, e.api.Requests)
}

func TestStats(t *testing.T) {
	e := newCLIEnv(t)
	e.signIn()
	e.api.AddTask(model.Task{Title: "a", Done: true, Priority: model.PriorityHigh, Project: model.ProjectWork})
	e.api.AddTask(model.Task{Title: "b", Priority: model.PriorityLow, Date: "2000-01-01"})

	out, err := e.run(t, "", "stats", "--days", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Last 30 days: 1 of 2 done (50.0%)")
	assert.Contains(t, out, "Due soon 0 · Overdue 1")
	assert.Contains(t, out, "Priority  high 1 · medium 0 · low 1")
	assert.Contains(t, out, "Projects  Work 1")

	calls := e.api.Calls("GET", "/tasko/api/dashboard-stats/")
	require.Len(t, calls, 1)
	assert.Equal(t, "days=30", calls[0].Query)
}
