package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nhle/tasko/internal/model"
)

const (
	// SessionID is the session cookie value the fake server accepts.
	SessionID = "fake-session"
	// CSRFToken is the token the fake server issues and expects.
	CSRFToken = "fake-csrf"
)

// Request is one call recorded by FakeAPI.
type Request struct {
	Method string
	Path   string
	Query  string
	CSRF   string
	Body   []byte
}

// FakeAPI is an in-memory Tasko server for tests. All exported fields are
// guarded by the embedded mutex; use Lock/Unlock when mutating them while
// the server is running.
type FakeAPI struct {
	sync.Mutex

	Server *httptest.Server

	User          model.User
	Password      string
	Tasks         []model.Task
	Notifications []model.Notification

	// Fail maps "METHOD /path/" to a status the server answers instead.
	Fail map[string]int

	// OTP is the code accepted by the verify endpoints.
	OTP string

	Requests []Request

	nextTaskID int64
}

// NewFakeAPI starts a fake server and closes it when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		User: model.User{
			ID:        1,
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			FullName:  "Ada Lovelace",
			Initials:  "AL",
		},
		Password:   "secret123",
		OTP:        "123456",
		Fail:       map[string]int{},
		nextTaskID: 1,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(f.record)
	r.Use(f.failures)

	r.Route("/useraccounts/api", func(r chi.Router) {
		r.Get("/auth/csrf/", f.csrf)
		r.With(f.csrfRequired).Post("/user/login/", f.login)
		r.With(f.csrfRequired).Post("/auth/send-otp/", f.ok("OTP sent"))
		r.With(f.csrfRequired).Post("/auth/verify-otp/", f.verifyOTP)
		r.With(f.csrfRequired).Post("/auth/resend-otp/", f.ok("OTP resent"))
		r.With(f.csrfRequired).Post("/auth/complete-signup/", f.ok("Account created"))
		r.With(f.csrfRequired).Post("/auth/forgot-password/send-otp/", f.ok("OTP sent"))
		r.With(f.csrfRequired).Post("/auth/forgot-password/verify-otp/", f.verifyOTP)
		r.With(f.csrfRequired).Post("/auth/forgot-password/resend-otp/", f.ok("OTP resent"))
		r.With(f.csrfRequired).Post("/auth/reset-password/", f.ok("Password reset"))

		r.Group(func(r chi.Router) {
			r.Use(f.sessionRequired)
			r.Get("/user/me/", f.me)
			r.With(f.csrfRequired).Post("/user/logout/", f.logout)
		})
	})

	r.Route("/tasko/api", func(r chi.Router) {
		r.Use(f.sessionRequired)
		r.Use(f.csrfRequired)

		r.Get("/tasks/", f.listTasks)
		r.Post("/tasks/", f.createTask)
		r.Post("/tasks/bulk_update/", f.bulkUpdate)
		r.Put("/tasks/{id}/", f.updateTask)
		r.Delete("/tasks/{id}/", f.deleteTask)
		r.Get("/stats/", f.stats)
		r.Get("/dashboard-stats/", f.dashboardStats)
		r.Post("/bulk-operations/", f.bulkOperations)

		r.Get("/notifications/", f.listNotifications)
		r.Patch("/notifications/{id}/", f.patchNotification)
		r.Post("/notifications/mark_all_read/", f.markAllRead)
		r.Delete("/notifications/clear_all/", f.clearAll)
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the server's base URL.
func (f *FakeAPI) URL() string { return f.Server.URL }

// SessionCookies returns cookies for an already logged-in session.
func (f *FakeAPI) SessionCookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: "sessionid", Value: SessionID, Path: "/"},
		{Name: "csrftoken", Value: CSRFToken, Path: "/"},
	}
}

// AddTask seeds a task and returns it with its assigned id.
func (f *FakeAPI) AddTask(t model.Task) model.Task {
	f.Lock()
	defer f.Unlock()
	t.ID = f.nextTaskID
	f.nextTaskID++
	f.Tasks = append(f.Tasks, t)
	return t
}

// Calls returns the recorded requests matching method and path.
func (f *FakeAPI) Calls(method, path string) []Request {
	f.Lock()
	defer f.Unlock()
	var out []Request
	for _, r := range f.Requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// FailWith makes "METHOD path" answer with status until cleared.
func (f *FakeAPI) FailWith(method, path string, status int) {
	f.Lock()
	defer f.Unlock()
	f.Fail[method+" "+path] = status
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.Lock()
		f.Requests = append(f.Requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			CSRF:   r.Header.Get("X-CSRFToken"),
			Body:   body,
		})
		f.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) failures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.Lock()
		status, ok := f.Fail[r.Method+" "+r.URL.Path]
		f.Unlock()
		if ok {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) sessionRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("sessionid")
		if err != nil || c.Value != SessionID {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) csrfRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Header.Get("X-CSRFToken") != CSRFToken {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"detail": "CSRF Failed: CSRF token missing.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) csrf(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: CSRFToken, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]string{"csrfToken": CSRFToken})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.Lock()
	user, password := f.User, f.Password
	f.Unlock()

	if body.Email != user.Email || body.Password != password {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"errors":  map[string][]string{"non_field_errors": {"Invalid credentials"}},
		})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: SessionID, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged in successfully",
		"user":    user,
	})
}

func (f *FakeAPI) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out successfully"})
}

func (f *FakeAPI) me(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	user := f.User
	f.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true, "user": user})
}

func (f *FakeAPI) ok(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
	}
}

func (f *FakeAPI) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OTP string `json:"otp"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.Lock()
	want := f.OTP
	f.Unlock()

	if body.OTP != want {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "Invalid OTP"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "OTP verified"})
}

func (f *FakeAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := strings.ToLower(q.Get("search"))

	f.Lock()
	defer f.Unlock()

	out := []model.Task{}
	for _, t := range f.Tasks {
		if v := q.Get("done"); v != "" && t.Done != (v == "true") {
			continue
		}
		if v := q.Get("priority"); v != "" && string(t.Priority) != v {
			continue
		}
		if v := q.Get("project"); v != "" && string(t.Project) != v {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Desc), search) {
			continue
		}
		out = append(out, t)
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) createTask(w http.ResponseWriter, r *http.Request) {
	var t model.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {err.Error()}})
		return
	}
	if strings.TrimSpace(t.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
		return
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}

	f.Lock()
	t.ID = f.nextTaskID
	f.nextTaskID++
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	f.Tasks = append(f.Tasks, t)
	f.Unlock()

	writeJSON(w, http.StatusCreated, t)
}

func (f *FakeAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var t model.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {err.Error()}})
		return
	}

	f.Lock()
	defer f.Unlock()
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			t.ID = id
			t.CreatedAt = f.Tasks[i].CreatedAt
			t.UpdatedAt = time.Now().UTC()
			f.Tasks[i] = t
			writeJSON(w, http.StatusOK, t)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (f *FakeAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	f.Lock()
	defer f.Unlock()
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			f.Tasks = append(f.Tasks[:i], f.Tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (f *FakeAPI) stats(w http.ResponseWriter, r *http.Request) {
	today := model.Today()

	f.Lock()
	defer f.Unlock()

	s := model.Stats{ProjectStats: map[string]int{}}
	for _, t := range f.Tasks {
		s.TotalTasks++
		if t.Done {
			s.CompletedTasks++
		} else {
			s.PendingTasks++
		}
		if t.IsOverdue(today) {
			s.OverdueTasks++
		}
		if t.Important {
			s.ImportantTasks++
		}
		if t.Project != model.ProjectNone {
			s.ProjectStats[string(t.Project)]++
		}
	}
	if s.TotalTasks > 0 {
		s.CompletionRate = float64(s.CompletedTasks) / float64(s.TotalTasks) * 100
	}
	writeJSON(w, http.StatusOK, s)
}

func (f *FakeAPI) bulkUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TaskIDs []int64 `json:"task_ids"`
		Action  string  `json:"action"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if len(body.TaskIDs) == 0 || body.Action == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task_ids and action are required"})
		return
	}

	selected := make(map[int64]bool, len(body.TaskIDs))
	for _, id := range body.TaskIDs {
		selected[id] = true
	}

	f.Lock()
	defer f.Unlock()

	if body.Action == "delete" {
		kept := f.Tasks[:0]
		for _, t := range f.Tasks {
			if !selected[t.ID] {
				kept = append(kept, t)
			}
		}
		f.Tasks = kept
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%d tasks deleted", len(body.TaskIDs))})
		return
	}

	apply := map[string]func(*model.Task){
		"mark_done":        func(t *model.Task) { t.Done = true },
		"mark_undone":      func(t *model.Task) { t.Done = false },
		"mark_important":   func(t *model.Task) { t.Important = true },
		"mark_unimportant": func(t *model.Task) { t.Important = false },
	}[body.Action]
	if apply == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid action"})
		return
	}
	for i := range f.Tasks {
		if selected[f.Tasks[i].ID] {
			apply(&f.Tasks[i])
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%d tasks updated", len(body.TaskIDs))})
}

func (f *FakeAPI) bulkOperations(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Operation string `json:"operation"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.Lock()
	defer f.Unlock()

	switch body.Operation {
	case "delete_completed":
		kept := f.Tasks[:0]
		for _, t := range f.Tasks {
			if !t.Done {
				kept = append(kept, t)
			}
		}
		count := len(f.Tasks) - len(kept)
		f.Tasks = kept
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%d completed tasks deleted", count)})
	case "clear_all":
		count := len(f.Tasks)
		f.Tasks = nil
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%d tasks deleted", count)})
	case "mark_all_done":
		count := 0
		for i := range f.Tasks {
			if !f.Tasks[i].Done {
				f.Tasks[i].Done = true
				count++
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%d tasks marked as done", count)})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid operation"})
	}
}

// dashboardStats counts seeded tasks, which carry no creation time, as
// created inside the window.
func (f *FakeAPI) dashboardStats(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil {
		days = v
	}
	start := time.Now().UTC().AddDate(0, 0, -days)
	today := model.Today()

	f.Lock()
	defer f.Unlock()

	s := model.DashboardStats{
		PriorityStats: map[string]int{"high": 0, "medium": 0, "low": 0},
		ProjectStats:  map[string]int{},
	}
	for _, t := range f.Tasks {
		if t.CreatedAt.IsZero() || !t.CreatedAt.Before(start) {
			s.Weekly.Total++
			if t.Done {
				s.Weekly.Completed++
			}
		}
		if _, ok := s.PriorityStats[string(t.Priority)]; ok {
			s.PriorityStats[string(t.Priority)]++
		}
		if t.Project != model.ProjectNone {
			s.ProjectStats[string(t.Project)]++
		}
		if t.IsDueWithin(today, 3) {
			s.DueSoon++
		}
		if t.IsOverdue(today) {
			s.TotalOverdue++
		}
	}
	if s.Weekly.Total > 0 {
		s.Weekly.CompletionRate = math.Round(float64(s.Weekly.Completed)/float64(s.Weekly.Total)*1000) / 10
	}
	writeJSON(w, http.StatusOK, s)
}

func (f *FakeAPI) listNotifications(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	out := append([]model.Notification{}, f.Notifications...)
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) patchNotification(w http.ResponseWriter, r *http.Request) {
	id := model.NotificationID(chi.URLParam(r, "id"))

	var body struct {
		Read bool `json:"read"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.Lock()
	defer f.Unlock()
	for i := range f.Notifications {
		if f.Notifications[i].ID == id {
			f.Notifications[i].Read = body.Read
			writeJSON(w, http.StatusOK, f.Notifications[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (f *FakeAPI) markAllRead(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	count := 0
	for i := range f.Notifications {
		if !f.Notifications[i].Read {
			f.Notifications[i].Read = true
			count++
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (f *FakeAPI) clearAll(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()
	count := len(f.Notifications)
	f.Notifications = nil
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
