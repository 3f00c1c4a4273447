package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/ui/taskform"
)

// allTasksMsg carries the full collection.
type allTasksMsg struct {
	scoped
	tasks []model.Task
	err   error
}

// filteredTasksMsg carries the filtered set for request seq.
type filteredTasksMsg struct {
	scoped
	seq   uint64
	tasks []model.Task
	err   error
}

// statsMsg carries the server summary.
type statsMsg struct {
	scoped
	stats model.Stats
	err   error
}

// taskSavedMsg is sent after a create or update.
type taskSavedMsg struct {
	scoped
	submitted model.Task
	saved     model.Task
	isEdit    bool
	err       error
}

// taskDeletedMsg is sent after a delete. known records whether the task
// was in local state when the delete was issued.
type taskDeletedMsg struct {
	scoped
	task  model.Task
	known bool
	err   error
}

// taskToggledMsg is sent after a done flip was saved.
type taskToggledMsg struct {
	scoped
	id      int64
	wasDone bool
	saved   model.Task
	err     error
}

// searchTickMsg fires when the search box has been idle for the debounce
// interval.
type searchTickMsg struct {
	gen int
}

// dueTickMsg triggers a due-date scan.
type dueTickMsg struct {
	scoped
}

func (m *Model) fetchAll() tea.Cmd {
	c, gen := m.client, m.gen
	return func() tea.Msg {
		tasks, err := c.ListTasks(context.Background(), api.TaskQuery{})
		return allTasksMsg{scoped: scoped{gen}, tasks: tasks, err: err}
	}
}

func (m *Model) fetchFiltered(seq uint64) tea.Cmd {
	c, gen := m.client, m.gen
	q := m.state.Filters.Query()
	return func() tea.Msg {
		tasks, err := c.ListTasks(context.Background(), q)
		return filteredTasksMsg{scoped: scoped{gen}, seq: seq, tasks: tasks, err: err}
	}
}

func (m *Model) fetchStats() tea.Cmd {
	c, gen := m.client, m.gen
	return func() tea.Msg {
		stats, err := c.Stats(context.Background())
		return statsMsg{scoped: scoped{gen}, stats: stats, err: err}
	}
}

// refilter issues a filtered fetch for the current filters. Any response
// to an earlier filtered fetch is discarded when it arrives.
func (m *Model) refilter() tea.Cmd {
	return m.fetchFiltered(m.state.NextFilterSeq())
}

// reconcile re-fetches everything a mutation may have changed.
func (m *Model) reconcile() tea.Cmd {
	return tea.Batch(m.fetchAll(), m.refilter(), m.fetchStats())
}

func (m Model) handleAllTasks(msg allTasksMsg) (tea.Model, tea.Cmd) {
	boot := m.bootStep()
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("fetching tasks failed", "error", msg.err)
		return m, tea.Batch(boot, m.toast.Present("Failed to load tasks", model.NotifyError))
	}

	m.state.ApplyAll(msg.tasks)
	due := m.scanDue()
	m.syncViews()
	return m, tea.Batch(boot, due)
}

func (m Model) handleFilteredTasks(msg filteredTasksMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && !m.state.LatestFilterSeq(msg.seq) {
		m.log.Debugw("ignoring stale filtered failure", "seq", msg.seq, "error", msg.err)
		return m, nil
	}
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("fetching filtered tasks failed", "error", msg.err, "seq", msg.seq)
		return m, m.toast.Present("Failed to load tasks", model.NotifyError)
	}

	if !m.state.ApplyFiltered(msg.seq, msg.tasks) {
		m.log.Debugw("discarding stale filtered response", "seq", msg.seq)
		return m, nil
	}
	m.syncViews()
	return m, nil
}

func (m Model) handleStats(msg statsMsg) (tea.Model, tea.Cmd) {
	boot := m.bootStep()
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Warnw("fetching stats failed", "error", msg.err)
		return m, boot
	}

	m.state.ApplyStats(msg.stats)
	m.syncViews()
	return m, boot
}

// openCreate shows a blank task form.
func (m *Model) openCreate() tea.Cmd {
	m.switchTo(ViewForm)
	return m.form.StartCreate()
}

// openEdit shows the form for task id. Unknown ids are ignored.
func (m *Model) openEdit(id int64) tea.Cmd {
	t, ok := m.state.Task(id)
	if !ok {
		return nil
	}
	m.switchTo(ViewForm)
	return m.form.StartEdit(t)
}

func (m Model) handleSubmit(msg taskform.SubmitMsg) (tea.Model, tea.Cmd) {
	m.form.Close()
	m.currentView = m.previousView
	if msg.IsEdit && msg.Task.ID == 0 {
		return m, nil
	}
	return m, m.saveTask(msg.Task, msg.IsEdit)
}

// saveTask creates or updates t on the server.
func (m *Model) saveTask(t model.Task, isEdit bool) tea.Cmd {
	c, gen := m.client, m.gen
	return func() tea.Msg {
		ctx := context.Background()
		var (
			saved model.Task
			err   error
		)
		if isEdit {
			saved, err = c.UpdateTask(ctx, t)
		} else {
			saved, err = c.CreateTask(ctx, t)
		}
		return taskSavedMsg{scoped: scoped{gen}, submitted: t, saved: saved, isEdit: isEdit, err: err}
	}
}

func (m Model) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		return m, m.saveFailed(msg)
	}

	m.log.Infow("task saved", "id", msg.saved.ID, "edit", msg.isEdit)
	n := m.state.Saved(msg.submitted, msg.isEdit, m.now())
	m.syncViews()

	confirm := "Task added successfully"
	if msg.isEdit {
		confirm = "Task updated successfully"
	}
	if t, ok := m.detail.Task(); ok && t.ID == msg.saved.ID {
		m.detail.SetTask(msg.saved, m.today())
	}
	return m, tea.Batch(
		m.toast.Present(n.Desc, n.Type),
		m.toast.Present(confirm, n.Type),
		m.reconcile(),
	)
}

// saveFailed logs server field errors and reopens the form with what the
// user typed.
func (m *Model) saveFailed(msg taskSavedMsg) tea.Cmd {
	text := "Failed to save task"
	if fe, ok := api.AsFieldErrors(msg.err); ok {
		m.log.Errorw("saving task rejected", "fields", fe.Fields, "message", fe.Message)
		if s := fe.Summary(); s != "" {
			text += ": " + s
		}
	} else {
		m.log.Errorw("saving task failed", "error", msg.err)
	}

	m.switchTo(ViewForm)
	var reopen tea.Cmd
	if msg.isEdit {
		reopen = m.form.StartEdit(msg.submitted)
	} else {
		reopen = m.form.StartCreateFrom(msg.submitted)
	}
	return tea.Batch(reopen, m.toast.Present(text, model.NotifyError))
}

// askDelete asks for confirmation before deleting task id.
func (m *Model) askDelete(id int64) {
	t, ok := m.state.Task(id)
	if !ok {
		return
	}
	m.pendingDelete = &t
}

// deleteTask removes task id. The local lookup happens before the request
// so the notice can name the task.
func (m *Model) deleteTask(id int64) tea.Cmd {
	t, known := m.state.Task(id)
	if !known {
		t = model.Task{ID: id}
	}
	c, gen := m.client, m.gen
	return func() tea.Msg {
		err := c.DeleteTask(context.Background(), id)
		return taskDeletedMsg{scoped: scoped{gen}, task: t, known: known, err: err}
	}
}

func (m Model) handleTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("deleting task failed", "id", msg.task.ID, "error", msg.err)
		return m, m.toast.Present("Failed to delete task", model.NotifyError)
	}

	m.log.Infow("task deleted", "id", msg.task.ID)
	n, raised := m.state.Deleted(msg.task, msg.known, m.now())
	if t, ok := m.detail.Task(); ok && t.ID == msg.task.ID {
		m.detail.Clear()
		m.currentView = ViewBoard
	}
	m.syncViews()

	cmds := []tea.Cmd{m.reconcile()}
	if raised {
		cmds = append(cmds, m.toast.Present(n.Desc, n.Type))
	}
	return m, tea.Batch(cmds...)
}

// toggleDone flips the done flag of task id locally and saves it. A second
// toggle before the reply reads the flipped flag.
func (m *Model) toggleDone(id int64) tea.Cmd {
	before, ok := m.state.FlipDone(id)
	if !ok {
		return nil
	}
	t := before
	t.Done = !before.Done
	if shown, ok := m.detail.Task(); ok && shown.ID == id {
		m.detail.SetTask(t, m.today())
	}
	m.syncViews()

	c, gen := m.client, m.gen
	return func() tea.Msg {
		saved, err := c.UpdateTask(context.Background(), t)
		return taskToggledMsg{scoped: scoped{gen}, id: id, wasDone: before.Done, saved: saved, err: err}
	}
}

func (m Model) handleTaskToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("toggling task failed", "id", msg.id, "error", msg.err)
		m.state.RevertDone(msg.id, msg.wasDone)
		if t, ok := m.state.Task(msg.id); ok {
			if shown, ok := m.detail.Task(); ok && shown.ID == msg.id {
				m.detail.SetTask(t, m.today())
			}
		}
		m.syncViews()
		return m, m.toast.Present("Failed to save task", model.NotifyError)
	}

	n := m.state.Toggled(msg.wasDone, msg.saved, m.now())
	if t, ok := m.detail.Task(); ok && t.ID == msg.saved.ID {
		m.detail.SetTask(msg.saved, m.today())
	}
	m.syncViews()
	return m, tea.Batch(m.toast.Present(n.Desc, n.Type), m.reconcile())
}

// handleSearchChanged restarts the debounce timer for q.
func (m Model) handleSearchChanged(q string) (tea.Model, tea.Cmd) {
	m.searchGen++
	m.pendingSearch = q

	d := time.Duration(m.cfg.Display.DebounceMillis) * time.Millisecond
	if d <= 0 {
		return m.applySearch()
	}
	gen := m.searchGen
	return m, m.tick(d, func(time.Time) tea.Msg { return searchTickMsg{gen: gen} })
}

func (m Model) handleSearchTick(msg searchTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.searchGen {
		return m, nil
	}
	return m.applySearch()
}

func (m Model) applySearch() (tea.Model, tea.Cmd) {
	if m.pendingSearch == m.state.Filters.Search {
		return m, nil
	}
	m.state.Filters.Search = m.pendingSearch
	return m, m.refilter()
}

// scheduleDueScan arms the next due-date scan.
func (m *Model) scheduleDueScan() tea.Cmd {
	gen := m.gen
	d := time.Duration(m.cfg.Display.DueScanSec) * time.Second
	return m.tick(d, func(time.Time) tea.Msg { return dueTickMsg{scoped{gen}} })
}

func (m Model) handleDueTick() (tea.Model, tea.Cmd) {
	due := m.scanDue()
	m.syncViews()
	return m, tea.Batch(due, m.scheduleDueScan())
}

// scanDue raises due-date notices and toasts the newest one.
func (m *Model) scanDue() tea.Cmd {
	raised := m.state.ScanDue(m.today(), m.now())
	if len(raised) == 0 {
		return nil
	}
	m.log.Infow("due-date notices raised", "count", len(raised))
	last := raised[len(raised)-1]
	return m.toast.Present(last.Desc, last.Type)
}
