// Package dashboard holds the dashboard's application state and the pure
// transitions applied to it when server responses arrive.
package dashboard

import (
	"fmt"
	"time"

	"github.com/nhle/tasko/internal/model"
)

// State is everything the dashboard knows. It is owned by the root model
// and mutated only from its Update loop.
type State struct {
	User model.User

	// All is the complete collection; counters derive from it.
	All []model.Task

	// Filtered is the server-filtered display set.
	Filtered []model.Task

	// Stats is the last server summary, nil until fetched.
	Stats *model.Stats

	Filters       Filters
	Notifications Notifications

	// Loaded is set once the first filtered set arrives.
	Loaded bool

	filterSeq uint64
	haveAll   bool
	dueSeen   map[int64]map[model.NotificationType]bool
}

// New returns an empty state using the given initial filters.
func New(f Filters) *State {
	return &State{
		Filters: f,
		dueSeen: map[int64]map[model.NotificationType]bool{},
	}
}

// Reset drops all session data, keeping only the filter defaults'
// layout and sort preferences.
func (s *State) Reset() {
	f := DefaultFilters()
	f.Sort = s.Filters.Sort
	f.ListMode = s.Filters.ListMode
	*s = *New(f)
}

// NextFilterSeq tags a new filtered request. Only the response carrying
// the latest tag is applied.
func (s *State) NextFilterSeq() uint64 {
	s.filterSeq++
	return s.filterSeq
}

// ApplyAll replaces the full collection.
func (s *State) ApplyAll(tasks []model.Task) {
	s.All = tasks
	s.haveAll = true
}

// LatestFilterSeq reports whether seq tags the most recent filtered request.
func (s *State) LatestFilterSeq(seq uint64) bool {
	return seq == s.filterSeq
}

// ApplyFiltered installs a filtered response. Responses for any request
// other than the latest one issued are discarded; it reports whether the
// response was applied.
func (s *State) ApplyFiltered(seq uint64, tasks []model.Task) bool {
	if !s.LatestFilterSeq(seq) {
		return false
	}
	s.Filtered = tasks
	s.Loaded = true
	return true
}

// ApplyStats stores the server summary.
func (s *State) ApplyStats(stats model.Stats) {
	s.Stats = &stats
}

// Task finds a task by id in the full collection, then the filtered set.
func (s *State) Task(id int64) (model.Task, bool) {
	for _, t := range s.All {
		if t.ID == id {
			return t, true
		}
	}
	for _, t := range s.Filtered {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Saved records a successful create or update of submitted and returns the
// notice raised for it.
func (s *State) Saved(submitted model.Task, isEdit bool, now time.Time) model.Notification {
	if isEdit {
		return s.Notifications.Add(NewLocal(
			model.NotifyTaskUpdated,
			"Task Updated",
			fmt.Sprintf("You updated task \"%s\"", submitted.Title),
			now,
		))
	}
	return s.Notifications.Add(NewLocal(
		model.NotifyTaskCreated,
		"Task Created",
		fmt.Sprintf("You created task \"%s\" in %s", submitted.Title, submitted.Project.Label()),
		now,
	))
}

// Deleted removes the task from both collections. A notice is raised only
// when the task was known before the delete was issued.
func (s *State) Deleted(task model.Task, known bool, now time.Time) (model.Notification, bool) {
	s.All = without(s.All, task.ID)
	s.Filtered = without(s.Filtered, task.ID)
	delete(s.dueSeen, task.ID)

	if !known {
		return model.Notification{}, false
	}
	return s.Notifications.Add(NewLocal(
		model.NotifyTaskDeleted,
		"Task Deleted",
		fmt.Sprintf("You deleted task \"%s\"", task.Title),
		now,
	)), true
}

// Toggled applies the server copy of a task whose done flag was flipped
// from wasDone, patching both collections in place, and returns the
// completed or reopened notice.
func (s *State) Toggled(wasDone bool, saved model.Task, now time.Time) model.Notification {
	replace(s.All, saved)
	replace(s.Filtered, saved)

	if wasDone {
		return s.Notifications.Add(NewLocal(
			model.NotifyTaskUncompleted,
			"Task Reopened",
			fmt.Sprintf("You reopened task \"%s\"", saved.Title),
			now,
		))
	}
	return s.Notifications.Add(NewLocal(
		model.NotifyTaskCompleted,
		"Task Completed",
		fmt.Sprintf("You completed task \"%s\"", saved.Title),
		now,
	))
}

// FlipDone inverts the done flag of task id in both collections and
// returns the task as it was before.
func (s *State) FlipDone(id int64) (model.Task, bool) {
	before, ok := s.Task(id)
	if !ok {
		return model.Task{}, false
	}
	setDone(s.All, id, !before.Done)
	setDone(s.Filtered, id, !before.Done)
	return before, true
}

// RevertDone restores the done flag of task id after a failed save.
func (s *State) RevertDone(id int64, done bool) {
	setDone(s.All, id, done)
	setDone(s.Filtered, id, done)
}

func setDone(tasks []model.Task, id int64, done bool) {
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Done = done
		}
	}
}

func replace(tasks []model.Task, t model.Task) {
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			return
		}
	}
}

func without(tasks []model.Task, id int64) []model.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
