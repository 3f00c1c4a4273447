package dashboard

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/model"
)

// View is the coarse task-set selector in the sidebar.
type View string

const (
	ViewAll       View = "all"
	ViewPending   View = "pending"
	ViewCompleted View = "completed"
	ViewImportant View = "important"
)

// Views lists the sidebar views in display order.
var Views = []View{ViewAll, ViewPending, ViewCompleted, ViewImportant}

// Title returns the page heading for the view.
func (v View) Title() string {
	switch v {
	case ViewPending:
		return "Pending Tasks"
	case ViewCompleted:
		return "Completed Tasks"
	case ViewImportant:
		return "Important Tasks"
	case ViewAll:
		return "All Tasks"
	default:
		return "Tasks"
	}
}

// SortKey selects the client-side ordering of the filtered set.
type SortKey string

const (
	SortDate     SortKey = "date"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

// SortKeys lists the sort keys in cycling order.
var SortKeys = []SortKey{SortDate, SortPriority, SortTitle}

// ParseSortKey maps a config value to a SortKey, defaulting to date.
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if string(k) == s {
			return k
		}
	}
	return SortDate
}

// Next returns the sort key after k.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortDate
}

// Filters is the active filter, sort and layout selection.
type Filters struct {
	View View

	// Priority is empty for "all".
	Priority model.Priority

	// Project is ProjectNone when no project is selected.
	Project model.Project

	Search   string
	Sort     SortKey
	ListMode bool
}

// DefaultFilters returns the selection a fresh session starts with.
func DefaultFilters() Filters {
	return Filters{View: ViewAll, Sort: SortDate}
}

// Query builds the server-side filter. The important view adds no
// parameter of its own.
func (f Filters) Query() api.TaskQuery {
	q := api.TaskQuery{
		Priority: f.Priority,
		Project:  f.Project,
		Search:   f.Search,
	}
	switch f.View {
	case ViewPending:
		done := false
		q.Done = &done
	case ViewCompleted:
		done := true
		q.Done = &done
	}
	return q
}

// Title returns the page heading: the project when one is selected,
// otherwise the view.
func (f Filters) Title() string {
	if f.Project != model.ProjectNone {
		return f.Project.Label() + " Tasks"
	}
	return f.View.Title()
}

// SelectView switches view and drops any project selection.
func (f *Filters) SelectView(v View) {
	f.View = v
	f.Project = model.ProjectNone
}

// SelectProject narrows to p. It reports false when p is already selected,
// in which case nothing needs refetching.
func (f *Filters) SelectProject(p model.Project) bool {
	if f.Project == p {
		return false
	}
	f.Project = p
	return true
}

// Sort returns a new slice with tasks ordered by key. Every ordering is
// stable: tasks with equal keys keep their input order.
func Sort(tasks []model.Task, key SortKey) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)

	switch key {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Weight() > out[j].Priority.Weight()
		})
	case SortTitle:
		coll := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Date, out[j].Date
			switch {
			case a.IsZero():
				return false
			case b.IsZero():
				return true
			default:
				return a < b
			}
		})
	}
	return out
}
