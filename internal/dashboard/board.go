package dashboard

import (
	"math"

	"github.com/nhle/tasko/internal/model"
)

// Counters are derived from the full collection, never the filtered set.
type Counters struct {
	Total     int
	Done      int
	Pending   int
	Important int
	Overdue   int
	Percent   int
	Projects  map[model.Project]int
}

// ComputeCounters tallies all against today.
func ComputeCounters(all []model.Task, today model.Date) Counters {
	c := Counters{Projects: make(map[model.Project]int, len(model.Projects))}
	for _, p := range model.Projects {
		c.Projects[p] = 0
	}

	for _, t := range all {
		c.Total++
		if t.Done {
			c.Done++
		} else {
			c.Pending++
		}
		if t.Important {
			c.Important++
		}
		if t.IsOverdue(today) {
			c.Overdue++
		}
		if _, ok := c.Projects[t.Project]; ok {
			c.Projects[t.Project]++
		}
	}

	if c.Total > 0 {
		c.Percent = int(math.Round(float64(c.Done) / float64(c.Total) * 100))
	}
	return c
}

// Tiles are the four summary numbers in the header. They follow the
// counters; server stats fill them only until the full collection loads.
type Tiles struct {
	Total   int
	Done    int
	Pending int
	Overdue int
}

// Board is everything needed to paint the task area.
type Board struct {
	Title string

	Todo []model.Task
	Done []model.Task

	// ShowDone is false in the pending view.
	ShowDone bool

	// Empty is set when the filtered set has no tasks.
	Empty bool

	// Loading is set until the first filtered set arrives.
	Loading bool

	ListMode bool
	Sort     SortKey

	Counters Counters
	Tiles    Tiles
}

// Cards returns the tasks that will actually be painted, in order.
func (b Board) Cards() []model.Task {
	if !b.ShowDone {
		return b.Todo
	}
	out := make([]model.Task, 0, len(b.Todo)+len(b.Done))
	out = append(out, b.Todo...)
	return append(out, b.Done...)
}

// BuildBoard derives the board from s. It does not mutate s.
func BuildBoard(s *State, today model.Date) Board {
	b := Board{
		Title:    s.Filters.Title(),
		ShowDone: s.Filters.View != ViewPending,
		Loading:  !s.Loaded,
		ListMode: s.Filters.ListMode,
		Sort:     s.Filters.Sort,
		Counters: ComputeCounters(s.All, today),
	}

	b.Tiles = Tiles{
		Total:   b.Counters.Total,
		Done:    b.Counters.Done,
		Pending: b.Counters.Pending,
		Overdue: b.Counters.Overdue,
	}
	if s.Stats != nil && !s.haveAll {
		b.Tiles = Tiles{
			Total:   s.Stats.TotalTasks,
			Done:    s.Stats.CompletedTasks,
			Pending: s.Stats.PendingTasks,
			Overdue: s.Stats.OverdueTasks,
		}
	}

	if len(s.Filtered) == 0 {
		b.Empty = true
		return b
	}

	for _, t := range Sort(s.Filtered, s.Filters.Sort) {
		if t.Done {
			b.Done = append(b.Done, t)
		} else {
			b.Todo = append(b.Todo, t)
		}
	}
	return b
}
