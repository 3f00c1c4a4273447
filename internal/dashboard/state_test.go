package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tasko/internal/model"
)

func TestApplyFilteredDiscardsStaleResponses(t *testing.T) {
	s := New(DefaultFilters())

	first := s.NextFilterSeq()
	second := s.NextFilterSeq()

	assert.True(t, s.ApplyFiltered(second, []model.Task{{ID: 2}}))
	assert.False(t, s.ApplyFiltered(first, []model.Task{{ID: 1}}))
	assert.Equal(t, []int64{2}, ids(s.Filtered))
	assert.True(t, s.LatestFilterSeq(second))
	assert.False(t, s.LatestFilterSeq(first))
	assert.True(t, s.Loaded)
}

func TestSavedCreateNotice(t *testing.T) {
	s := New(DefaultFilters())

	n := s.Saved(model.Task{Title: "Buy milk", Priority: model.PriorityLow}, false, t0)

	head := s.Notifications.List()[0]
	assert.Equal(t, n.ID, head.ID)
	assert.Equal(t, model.NotifyTaskCreated, head.Type)
	assert.False(t, head.Read)
	assert.Equal(t, "Task Created", head.Title)
	assert.Equal(t, `You created task "Buy milk" in No project`, head.Desc)

	s.Saved(model.Task{Title: "Run", Project: model.ProjectHealth}, false, t0)
	assert.Equal(t, `You created task "Run" in Health`, s.Notifications.List()[0].Desc)
}

func TestSavedUpdateNotice(t *testing.T) {
	s := New(DefaultFilters())
	n := s.Saved(model.Task{ID: 3, Title: "Report"}, true, t0)
	assert.Equal(t, model.NotifyTaskUpdated, n.Type)
	assert.Equal(t, `You updated task "Report"`, n.Desc)
}

func TestDeletedThenMarkAllRead(t *testing.T) {
	s := New(DefaultFilters())
	task := model.Task{ID: 1, Title: "Old"}
	s.ApplyAll([]model.Task{task, {ID: 2, Title: "Keep"}})
	seq := s.NextFilterSeq()
	s.ApplyFiltered(seq, []model.Task{task})
	s.Notifications.Replace([]model.Notification{{ID: "9", Title: "server"}})

	n, ok := s.Deleted(task, true, t0)
	require.True(t, ok)
	assert.Equal(t, model.NotifyTaskDeleted, n.Type)
	assert.Equal(t, `You deleted task "Old"`, n.Desc)
	assert.Equal(t, []int64{2}, ids(s.All))
	assert.Empty(t, s.Filtered)

	s.Notifications.MarkAllRead()
	for _, n := range s.Notifications.List() {
		assert.True(t, n.Read)
	}
}

func TestDeletedUnknownRaisesNothing(t *testing.T) {
	s := New(DefaultFilters())
	_, ok := s.Deleted(model.Task{ID: 5}, false, t0)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Notifications.Len())
}

func TestToggleTwiceRestoresStateWithTwoNotices(t *testing.T) {
	s := New(DefaultFilters())
	orig := model.Task{ID: 1, Title: "Walk", Done: false}
	s.ApplyAll([]model.Task{orig})
	s.ApplyFiltered(s.NextFilterSeq(), []model.Task{orig})

	cur, _ := s.Task(1)
	flipped := cur
	flipped.Done = !cur.Done
	s.Toggled(cur.Done, flipped, t0)

	cur, _ = s.Task(1)
	assert.True(t, cur.Done)
	assert.True(t, s.Filtered[0].Done)

	flipped = cur
	flipped.Done = !cur.Done
	s.Toggled(cur.Done, flipped, t0)

	cur, _ = s.Task(1)
	assert.Equal(t, orig.Done, cur.Done)

	list := s.Notifications.List()
	require.Len(t, list, 2)
	assert.Equal(t, model.NotifyTaskCompleted, list[1].Type)
	assert.Equal(t, model.NotifyTaskUncompleted, list[0].Type)
	assert.Equal(t, `You reopened task "Walk"`, list[0].Desc)
}

func TestFlipDoneBeforeReplies(t *testing.T) {
	s := New(DefaultFilters())
	orig := model.Task{ID: 1, Title: "Walk"}
	s.ApplyAll([]model.Task{orig})
	s.ApplyFiltered(s.NextFilterSeq(), []model.Task{orig})

	first, ok := s.FlipDone(1)
	require.True(t, ok)
	second, ok := s.FlipDone(1)
	require.True(t, ok)
	assert.False(t, first.Done)
	assert.True(t, second.Done, "the second flip reads the first")

	s.RevertDone(1, second.Done)
	assert.True(t, s.All[0].Done)
	assert.True(t, s.Filtered[0].Done)

	_, ok = s.FlipDone(42)
	assert.False(t, ok)
}

func TestTaskLookup(t *testing.T) {
	s := New(DefaultFilters())
	s.ApplyAll([]model.Task{{ID: 1, Title: "a"}})
	s.ApplyFiltered(s.NextFilterSeq(), []model.Task{{ID: 2, Title: "b"}})

	got, ok := s.Task(1)
	require.True(t, ok)
	assert.Equal(t, "a", got.Title)
	_, ok = s.Task(2)
	assert.True(t, ok)
	_, ok = s.Task(3)
	assert.False(t, ok)
}

func TestResetKeepsLayoutPreferences(t *testing.T) {
	f := DefaultFilters()
	f.Sort = SortTitle
	f.ListMode = true
	f.Search = "x"
	s := New(f)
	s.ApplyAll([]model.Task{{ID: 1}})
	s.Notifications.Add(NewLocal(model.NotifyTaskCreated, "a", "a", t0))

	s.Reset()
	assert.Empty(t, s.All)
	assert.Equal(t, 0, s.Notifications.Len())
	assert.Equal(t, SortTitle, s.Filters.Sort)
	assert.True(t, s.Filters.ListMode)
	assert.Empty(t, s.Filters.Search)
}
