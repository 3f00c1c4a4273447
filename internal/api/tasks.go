package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/tasko/internal/model"
)

const (
	tasksPath = "/tasko/api/tasks/"
	statsPath = "/tasko/api/stats/"
)

// TaskQuery is the server-side filter for the task list. Zero fields are
// omitted from the query string.
type TaskQuery struct {
	Done     *bool
	Priority model.Priority
	Project  model.Project
	Search   string
}

// Values encodes the query in the server's parameter names.
func (q TaskQuery) Values() url.Values {
	v := url.Values{}
	if q.Done != nil {
		v.Set("done", strconv.FormatBool(*q.Done))
	}
	if q.Priority != "" {
		v.Set("priority", string(q.Priority))
	}
	if q.Project != model.ProjectNone {
		v.Set("project", string(q.Project))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// ErrMissingID is returned when an update or delete is attempted on a task
// the server has not assigned an id to.
var ErrMissingID = errors.New("task has no id")

// ListTasks returns the tasks matching q. An empty query lists everything.
func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]model.Task, error) {
	path := tasksPath
	if enc := q.Values().Encode(); enc != "" {
		path += "?" + enc
	}

	var tasks []model.Task
	if err := c.Get(ctx, path, &tasks); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// CreateTask posts t without its id and returns the server copy.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	t.ID = 0

	var created model.Task
	if err := c.Post(ctx, tasksPath, t, &created); err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return created, nil
}

// UpdateTask replaces the task with id t.ID and returns the server copy.
func (c *Client) UpdateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if t.ID == 0 {
		return model.Task{}, fmt.Errorf("updating task: %w", ErrMissingID)
	}

	var updated model.Task
	if err := c.Put(ctx, taskPath(t.ID), t, &updated); err != nil {
		return model.Task{}, fmt.Errorf("updating task %d: %w", t.ID, err)
	}
	return updated, nil
}

// DeleteTask removes the task with the given id.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("deleting task: %w", ErrMissingID)
	}
	if err := c.Delete(ctx, taskPath(id), nil); err != nil {
		return fmt.Errorf("deleting task %d: %w", id, err)
	}
	return nil
}

// Stats returns the server-side task summary.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := c.Get(ctx, statsPath, &stats); err != nil {
		return model.Stats{}, fmt.Errorf("fetching stats: %w", err)
	}
	return stats, nil
}

func taskPath(id int64) string {
	return tasksPath + strconv.FormatInt(id, 10) + "/"
}
