package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nhle/tasko/internal/model"
)

const (
	bulkUpdatePath     = tasksPath + "bulk_update/"
	bulkOperationsPath = "/tasko/api/bulk-operations/"
	dashboardStatsPath = "/tasko/api/dashboard-stats/"
)

// BulkAction is applied to an explicit set of tasks.
type BulkAction string

const (
	BulkMarkDone        BulkAction = "mark_done"
	BulkMarkUndone      BulkAction = "mark_undone"
	BulkMarkImportant   BulkAction = "mark_important"
	BulkMarkUnimportant BulkAction = "mark_unimportant"
	BulkDelete          BulkAction = "delete"
)

// BulkActions lists every action the server accepts.
var BulkActions = []BulkAction{BulkMarkDone, BulkMarkUndone, BulkMarkImportant, BulkMarkUnimportant, BulkDelete}

// Valid reports whether a is a known action.
func (a BulkAction) Valid() bool {
	for _, known := range BulkActions {
		if a == known {
			return true
		}
	}
	return false
}

// BulkOperation is applied to the whole collection.
type BulkOperation string

const (
	OpDeleteCompleted BulkOperation = "delete_completed"
	OpClearAll        BulkOperation = "clear_all"
	OpMarkAllDone     BulkOperation = "mark_all_done"
)

// BulkResult is the server's confirmation, e.g. "3 tasks updated".
type BulkResult struct {
	Message string `json:"message"`
}

// ErrNoTasks is returned when a bulk update names no tasks.
var ErrNoTasks = errors.New("no tasks selected")

// BulkUpdate applies action to the tasks with the given ids.
func (c *Client) BulkUpdate(ctx context.Context, ids []int64, action BulkAction) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, fmt.Errorf("bulk %s: %w", action, ErrNoTasks)
	}
	if !action.Valid() {
		return BulkResult{}, fmt.Errorf("unknown bulk action %q", action)
	}

	body := struct {
		TaskIDs []int64    `json:"task_ids"`
		Action  BulkAction `json:"action"`
	}{ids, action}

	var res BulkResult
	if err := c.Post(ctx, bulkUpdatePath, body, &res); err != nil {
		return BulkResult{}, fmt.Errorf("bulk %s: %w", action, err)
	}
	return res, nil
}

// RunBulkOperation applies op to every task of the signed-in user.
func (c *Client) RunBulkOperation(ctx context.Context, op BulkOperation) (BulkResult, error) {
	body := map[string]BulkOperation{"operation": op}

	var res BulkResult
	if err := c.Post(ctx, bulkOperationsPath, body, &res); err != nil {
		return BulkResult{}, fmt.Errorf("bulk %s: %w", op, err)
	}
	return res, nil
}

// DashboardStats returns the extended summary. days sets the progress
// window; zero keeps the server default of a week.
func (c *Client) DashboardStats(ctx context.Context, days int) (model.DashboardStats, error) {
	path := dashboardStatsPath
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}

	var stats model.DashboardStats
	if err := c.Get(ctx, path, &stats); err != nil {
		return model.DashboardStats{}, fmt.Errorf("fetching dashboard stats: %w", err)
	}
	return stats, nil
}
