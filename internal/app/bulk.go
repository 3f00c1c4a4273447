package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/ui/command"
)

// bulkDoneMsg is sent after a bulk update or operation.
type bulkDoneMsg struct {
	scoped
	what string
	res  api.BulkResult
	err  error
}

// runBulk executes a bulk palette command. Deleting completed tasks waits
// for confirmation.
func (m *Model) runBulk(c command.Command) tea.Cmd {
	switch {
	case c.Operation == api.OpDeleteCompleted:
		m.confirmPurge = true
		return nil
	case c.Operation != "":
		return m.bulkOperation(c.Operation)
	}

	ids := make([]int64, 0, len(m.state.Filtered))
	for _, t := range m.state.Filtered {
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return m.toast.Present("No tasks shown", model.NotifyInfo)
	}

	client, gen := m.client, m.gen
	return func() tea.Msg {
		res, err := client.BulkUpdate(context.Background(), ids, c.Bulk)
		return bulkDoneMsg{scoped: scoped{gen}, what: string(c.Bulk), res: res, err: err}
	}
}

func (m *Model) bulkOperation(op api.BulkOperation) tea.Cmd {
	client, gen := m.client, m.gen
	return func() tea.Msg {
		res, err := client.RunBulkOperation(context.Background(), op)
		return bulkDoneMsg{scoped: scoped{gen}, what: string(op), res: res, err: err}
	}
}

func (m Model) handleBulkDone(msg bulkDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("bulk change failed", "action", msg.what, "error", msg.err)
		return m, m.toast.Present("Failed to update tasks", model.NotifyError)
	}

	m.log.Infow("bulk change applied", "action", msg.what, "message", msg.res.Message)
	text := msg.res.Message
	if text == "" {
		text = "Tasks updated"
	}
	return m, tea.Batch(m.toast.Present(text, model.NotifyTaskUpdated), m.reconcile())
}
