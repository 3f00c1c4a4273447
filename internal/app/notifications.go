package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/model"
)

// notificationsMsg carries the server notification list.
type notificationsMsg struct {
	scoped
	items []model.Notification
	err   error
}

// notificationReadMsg is sent after a single read flag was sent.
type notificationReadMsg struct {
	scoped
	id  model.NotificationID
	err error
}

// notificationsMarkedMsg is sent after mark-all-read.
type notificationsMarkedMsg struct {
	scoped
	err error
}

// notificationsClearedMsg is sent after clear-all.
type notificationsClearedMsg struct {
	scoped
	err error
}

func (m *Model) fetchNotifications() tea.Cmd {
	c, gen := m.client, m.gen
	return func() tea.Msg {
		items, err := c.ListNotifications(context.Background())
		return notificationsMsg{scoped: scoped{gen}, items: items, err: err}
	}
}

func (m Model) handleNotifications(msg notificationsMsg) (tea.Model, tea.Cmd) {
	boot := m.bootStep()
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Warnw("fetching notifications failed", "error", msg.err)
		return m, boot
	}

	m.state.Notifications.Replace(msg.items)
	m.syncViews()
	return m, boot
}

// markRead flips the read flag locally and, for server records, sends it.
func (m *Model) markRead(id model.NotificationID) tea.Cmd {
	n, remote := m.state.Notifications.MarkRead(id)
	m.syncViews()
	if !remote {
		return nil
	}

	num, ok := n.ID.Int()
	if !ok {
		return nil
	}
	c, gen := m.client, m.gen
	return func() tea.Msg {
		err := c.MarkNotificationRead(context.Background(), num)
		return notificationReadMsg{scoped: scoped{gen}, id: id, err: err}
	}
}

func (m Model) handleNotificationRead(msg notificationReadMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Warnw("marking notification read failed, resyncing", "id", msg.id, "error", msg.err)
		return m, m.fetchNotifications()
	}
	m.state.Notifications.Confirm(msg.id)
	m.syncViews()
	return m, nil
}

func (m *Model) markAllRead() tea.Cmd {
	c, gen := m.client, m.gen
	return func() tea.Msg {
		err := c.MarkAllNotificationsRead(context.Background())
		return notificationsMarkedMsg{scoped: scoped{gen}, err: err}
	}
}

func (m Model) handleNotificationsMarked(msg notificationsMarkedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("marking all notifications read failed", "error", msg.err)
		return m, m.toast.Present("Failed to mark notifications as read", model.NotifyError)
	}
	m.state.Notifications.MarkAllRead()
	m.syncViews()
	return m, m.toast.Present("All notifications marked as read", model.NotifyInfo)
}

func (m *Model) clearNotifications() tea.Cmd {
	c, gen := m.client, m.gen
	return func() tea.Msg {
		err := c.ClearNotifications(context.Background())
		return notificationsClearedMsg{scoped: scoped{gen}, err: err}
	}
}

func (m Model) handleNotificationsCleared(msg notificationsClearedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if api.IsAuthError(msg.err) {
			return m, m.expire(msg.err)
		}
		m.log.Errorw("clearing notifications failed", "error", msg.err)
		return m, m.toast.Present("Failed to clear notifications", model.NotifyError)
	}
	m.state.Notifications.Clear()
	m.syncViews()
	return m, m.toast.Present("All notifications cleared", model.NotifyInfo)
}
