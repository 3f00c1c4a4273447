package notifpanel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/keys"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// MarkReadMsg asks the parent to mark one notification read.
type MarkReadMsg struct {
	ID model.NotificationID
}

// MarkAllReadMsg asks the parent to mark every notification read.
type MarkAllReadMsg struct{}

// ClearAllMsg asks the parent to clear the feed.
type ClearAllMsg struct{}

// CloseMsg closes the panel.
type CloseMsg struct{}

// item wraps a notification for bubbles/list.
type item struct {
	n model.Notification
}

func (i item) FilterValue() string { return i.n.Title + " " + i.n.Desc }

// delegate renders one notification as three lines.
type delegate struct {
	now func() time.Time
}

func (d delegate) Height() int                             { return 3 }
func (d delegate) Spacing() int                            { return 1 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d delegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	n := it.n

	icon := n.Icon
	if icon == "" {
		icon = "🔔"
	}

	title := lipgloss.NewStyle().Bold(!n.Read).Render(n.Title)
	if !n.Read {
		title += " " + lipgloss.NewStyle().
			Foreground(theme.ColorOnColor).
			Background(theme.NotificationColor(n.Type)).
			Padding(0, 1).
			Render("new")
	}

	lines := []string{
		icon + " " + title,
		"   " + theme.MutedStyle.Render(n.Desc),
		"   " + theme.HelpStyle.Render("🕒 "+n.Age(d.now())),
	}

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}
	fmt.Fprint(w, style.Render(strings.Join(lines, "\n")))
}

// Model is the notification side panel.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	unread int
	width  int
	height int
}

// New creates the panel.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New(nil, delegate{now: time.Now}, width, height)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{list: l, keys: k, width: width, height: height}
}

// SetNotifications replaces the displayed feed.
func (m *Model) SetNotifications(ns []model.Notification) tea.Cmd {
	items := make([]list.Item, len(ns))
	m.unread = 0
	for i, n := range ns {
		items[i] = item{n: n}
		if !n.Read {
			m.unread++
		}
	}
	return m.list.SetItems(items)
}

// Update handles panel keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Notifications):
			return m, func() tea.Msg { return CloseMsg{} }

		case key.Matches(msg, m.keys.Select):
			it, ok := m.list.SelectedItem().(item)
			if !ok || it.n.Read {
				return m, nil
			}
			id := it.n.ID
			return m, func() tea.Msg { return MarkReadMsg{ID: id} }

		case key.Matches(msg, m.keys.MarkAllRead):
			if len(m.list.Items()) == 0 {
				return m, nil
			}
			return m, func() tea.Msg { return MarkAllReadMsg{} }

		case key.Matches(msg, m.keys.ClearAll):
			if len(m.list.Items()) == 0 {
				return m, nil
			}
			return m, func() tea.Msg { return ClearAllMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the panel.
func (m Model) View() string {
	var body string
	if len(m.list.Items()) == 0 {
		body = lipgloss.NewStyle().
			Width(m.width-4).
			Height(m.height-4).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("🔔\nNo notifications")
	} else {
		body = m.list.View()
	}

	hints := theme.HelpStyle.Render(fmt.Sprintf(
		"%d unread · enter read · a mark all · c clear · esc close", m.unread,
	))

	return theme.BorderStyle.
		Width(m.width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, body, hints))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width-4, height-4)
}
