package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/keys"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	content := lipgloss.JoinVertical(lipgloss.Left, title, helpText, "", legend())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// legend lists the notification glyphs.
func legend() string {
	types := []model.NotificationType{
		model.NotifyTaskCreated,
		model.NotifyTaskUpdated,
		model.NotifyTaskUncompleted,
		model.NotifyTaskDeleted,
		model.NotifyTaskImportant,
		model.NotifyProjectChanged,
		model.NotifyOverdue,
		model.NotifyDueSoon,
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Notifications")}
	for _, t := range types {
		label := strings.ReplaceAll(string(t), "_", " ")
		lines = append(lines, t.Icon()+" "+theme.HelpStyle.Render(label))
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
