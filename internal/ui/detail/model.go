package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/keys"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// BackMsg signals the parent to navigate back to the board.
type BackMsg struct{}

// Action is a task operation requested from the detail view.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionToggle Action = "toggle"
)

// ActionMsg signals the parent to execute an action on the current task.
type ActionMsg struct {
	Action Action
	TaskID int64
}

// Model is the task detail view component.
type Model struct {
	task     *model.Task
	today    model.Date
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Edit):
			return m, m.action(ActionEdit)

		case key.Matches(msg, m.keys.Delete):
			return m, m.action(ActionDelete)

		case key.Matches(msg, m.keys.ToggleDone):
			return m, m.action(ActionToggle)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) action(a Action) tea.Cmd {
	if m.task == nil {
		return nil
	}
	id := m.task.ID
	return func() tea.Msg {
		return ActionMsg{Action: a, TaskID: id}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := task.Title
	if task.Important {
		title += " " + theme.ImportantStyle.Render("★")
	}
	sections = append(sections, titleStyle.Render(title))

	status := lipgloss.NewStyle().Foreground(theme.ColorAmber).Render("Pending")
	if task.Done {
		status = lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("Completed")
	}
	badges := []string{status, theme.PriorityStyle(task.Priority).Render(strings.ToUpper(string(task.Priority)))}
	if task.Project != model.ProjectNone {
		badges = append(badges, theme.ProjectStyle(task.Project).Render(task.Project.Label()))
	}
	sections = append(sections, strings.Join(badges, "  "), "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-9s", label+":")), value)
	}

	due := valStyle.Render("No due date")
	if !task.Date.IsZero() {
		due = valStyle.Render(task.Date.Format())
		if task.IsOverdue(m.today) {
			due = theme.OverdueStyle.Render("Overdue · " + task.Date.Format())
		}
	}
	sections = append(sections, row("Due", due))
	sections = append(sections, row("Project", valStyle.Render(task.Project.Label())))
	if !task.CreatedAt.IsZero() {
		sections = append(sections, row("Created", valStyle.Render(task.CreatedAt.Local().Format("2006-01-02 15:04"))))
	}
	if !task.UpdatedAt.IsZero() {
		sections = append(sections, row("Updated", valStyle.Render(task.UpdatedAt.Local().Format("2006-01-02 15:04"))))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite)
	sections = append(sections, descHeaderStyle.Render("Description"))
	sections = append(sections, m.renderDescription())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDescription renders the description as markdown, falling back to
// plain text when the renderer fails.
func (m Model) renderDescription() string {
	desc := strings.TrimSpace(m.task.Desc)
	if desc == "" {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme.GlamourStyle()),
		glamour.WithWordWrap(max(min(m.width-4, 80), 20)),
	)
	if err != nil {
		return desc
	}
	out, err := r.Render(desc)
	if err != nil {
		return desc
	}
	return strings.TrimRight(out, "\n")
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(t model.Task, today model.Date) {
	m.task = &t
	m.today = today
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Task returns the displayed task.
func (m Model) Task() (model.Task, bool) {
	if m.task == nil {
		return model.Task{}, false
	}
	return *m.task, true
}

// Clear removes the displayed task.
func (m *Model) Clear() {
	m.task = nil
	m.viewport.SetContent("")
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
