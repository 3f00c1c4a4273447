package taskform

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// SubmitMsg is dispatched when the form is completed. For edits Task.ID
// is the id the form was opened with.
type SubmitMsg struct {
	Task   model.Task
	IsEdit bool
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// Mode is the form state: closed, creating or editing.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreate
	ModeEdit
)

// ErrTitleRequired is returned when the title is blank.
var ErrTitleRequired = errors.New("title is required")

// fieldError is a validation failure with the text shown under the field.
type fieldError struct {
	label string
	err   error
}

func (e fieldError) Error() string { return e.label }
func (e fieldError) Unwrap() error { return e.err }

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	desc      string
	date      string
	priority  model.Priority
	project   model.Project
	important bool
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form *huh.Form
	fb   *formBindings
	mode Mode

	// editing is the task being edited. Fields the form does not show,
	// such as Done, are carried over from it.
	editing model.Task

	width  int
	height int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{priority: model.PriorityMedium},
		width:  width,
		height: height,
	}
}

// Mode returns the current form state.
func (m Model) Mode() Mode { return m.mode }

// EditingID returns the id of the task being edited, or zero.
func (m Model) EditingID() int64 {
	if m.mode != ModeEdit {
		return 0
	}
	return m.editing.ID
}

// StartCreate opens a blank form.
func (m *Model) StartCreate() tea.Cmd {
	m.mode = ModeCreate
	m.editing = model.Task{}
	*m.fb = formBindings{priority: model.PriorityMedium}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartCreateFrom opens a create form prefilled from t, used to give the
// user their input back after a failed save.
func (m *Model) StartCreateFrom(t model.Task) tea.Cmd {
	m.mode = ModeCreate
	m.editing = model.Task{}
	m.fill(t)
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit opens the form prefilled from t. A task without an id cannot
// be edited and leaves the form closed.
func (m *Model) StartEdit(t model.Task) tea.Cmd {
	if t.ID == 0 {
		return nil
	}
	m.mode = ModeEdit
	m.editing = t
	m.fill(t)
	m.form = m.buildForm()
	return m.form.Init()
}

// fill copies t into the bound field values.
func (m *Model) fill(t model.Task) {
	priority := t.Priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}
	*m.fb = formBindings{
		title:     t.Title,
		desc:      t.Desc,
		date:      string(t.Date),
		priority:  priority,
		project:   t.Project,
		important: t.Important,
	}
}

// Close resets the form to its closed state.
func (m *Model) Close() {
	m.mode = ModeClosed
	m.form = nil
	m.editing = model.Task{}
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Add New Task"
	if m.mode == ModeEdit {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	priorities := make([]huh.Option[model.Priority], 0, len(model.Priorities))
	for _, p := range model.Priorities {
		priorities = append(priorities, huh.NewOption(strings.ToUpper(string(p[:1]))+string(p[1:]), p))
	}

	projects := []huh.Option[model.Project]{huh.NewOption(model.ProjectNone.Label(), model.ProjectNone)}
	for _, p := range model.Projects {
		projects = append(projects, huh.NewOption(p.Label(), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.desc),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.date).
				Validate(validateOptionalDate),
			huh.NewSelect[model.Priority]().
				Title("Priority").
				Options(priorities...).
				Value(&m.fb.priority),
			huh.NewSelect[model.Project]().
				Title("Project").
				Options(projects...).
				Value(&m.fb.project),
			huh.NewConfirm().
				Title("Important").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.important),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	task, err := m.fb.task()
	if err != nil {
		return func() tea.Msg { return CancelMsg{} }
	}

	if m.mode == ModeEdit {
		task.ID = m.editing.ID
		task.Done = m.editing.Done
		return func() tea.Msg { return SubmitMsg{Task: task, IsEdit: true} }
	}
	return func() tea.Msg { return SubmitMsg{Task: task} }
}

// task converts the bound values into a task record.
func (fb *formBindings) task() (model.Task, error) {
	if err := validateTitle(fb.title); err != nil {
		return model.Task{}, err
	}
	date, err := model.ParseDate(strings.TrimSpace(fb.date))
	if err != nil {
		return model.Task{}, err
	}
	priority := fb.priority
	if !priority.Valid() {
		priority = model.PriorityMedium
	}
	return model.Task{
		Title:     strings.TrimSpace(fb.title),
		Desc:      strings.TrimSpace(fb.desc),
		Date:      date,
		Priority:  priority,
		Project:   fb.project,
		Important: fb.important,
	}, nil
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fieldError{label: "Title is required", err: ErrTitleRequired}
	}
	return nil
}

func validateOptionalDate(s string) error {
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
