package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 4 * time.Second

// dismissMsg hides the toast raised with generation gen.
type dismissMsg struct {
	gen int
}

// Ticker schedules fn after d. tea.Tick is the production ticker.
type Ticker func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Model is the single transient message surface. A new toast replaces the
// visible one and restarts the dismiss timer.
type Model struct {
	message  string
	typ      model.NotificationType
	visible  bool
	gen      int
	duration time.Duration
	tick     Ticker
}

// New creates a toast presenter with the given display duration.
func New(d time.Duration) Model {
	if d <= 0 {
		d = DefaultDuration
	}
	return Model{duration: d, tick: tea.Tick}
}

// WithTicker returns a copy of m that schedules dismissals with t.
func (m Model) WithTicker(t Ticker) Model {
	m.tick = t
	return m
}

// Present shows message styled for typ and returns the command that will
// dismiss it. Any earlier pending dismissal becomes a no-op.
func (m *Model) Present(message string, typ model.NotificationType) tea.Cmd {
	return m.PresentFor(message, typ, m.duration)
}

// PresentFor is Present with an explicit duration.
func (m *Model) PresentFor(message string, typ model.NotificationType, d time.Duration) tea.Cmd {
	m.gen++
	m.message = message
	m.typ = typ
	m.visible = true

	gen := m.gen
	return m.tick(d, func(time.Time) tea.Msg {
		return dismissMsg{gen: gen}
	})
}

// Update handles dismiss ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if d, ok := msg.(dismissMsg); ok && d.gen == m.gen {
		m.visible = false
	}
	return m, nil
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool { return m.visible }

// Message returns the current toast text and type.
func (m Model) Message() (string, model.NotificationType) {
	return m.message, m.typ
}

// View renders the toast, or nothing when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	return theme.ToastStyle(m.typ).Render(m.typ.Icon() + " " + m.message)
}
