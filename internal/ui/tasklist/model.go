package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/keys"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// SelectedTaskMsg is sent when a user opens a task.
type SelectedTaskMsg struct {
	TaskID int64
}

// SearchChangedMsg carries the search box contents after each edit.
// The parent debounces it before refetching.
type SearchChangedMsg struct {
	Query string
}

// Model is the task board: sidebar, summary tiles and the card area.
type Model struct {
	keys *keys.KeyMap

	board   dashboard.Board
	filters dashboard.Filters
	today   model.Date

	cursor      int
	searchMode  bool
	searchInput textinput.Model
	spinner     spinner.Model
	bar         progress.Model

	width  int
	height int
}

// New creates a new board view.
func New(k *keys.KeyMap, width, height int) Model {
	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - SidebarWidth - 6

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorIndigo)

	bar := progress.New(
		progress.WithGradient("#818CF8", "#6BCB77"),
		progress.WithWidth(SidebarWidth-4),
		progress.WithoutPercentage(),
	)

	return Model{
		keys:        k,
		board:       dashboard.Board{Loading: true},
		filters:     dashboard.DefaultFilters(),
		searchInput: si,
		spinner:     sp,
		bar:         bar,
		width:       width,
		height:      height,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetBoard replaces the rendered board. The selection follows the
// previously selected task when it is still present.
func (m *Model) SetBoard(b dashboard.Board, f dashboard.Filters, today model.Date) {
	var selected int64
	if t, ok := m.Selected(); ok {
		selected = t.ID
	}

	m.board = b
	m.filters = f
	m.today = today

	cards := b.Cards()
	for i, t := range cards {
		if t.ID == selected {
			m.cursor = i
			return
		}
	}
	m.clamp()
}

// Selected returns the task under the cursor.
func (m Model) Selected() (model.Task, bool) {
	cards := m.board.Cards()
	if m.cursor < 0 || m.cursor >= len(cards) {
		return model.Task{}, false
	}
	return cards[m.cursor], true
}

// Searching reports whether the search box has focus.
func (m Model) Searching() bool { return m.searchMode }

// Update handles messages for the board.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.board.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}
	return m, nil
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.searchMode = false
		m.searchInput.Blur()
		if m.searchInput.Value() == "" {
			return m, nil
		}
		m.searchInput.Reset()
		return m, searchChanged("")
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		return m, tea.Batch(cmd, searchChanged(after))
	}
	return m, cmd
}

// handleNormalKeys processes navigation and selection keys. Keys the
// board does not own are ignored.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := 1
	if !m.board.ListMode {
		cols = m.columns()
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.move(cols)
	case key.Matches(msg, m.keys.Up):
		m.move(-cols)
	case key.Matches(msg, m.keys.Right):
		m.move(1)
	case key.Matches(msg, m.keys.Left):
		m.move(-1)

	case key.Matches(msg, m.keys.Select):
		t, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedTaskMsg{TaskID: t.ID} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.filters.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	}
	return m, nil
}

func searchChanged(q string) tea.Cmd {
	return func() tea.Msg { return SearchChangedMsg{Query: q} }
}

func (m *Model) move(delta int) {
	n := len(m.board.Cards())
	if n == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 || next >= n {
		return
	}
	m.cursor = next
}

func (m *Model) clamp() {
	n := len(m.board.Cards())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// mainWidth is the width left of the sidebar.
func (m Model) mainWidth() int {
	return max(m.width-SidebarWidth-2, cardWidth)
}

// columns is the number of grid cards per row.
func (m Model) columns() int {
	return max(m.mainWidth()/(cardWidth+1), 1)
}

// View renders the board.
func (m Model) View() string {
	side := renderSidebar(m.board, m.filters, m.bar, m.height)

	header := []string{
		theme.HeaderStyle.Render(m.board.Title) + " " +
			theme.MutedStyle.Render(fmt.Sprintf("(%d)", len(m.board.Cards()))),
		renderTiles(m.board.Tiles),
		renderChips(m.filters),
	}
	if m.searchMode {
		header = append(header, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	}

	top := strings.Join(header, "\n")
	bodyHeight := max(m.height-lipgloss.Height(top)-1, 1)
	main := lipgloss.JoinVertical(lipgloss.Left, top, m.renderBody(bodyHeight))

	return lipgloss.JoinHorizontal(lipgloss.Top, side, " ", main)
}

// renderBody draws the loading, empty or grouped state, clipped to height
// around the selected card.
func (m Model) renderBody(height int) string {
	center := lipgloss.NewStyle().
		Width(m.mainWidth()).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	if m.board.Loading {
		return center.Render(m.spinner.View() + " Loading tasks...")
	}
	if m.board.Empty {
		return center.Render(
			lipgloss.NewStyle().Bold(true).Render("✨ No tasks found") + "\n" +
				theme.MutedStyle.Render("Try a different filter or add something new."),
		)
	}

	var c canvas
	m.renderGroup(&c, fmt.Sprintf("To Do (%d)", len(m.board.Todo)), m.board.Todo, 0)
	if m.board.ShowDone {
		c.add("", false)
		m.renderGroup(&c, fmt.Sprintf("Completed (%d)", len(m.board.Done)), m.board.Done, len(m.board.Todo))
	}
	return c.window(height)
}

// renderGroup appends one titled group of tasks. offset is the index of
// the group's first task within Board.Cards.
func (m Model) renderGroup(c *canvas, title string, tasks []model.Task, offset int) {
	c.add(theme.SectionStyle.Render(title), false)

	if m.board.ListMode {
		for i, t := range tasks {
			sel := offset+i == m.cursor
			c.add(renderRow(t, m.today, sel, m.mainWidth()), sel)
		}
		return
	}

	cols := m.columns()
	for start := 0; start < len(tasks); start += cols {
		end := min(start+cols, len(tasks))
		cards := make([]string, 0, end-start)
		focused := false
		for i := start; i < end; i++ {
			sel := offset+i == m.cursor
			focused = focused || sel
			cards = append(cards, renderCard(tasks[i], m.today, sel))
		}
		c.add(lipgloss.JoinHorizontal(lipgloss.Top, cards...), focused)
	}
}

// canvas accumulates rendered lines and remembers where the focused
// block sits so the view can scroll to it.
type canvas struct {
	lines      []string
	focus      int
	focusLines int
}

func (c *canvas) add(block string, focused bool) {
	split := strings.Split(block, "\n")
	if focused {
		c.focus = len(c.lines)
		c.focusLines = len(split)
	}
	c.lines = append(c.lines, split...)
}

func (c canvas) window(height int) string {
	start := 0
	if end := c.focus + c.focusLines; end > height {
		start = end - height
	}
	stop := min(start+height, len(c.lines))
	return strings.Join(c.lines[start:stop], "\n")
}

// SetSize updates the board dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - SidebarWidth - 6
}
