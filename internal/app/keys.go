package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/ui/command"
)

// handleKeys runs the global and board key bindings. It reports false when
// the key should go to the active view instead.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.pendingDelete != nil {
		t := *m.pendingDelete
		m.pendingDelete = nil
		if msg.String() == "y" {
			return m, m.deleteTask(t.ID), true
		}
		return m, nil, true
	}
	if m.confirmPurge {
		m.confirmPurge = false
		if msg.String() == "y" {
			return m, m.bulkOperation(api.OpDeleteCompleted), true
		}
		return m, nil, true
	}

	switch m.currentView {
	case ViewForm, ViewCommand:
		return m, nil, false
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	}

	if m.currentView == ViewBoard && m.board.Searching() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.switchTo(ViewHelp)
		return m, nil, true
	case key.Matches(msg, m.keys.Command):
		m.switchTo(ViewCommand)
		return m, m.commandView.Focus(), true
	case key.Matches(msg, m.keys.Theme):
		return m, m.themeToggled(), true
	}

	if m.currentView != ViewBoard || m.panelOpen {
		return m, nil, false
	}

	selected, hasSelection := m.board.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.reconcile(), m.fetchNotifications()), true

	case key.Matches(msg, m.keys.New):
		return m, m.openCreate(), true

	case key.Matches(msg, m.keys.Edit):
		if !hasSelection {
			return m, nil, true
		}
		return m, m.openEdit(selected.ID), true

	case key.Matches(msg, m.keys.Delete):
		if hasSelection {
			m.askDelete(selected.ID)
		}
		return m, nil, true

	case key.Matches(msg, m.keys.ToggleDone):
		if !hasSelection {
			return m, nil, true
		}
		return m, m.toggleDone(selected.ID), true

	case key.Matches(msg, m.keys.ViewAll):
		return m, m.selectView(dashboard.ViewAll), true
	case key.Matches(msg, m.keys.ViewPending):
		return m, m.selectView(dashboard.ViewPending), true
	case key.Matches(msg, m.keys.ViewCompleted):
		return m, m.selectView(dashboard.ViewCompleted), true
	case key.Matches(msg, m.keys.ViewImportant):
		return m, m.selectView(dashboard.ViewImportant), true

	case key.Matches(msg, m.keys.ProjectWork):
		return m, m.selectProject(model.ProjectWork), true
	case key.Matches(msg, m.keys.ProjectPersonal):
		return m, m.selectProject(model.ProjectPersonal), true
	case key.Matches(msg, m.keys.ProjectHealth):
		return m, m.selectProject(model.ProjectHealth), true

	case key.Matches(msg, m.keys.CyclePriority):
		return m, m.selectPriority(nextPriority(m.state.Filters.Priority)), true

	case key.Matches(msg, m.keys.CycleSort):
		return m, m.selectSort(m.state.Filters.Sort.Next()), true

	case key.Matches(msg, m.keys.ToggleLayout):
		return m, m.selectLayout(!m.state.Filters.ListMode), true

	case key.Matches(msg, m.keys.Notifications):
		m.openPanel()
		return m, nil, true
	}

	return m, nil, false
}

// nextPriority cycles all → low → medium → high → all.
func nextPriority(p model.Priority) model.Priority {
	if p == "" {
		return model.Priorities[0]
	}
	for i, known := range model.Priorities {
		if known == p && i+1 < len(model.Priorities) {
			return model.Priorities[i+1]
		}
	}
	return ""
}

func (m *Model) selectView(v dashboard.View) tea.Cmd {
	m.state.Filters.SelectView(v)
	m.syncViews()
	return m.refilter()
}

func (m *Model) selectProject(p model.Project) tea.Cmd {
	if !m.state.Filters.SelectProject(p) {
		return nil
	}
	m.syncViews()
	return m.refilter()
}

func (m *Model) selectPriority(p model.Priority) tea.Cmd {
	m.state.Filters.Priority = p
	m.syncViews()
	return m.refilter()
}

// selectSort reorders locally; sorting never touches the network.
func (m *Model) selectSort(k dashboard.SortKey) tea.Cmd {
	m.state.Filters.Sort = k
	m.cfg.Display.Sort = string(k)
	m.syncViews()
	return m.saveConfig()
}

func (m *Model) selectLayout(list bool) tea.Cmd {
	m.state.Filters.ListMode = list
	m.cfg.Display.ListMode = list
	m.syncViews()
	return m.saveConfig()
}

func (m *Model) openPanel() {
	m.panelOpen = true
	m.currentView = ViewBoard
	m.resize()
	m.syncViews()
}

// executeCommand runs a parsed palette command.
func (m Model) executeCommand(c command.Command) (tea.Model, tea.Cmd) {
	switch c.Kind {
	case command.KindRefresh:
		return m, tea.Batch(m.reconcile(), m.fetchNotifications())
	case command.KindQuit:
		return m, tea.Quit
	case command.KindLogout:
		return m, m.logout()
	case command.KindNew:
		return m, m.openCreate()
	case command.KindTheme:
		return m, m.themeToggled()
	case command.KindNotifications:
		m.openPanel()
		return m, nil
	case command.KindMarkAllRead:
		return m, m.markAllRead()
	case command.KindClear:
		return m, m.clearNotifications()
	case command.KindView:
		m.currentView = ViewBoard
		return m, m.selectView(c.View)
	case command.KindProject:
		m.currentView = ViewBoard
		if c.Project == model.ProjectNone {
			if m.state.Filters.Project == model.ProjectNone {
				return m, nil
			}
			m.state.Filters.Project = model.ProjectNone
			m.syncViews()
			return m, m.refilter()
		}
		return m, m.selectProject(c.Project)
	case command.KindPriority:
		return m, m.selectPriority(c.Priority)
	case command.KindSort:
		return m, m.selectSort(c.Sort)
	case command.KindLayout:
		return m, m.selectLayout(c.ListMode)
	case command.KindBulk:
		m.currentView = ViewBoard
		return m, m.runBulk(c)
	case command.KindSearch:
		m.searchGen++
		m.pendingSearch = c.Query
		return m.applySearch()
	}
	return m, nil
}
