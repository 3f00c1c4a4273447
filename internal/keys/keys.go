package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Task actions
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	ToggleDone key.Binding

	// View filters
	ViewAll       key.Binding
	ViewPending   key.Binding
	ViewCompleted key.Binding
	ViewImportant key.Binding

	// Project filters
	ProjectWork     key.Binding
	ProjectPersonal key.Binding
	ProjectHealth   key.Binding

	// Priority chip
	CyclePriority key.Binding

	// Sort and layout
	CycleSort    key.Binding
	ToggleLayout key.Binding

	// Chrome
	Notifications key.Binding
	Theme         key.Binding

	// Notification panel
	MarkAllRead key.Binding
	ClearAll    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle done"),
		),
		ViewAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		ViewPending: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "pending"),
		),
		ViewCompleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "completed"),
		),
		ViewImportant: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "important"),
		),
		ProjectWork: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "work"),
		),
		ProjectPersonal: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "personal"),
		),
		ProjectHealth: key.NewBinding(
			key.WithKeys("7"),
			key.WithHelp("7", "health"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		ToggleLayout: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "grid/list"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "notifications"),
		),
		Theme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "toggle theme"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark all read"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear all"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.New, k.ToggleDone, k.Edit, k.Delete,
		k.Search, k.Notifications, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Back, k.Quit},
		{k.New, k.Edit, k.Delete, k.ToggleDone, k.Refresh},
		{k.ViewAll, k.ViewPending, k.ViewCompleted, k.ViewImportant},
		{k.ProjectWork, k.ProjectPersonal, k.ProjectHealth, k.CyclePriority},
		{k.Search, k.CycleSort, k.ToggleLayout, k.Notifications, k.Theme, k.Command, k.Help},
		{k.MarkAllRead, k.ClearAll},
	}
}
