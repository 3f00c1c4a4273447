package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorIndigo  = lipgloss.AdaptiveColor{Dark: "#818CF8", Light: "#4F46E5"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2563EB"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#059669"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorAmber   = lipgloss.AdaptiveColor{Dark: "#FBBF24", Light: "#D97706"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#DC2626"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorViolet  = lipgloss.AdaptiveColor{Dark: "#A78BFA", Light: "#7C3AED"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#6B7280"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorOnColor = lipgloss.AdaptiveColor{Dark: "#FFFFFF", Light: "#FFFFFF"}
)

// Mode is the theme preference stored in the config file.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Apply forces the adaptive palette to the given mode. Auto keeps the
// terminal's detected background.
func Apply(m Mode) {
	switch m {
	case ModeDark:
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// Current reports the mode currently in effect.
func Current() Mode {
	if lipgloss.HasDarkBackground() {
		return ModeDark
	}
	return ModeLight
}

// Toggle flips between dark and light and returns the new mode.
func Toggle() Mode {
	next := ModeDark
	if Current() == ModeDark {
		next = ModeLight
	}
	Apply(next)
	return next
}

// GlamourStyle returns the glamour style name matching the current mode.
func GlamourStyle() string {
	if Current() == ModeDark {
		return "dark"
	}
	return "light"
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOnColor).
	Background(ColorIndigo).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// SectionStyle titles the To Do and Completed groups.
var SectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// CardStyle is the base style for a task card in grid mode.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// SelectedCardStyle highlights the focused card.
var SelectedCardStyle = CardStyle.
	BorderForeground(ColorIndigo)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorIndigo).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorIndigo)

// DoneStyle dims completed task titles.
var DoneStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// MutedStyle is used for descriptions and secondary text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// OverdueStyle marks overdue dates.
var OverdueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// ImportantStyle marks the important badge.
var ImportantStyle = lipgloss.NewStyle().
	Foreground(ColorAmber)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle is used for inline validation messages.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityHigh:
		return base.Foreground(ColorRed)
	case model.PriorityMedium:
		return base.Foreground(ColorOrange)
	case model.PriorityLow:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// NotificationColor returns the accent color for a notification type.
func NotificationColor(t model.NotificationType) lipgloss.AdaptiveColor {
	switch t {
	case model.NotifyTaskCreated, model.NotifyTaskCompleted:
		return ColorGreen
	case model.NotifyTaskUpdated:
		return ColorBlue
	case model.NotifyTaskDeleted, model.NotifyOverdue, model.NotifyError:
		return ColorRed
	case model.NotifyTaskUncompleted, model.NotifyDueSoon:
		return ColorAmber
	case model.NotifyTaskImportant:
		return ColorYellow
	case model.NotifyTaskUnimportant:
		return ColorGray
	case model.NotifyProjectAssigned, model.NotifyProjectChanged:
		return ColorViolet
	default:
		return ColorIndigo
	}
}

// ToastStyle returns the banner style for a toast of the given type.
func ToastStyle(t model.NotificationType) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorOnColor).
		Background(NotificationColor(t)).
		Padding(0, 2)
}

// ProjectStyle returns a color-coded style for a project label.
func ProjectStyle(p model.Project) lipgloss.Style {
	base := lipgloss.NewStyle()

	switch p {
	case model.ProjectWork:
		return base.Foreground(ColorBlue)
	case model.ProjectPersonal:
		return base.Foreground(ColorViolet)
	case model.ProjectHealth:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}
