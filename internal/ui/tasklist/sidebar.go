package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// SidebarWidth is the fixed width of the left column.
const SidebarWidth = 26

// renderSidebar draws the view list, project counts and progress bar.
// Counts come from the full collection so they do not follow the filter.
func renderSidebar(b dashboard.Board, f dashboard.Filters, bar progress.Model, height int) string {
	c := b.Counters

	entry := func(hotkey, label string, n int, active bool) string {
		line := fmt.Sprintf("%s %-12s %3d", theme.HelpStyle.Render(hotkey), label, n)
		if active {
			return theme.SelectedItemStyle.Render(line)
		}
		return theme.ListItemStyle.Render(line)
	}

	var lines []string
	lines = append(lines, theme.SectionStyle.Render("Overview"))
	lines = append(lines,
		entry("1", "All", c.Total, f.Project == model.ProjectNone && f.View == dashboard.ViewAll),
		entry("2", "Pending", c.Pending, f.Project == model.ProjectNone && f.View == dashboard.ViewPending),
		entry("3", "Completed", c.Done, f.Project == model.ProjectNone && f.View == dashboard.ViewCompleted),
		entry("4", "Important", c.Important, f.Project == model.ProjectNone && f.View == dashboard.ViewImportant),
	)
	if c.Overdue > 0 {
		lines = append(lines, theme.OverdueStyle.Render(fmt.Sprintf("  ⚠ %d overdue", c.Overdue)))
	}

	lines = append(lines, "", theme.SectionStyle.Render("Projects"))
	for i, p := range model.Projects {
		hotkey := fmt.Sprintf("%d", i+5)
		lines = append(lines, entry(hotkey, p.Label(), c.Projects[p], f.Project == p))
	}

	lines = append(lines, "", theme.SectionStyle.Render("Progress"))
	pct := 0.0
	if c.Total > 0 {
		pct = float64(c.Done) / float64(c.Total)
	}
	lines = append(lines,
		" "+bar.ViewAs(pct),
		theme.MutedStyle.Render(fmt.Sprintf(" %d of %d done", c.Done, c.Total)),
	)

	return lipgloss.NewStyle().
		Width(SidebarWidth).
		Height(height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(theme.ColorBorder).
		Render(strings.Join(lines, "\n"))
}

// renderTiles draws the four summary tiles above the board.
func renderTiles(t dashboard.Tiles) string {
	tile := func(label string, n int, color lipgloss.AdaptiveColor) string {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Width(14).
			Render(lipgloss.NewStyle().Bold(true).Foreground(color).Render(fmt.Sprintf("%d", n)) +
				"\n" + theme.MutedStyle.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		tile("Total", t.Total, theme.ColorIndigo),
		tile("Completed", t.Done, theme.ColorGreen),
		tile("Pending", t.Pending, theme.ColorAmber),
		tile("Overdue", t.Overdue, theme.ColorRed),
	)
}

// renderChips summarises the active filters.
func renderChips(f dashboard.Filters) string {
	pri := "any"
	if f.Priority != "" {
		pri = string(f.Priority)
	}
	layout := "grid"
	if f.ListMode {
		layout = "list"
	}
	parts := []string{
		"priority: " + pri,
		"sort: " + string(f.Sort),
		"layout: " + layout,
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Search))
	}
	return theme.HelpStyle.Render(strings.Join(parts, " · "))
}
