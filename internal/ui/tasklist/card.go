package tasklist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// cardWidth is the outer width of a grid card including its border.
const cardWidth = 34

// cardHeight is the number of lines a grid card occupies.
const cardHeight = 7

// checkbox returns the completion marker for t.
func checkbox(t model.Task) string {
	if t.Done {
		return lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("☑")
	}
	return "☐"
}

// priorityBadge renders the priority chip, e.g. "HIGH".
func priorityBadge(p model.Priority) string {
	if !p.Valid() {
		p = model.PriorityMedium
	}
	return theme.PriorityStyle(p).Render(strings.ToUpper(string(p)))
}

// dueLabel renders the date line. Overdue pending tasks are flagged.
func dueLabel(t model.Task, today model.Date) string {
	if t.Date.IsZero() {
		return theme.MutedStyle.Render("No due date")
	}
	if t.IsOverdue(today) {
		return theme.OverdueStyle.Render("Overdue · " + t.Date.Format())
	}
	return theme.MutedStyle.Render("📅 " + t.Date.Format())
}

// projectBadge renders the project chip, or nothing for unassigned tasks.
func projectBadge(p model.Project) string {
	if p == model.ProjectNone {
		return ""
	}
	return theme.ProjectStyle(p).Render(p.Label())
}

// titleLine renders the checkbox, title and important star.
func titleLine(t model.Task, width int) string {
	title := truncate(t.Title, width)
	if t.Done {
		title = theme.DoneStyle.Render(title)
	} else {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}
	line := checkbox(t) + " " + title
	if t.Important {
		line += " " + theme.ImportantStyle.Render("★")
	}
	return line
}

// renderCard draws t as a bordered grid card.
func renderCard(t model.Task, today model.Date, selected bool) string {
	inner := cardWidth - 4

	desc := truncate(firstLine(t.Desc), inner)
	if desc == "" {
		desc = " "
	}

	chips := priorityBadge(t.Priority)
	if pb := projectBadge(t.Project); pb != "" {
		chips += " " + pb
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleLine(t, inner-4),
		theme.MutedStyle.Render(desc),
		dueLabel(t, today),
		chips,
	)

	style := theme.CardStyle
	if selected {
		style = theme.SelectedCardStyle
	}
	return style.Width(cardWidth - 2).Render(body)
}

// renderRow draws t as a single list-mode line.
func renderRow(t model.Task, today model.Date, selected bool, width int) string {
	parts := []string{
		titleLine(t, max(width/2, 10)),
		priorityBadge(t.Priority),
	}
	if pb := projectBadge(t.Project); pb != "" {
		parts = append(parts, pb)
	}
	parts = append(parts, dueLabel(t, today))

	line := strings.Join(parts, "  ")
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// truncate shortens s to at most n runes, adding an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
