package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasko/internal/model"
	"github.com/nhle/tasko/internal/theme"
)

// Layout manages the multi-panel terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int

	// PanelWidth is the width taken by the notification panel when open.
	PanelWidth int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	panel := width / 3
	if panel < 36 {
		panel = 36
	}
	if panel > 60 {
		panel = 60
	}
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		PanelWidth:      panel,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// BoardWidth is the content width left when the notification panel is open.
func (l Layout) BoardWidth(panelOpen bool) int {
	if !panelOpen {
		return l.Width
	}
	return max(l.Width-l.PanelWidth, 0)
}

// UserStatus renders the right side of the header: the bell with its
// unread badge and the user's initials.
func UserStatus(u model.User, unread int) string {
	bell := "🔔"
	if unread > 0 {
		label := fmt.Sprintf("%d", unread)
		if unread > 9 {
			label = "9+"
		}
		bell += lipgloss.NewStyle().
			Foreground(theme.ColorOnColor).
			Background(theme.ColorRed).
			Padding(0, 1).
			Render(label)
	}
	pill := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorOnColor).
		Background(theme.ColorIndigo).
		Padding(0, 1).
		Render(u.AvatarInitials())
	return bell + "  " + pill + " " + u.DisplayName()
}

// RenderHeader renders the top header bar with a title and user status.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderToastBar renders the status bar with a toast on its right edge.
func (l Layout) RenderToastBar(hints string, toast string) string {
	if toast == "" {
		return l.RenderStatusBar(hints)
	}
	left := theme.StatusBarStyle.
		Width(max(l.Width-lipgloss.Width(toast), 0)).
		MaxWidth(max(l.Width-lipgloss.Width(toast), 0)).
		Render(hints)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, toast)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// SideBySide joins the board and the notification panel.
func (l Layout) SideBySide(board, panel string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, board, panel)
}
