package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/tasko/internal/model"
)

func TestLayoutDimensions(t *testing.T) {
	l := NewLayout(120, 40)
	assert.Equal(t, 38, l.ContentHeight())
	assert.Equal(t, 40, l.PanelWidth)
	assert.Equal(t, 120, l.BoardWidth(false))
	assert.Equal(t, 80, l.BoardWidth(true))

	assert.Equal(t, 36, NewLayout(60, 20).PanelWidth)
}

func TestUserStatus(t *testing.T) {
	u := model.User{FullName: "Ada Lovelace", Initials: "al"}

	s := UserStatus(u, 0)
	assert.Contains(t, s, "AL")
	assert.Contains(t, s, "Ada Lovelace")

	assert.Contains(t, UserStatus(u, 3), "3")
	assert.Contains(t, UserStatus(u, 12), "9+")
}

func TestToastBar(t *testing.T) {
	l := NewLayout(80, 20)
	assert.Contains(t, l.RenderToastBar("q quit", ""), "q quit")

	bar := l.RenderToastBar("q quit", "✅ saved")
	assert.Contains(t, bar, "✅ saved")
	assert.Contains(t, bar, "q quit")

	out := l.RenderWithFrame("head", "body", bar)
	assert.Contains(t, out, "body")
}
