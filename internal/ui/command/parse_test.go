package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/tasko/internal/api"
	"github.com/nhle/tasko/internal/dashboard"
	"github.com/nhle/tasko/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"refresh", Command{Kind: KindRefresh}},
		{"sync", Command{Kind: KindRefresh}},
		{"q", Command{Kind: KindQuit}},
		{"logout", Command{Kind: KindLogout}},
		{"add", Command{Kind: KindNew}},
		{"view Pending", Command{Kind: KindView, View: dashboard.ViewPending}},
		{"project work", Command{Kind: KindProject, Project: model.ProjectWork}},
		{"project none", Command{Kind: KindProject}},
		{"priority high", Command{Kind: KindPriority, Priority: model.PriorityHigh}},
		{"priority all", Command{Kind: KindPriority}},
		{"sort title", Command{Kind: KindSort, Sort: dashboard.SortTitle}},
		{"layout list", Command{Kind: KindLayout, ListMode: true}},
		{"layout grid", Command{Kind: KindLayout}},
		{"search  buy milk ", Command{Kind: KindSearch, Query: "buy milk"}},
		{"search", Command{Kind: KindSearch}},
		{"done all", Command{Kind: KindBulk, Operation: api.OpMarkAllDone}},
		{"done", Command{Kind: KindBulk, Bulk: api.BulkMarkDone}},
		{"undone shown", Command{Kind: KindBulk, Bulk: api.BulkMarkUndone}},
		{"star", Command{Kind: KindBulk, Bulk: api.BulkMarkImportant}},
		{"Unstar shown", Command{Kind: KindBulk, Bulk: api.BulkMarkUnimportant}},
		{"delete completed", Command{Kind: KindBulk, Operation: api.OpDeleteCompleted}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "bogus", "view later", "project hobby", "priority urgent", "sort size", "layout tiles", "delete", "delete shown", "star all", "done later"} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestPaletteEmitsParsedCommand(t *testing.T) {
	m := New(80, 10)
	for _, r := range "sort priority" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Command: Command{Kind: KindSort, Sort: dashboard.SortPriority}}, cmd())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nope")})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, InvalidMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CloseMsg{}, cmd())
}
