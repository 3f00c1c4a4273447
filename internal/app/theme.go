package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tasko/internal/model"
)

// configSavedMsg reports the outcome of persisting display preferences.
type configSavedMsg struct {
	err error
}

// saveConfig writes the current configuration back to disk. Without a
// config path nothing is persisted.
func (m *Model) saveConfig() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	path := m.configPath
	cfg := *m.cfg
	return func() tea.Msg {
		return configSavedMsg{err: model.SaveConfig(path, &cfg)}
	}
}
