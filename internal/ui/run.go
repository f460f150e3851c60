package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/engine"
	"tasklist/internal/theme"
)

// Run shows the task list screen until the user quits or ctx is done.
func Run(ctx context.Context, eng *engine.Engine, th theme.Theme) error {
	m := New(eng, th)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
