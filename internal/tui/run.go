package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits or the context is
// canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Coordinator == nil {
		return fmt.Errorf("tui: coordinator is required")
	}

	p := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard exited with error: %w", err)
	}
	return nil
}
