package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/theseus/internal/cli"
	"github.com/julianstephens/theseus/internal/logger"
	"github.com/julianstephens/theseus/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	backend, source, err := ctx.Backend(context.Background())
	if err != nil {
		return err
	}
	logger.Info("Starting TUI", "source", source)

	// Perform automatic backup on TUI startup when reading the store directly
	if source == "local" {
		ctx.PerformAutomaticBackup()
	}

	p := tea.NewProgram(tui.NewModel(backend), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
