package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/config"
	"github.com/julianstephens/retcal/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Goals()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	settings := ctx.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}

	p := tea.NewProgram(tui.NewModel(store, settings), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
