package goals

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/retcal/internal/cli"
	"github.com/julianstephens/retcal/internal/config"
	"github.com/julianstephens/retcal/internal/export"
)

type ExportCmd struct {
	Format string `short:"f" help:"Output format (ics|json|csv)." default:"ics" enum:"ics,json,csv"`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	store, err := ctx.Goals()
	if err != nil {
		return err
	}

	opts := export.Options{CalendarName: config.DefaultCalendarName}
	if ctx.Settings != nil {
		opts.CalendarName = ctx.Settings.ExportCalendarName
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	goals := store.List()
	if err := export.Write(w, format, goals, opts); err != nil {
		return err
	}

	if c.Output != "" {
		fmt.Printf("✓ Exported %d goal instance(s) to %s\n", len(goals), c.Output)
	}
	return nil
}
