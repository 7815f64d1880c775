package cli

import (
	"fmt"
	"os"

	"inflationdash/adapters/excel"
	"inflationdash/app"
	"inflationdash/internal/errors"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	svc, err := setup(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithService(svc)
}

func (c *ExportCommand) executeWithService(svc *app.DashboardService) error {
	if c.Out == "" {
		return errors.InvalidInput("--out is required")
	}
	entity := c.Entity
	if entity == "" {
		entity = svc.DefaultEntity()
	}

	snap, err := svc.SnapshotFor(entity)
	if err != nil {
		return err
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.Out, err)
	}
	sheets := excel.ViewSheets(snap.Charts, snap.Views)
	if err := excel.Export(f, snap.Entity, snap.Note, sheets); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.Out, err)
	}

	if wantJSON(c.globals) {
		return printJSON(struct {
			Entity string `json:"entity"`
			Path   string `json:"path"`
			Sheets int    `json:"sheets"`
		}{snap.Entity, c.Out, len(sheets)})
	}
	fmt.Printf("Wrote %s (%d chart sheets) for %s\n", c.Out, len(sheets), snap.Entity)
	return nil
}
