package cli

import (
	"context"
	"fmt"
	"log"

	"inflationdash/adapters/postgres"
	"inflationdash/domain/dataset"
	"inflationdash/internal/config"
	"inflationdash/internal/container"
	datastore "inflationdash/internal/dataset"
	"inflationdash/internal/errors"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	return c.executeWithConfig(context.Background(), cfg)
}

func (c *ImportCommand) executeWithConfig(ctx context.Context, cfg *config.Config) error {
	if c.DatabaseURL == "" {
		return errors.InvalidInput("--database-url is required")
	}
	if cfg.Data.Source == config.SourceSQL {
		return errors.InvalidInput("import reads from a csv or xlsx source, not sql")
	}

	deps, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer deps.Shutdown(ctx)
	if err := deps.InitSource(); err != nil {
		return err
	}
	src := deps.Source

	// Validate the whole source before touching the target.
	if _, err := datastore.Load(ctx, src); err != nil {
		return err
	}
	raws := make(map[dataset.ID]*dataset.RawTable, len(dataset.AllIDs))
	for _, id := range dataset.AllIDs {
		raw, err := src.Read(ctx, id)
		if err != nil {
			return errors.LoadError(id.String(), err)
		}
		raws[id] = raw
	}

	db, err := postgres.Open(c.Driver, c.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.ImportTables(ctx, db, postgres.DefaultTables, raws); err != nil {
		return err
	}

	// Read back through the SQL source so a bad import fails here, not at serve time.
	target, err := postgres.NewDatasetSource(db, nil)
	if err != nil {
		return err
	}
	store, err := datastore.Load(ctx, target)
	if err != nil {
		return errors.Wrap(err, "verify imported tables")
	}
	log.Printf("[Import] %d tables written to %s", len(raws), c.Driver)

	if wantJSON(c.globals) {
		return printJSON(struct {
			Driver      string `json:"driver"`
			Tables      int    `json:"tables"`
			Entities    int    `json:"entities"`
			Fingerprint string `json:"fingerprint"`
		}{c.Driver, len(raws), len(store.Entities()), store.Fingerprint().Short()})
	}
	fmt.Printf("Imported %d tables into %s (%d entities)\n", len(raws), c.Driver, len(store.Entities()))
	return nil
}
