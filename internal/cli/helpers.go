package cli

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"inflationdash/app"
	"inflationdash/internal/config"
	"inflationdash/internal/container"
)

// loadConfig reads the config named by --config, or the default file and environment.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	path := ""
	if globals != nil {
		path = globals.Config
		if globals.Verbose {
			log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
		}
	}
	return config.Load(path)
}

// bootstrap loads datasets and the chart catalog and builds the dashboard service.
// The database handle of a sql source is released once loading completes.
func bootstrap(ctx context.Context, cfg *config.Config) (*app.DashboardService, error) {
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	defer c.Shutdown(ctx)

	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c.Dashboard, nil
}

// setup is loadConfig followed by bootstrap, for the one-shot commands.
func setup(globals *GlobalFlags) (*app.DashboardService, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, err
	}
	return bootstrap(context.Background(), cfg)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func wantJSON(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}
