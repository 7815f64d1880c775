package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"inflationdash/ui"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	if c.Port != "" {
		cfg.Server.Port = c.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("🚀 Starting inflationdash %s (source: %s)", c.version, cfg.Data.Source)
	svc, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	log.Printf("✅ Datasets loaded: %d entities, default %s", len(svc.Entities()), svc.DefaultEntity())

	server, err := ui.NewServer(svc, cfg.Server.GinMode)
	if err != nil {
		return err
	}
	return server.Start(ctx, ":"+cfg.Server.Port)
}
