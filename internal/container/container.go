package container

import (
	"context"
	"fmt"
	"log"

	"inflationdash/adapters/excel"
	"inflationdash/adapters/postgres"
	"inflationdash/app"
	"inflationdash/internal/chartspec"
	"inflationdash/internal/config"
	datastore "inflationdash/internal/dataset"
	"inflationdash/internal/errors"
	"inflationdash/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure, nil unless the sql source is configured
	DB *sqlx.DB

	Source    ports.DatasetSource
	Store     *datastore.Store
	Catalog   *chartspec.Catalog
	Dashboard *app.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Container{Config: cfg}, nil
}

// InitSource opens the dataset source named by the config
func (c *Container) InitSource() error {
	if c.Source != nil {
		return nil
	}

	data := c.Config.Data
	switch data.Source {
	case config.SourceCSV:
		c.Source = excel.NewDirSource(data.Dir, nil)
	case config.SourceXLSX:
		c.Source = excel.NewWorkbookSource(data.Workbook, nil)
	case config.SourceSQL:
		db, err := postgres.Open(data.Driver, data.DatabaseURL)
		if err != nil {
			return errors.LoadError("sql source", err)
		}
		src, err := postgres.NewDatasetSource(db, nil)
		if err != nil {
			db.Close()
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
		c.DB = db
		c.Source = src
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown data source %q", data.Source))
	}

	log.Printf("[Container] dataset source: %s", c.Source.Describe())
	return nil
}

// Init loads every dataset and the chart catalog, then builds the dashboard
// service. Any load failure is fatal.
func (c *Container) Init(ctx context.Context) error {
	if err := c.InitSource(); err != nil {
		return err
	}

	store, err := datastore.Load(ctx, c.Source)
	if err != nil {
		return err
	}
	c.Store = store

	if c.Catalog, err = chartspec.LoadCatalog(c.Config.Dashboard.CatalogFile); err != nil {
		return err
	}

	c.Dashboard, err = app.NewDashboardService(c.Store, c.Catalog, app.DashboardOptions{
		DefaultEntity:    c.Config.Dashboard.DefaultEntity,
		IdleTTL:          c.Config.Session.IdleTTL.Duration,
		LenientSelection: c.Config.Dashboard.LenientSelection,
	})
	if err != nil {
		return err
	}

	log.Printf("Container initialized successfully (%d charts)", c.Catalog.Len())
	return nil
}

// Shutdown releases the database handle, if any. Loaded datasets stay usable.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		err := c.DB.Close()
		c.DB = nil
		return err
	}
	return nil
}
