package container

import (
	"context"
	"path/filepath"
	"testing"

	"inflationdash/adapters/postgres"
	"inflationdash/internal/config"
	"inflationdash/internal/errors"
	"inflationdash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, testkit.WriteCSVDir(dir, testkit.NewPanelGenerator(testkit.DefaultPanelConfig()).Generate()))

	cfg := config.DefaultConfig()
	cfg.Data.Source = config.SourceCSV
	cfg.Data.Dir = dir
	cfg.Dashboard.DefaultEntity = "Japan"
	return cfg
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInit_CSV(t *testing.T) {
	c, err := New(csvConfig(t))
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.DB)
	require.NotNil(t, c.Dashboard)
	assert.Equal(t, "Japan", c.Dashboard.DefaultEntity())
	assert.Equal(t, 9, c.Catalog.Len())
	assert.Len(t, c.Store.Entities(), 4)
}

func TestInit_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "panel.db")
	db, err := postgres.Open("sqlite3", dsn)
	require.NoError(t, err)
	require.NoError(t, postgres.ImportTables(context.Background(), db, postgres.DefaultTables,
		testkit.NewPanelGenerator(testkit.DefaultPanelConfig()).Generate()))
	require.NoError(t, db.Close())

	cfg := config.DefaultConfig()
	cfg.Data.Source = config.SourceSQL
	cfg.Data.Driver = "sqlite3"
	cfg.Data.DatabaseURL = dsn

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	require.NotNil(t, c.DB)
	assert.Contains(t, c.Source.Describe(), "sqlite3")
	assert.Len(t, c.Dashboard.Entities(), 4)

	require.NoError(t, c.Shutdown(context.Background()))
	assert.Nil(t, c.DB)
}

func TestInit_Failures(t *testing.T) {
	cfg := csvConfig(t)
	cfg.Data.Source = "parquet"
	c, err := New(cfg)
	require.NoError(t, err)
	err = c.Init(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	cfg = csvConfig(t)
	cfg.Data.Dir = filepath.Join(t.TempDir(), "missing")
	c, err = New(cfg)
	require.NoError(t, err)
	err = c.Init(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadError, errors.GetCode(err))

	cfg = csvConfig(t)
	cfg.Dashboard.CatalogFile = filepath.Join(t.TempDir(), "nope.yaml")
	c, err = New(cfg)
	require.NoError(t, err)
	assert.Error(t, c.Init(context.Background()))
}
