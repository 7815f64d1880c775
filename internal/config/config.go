package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"inflationdash/internal/errors"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is read from the working directory when no --config is given
const DefaultFile = "inflationdash.toml"

// Data source kinds
const (
	SourceCSV  = "csv"
	SourceXLSX = "xlsx"
	SourceSQL  = "sql"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Session   SessionConfig   `toml:"session"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

// DataConfig selects where the four datasets are read from
type DataConfig struct {
	Source      string `toml:"source"`   // csv, xlsx or sql
	Dir         string `toml:"dir"`      // csv: directory holding the files
	Workbook    string `toml:"workbook"` // xlsx: workbook path
	Driver      string `toml:"driver"`   // sql: postgres or sqlite3
	DatabaseURL string `toml:"database_url"`
}

// DashboardConfig holds dashboard behavior settings
type DashboardConfig struct {
	DefaultEntity    string `toml:"default_entity"`
	CatalogFile      string `toml:"catalog_file"`
	LenientSelection bool   `toml:"lenient_selection"`
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	IdleTTL Duration `toml:"idle_ttl"`
}

// Duration is a time.Duration written as "30m" in TOML
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "debug",
		},
		Data: DataConfig{
			Source: SourceCSV,
			Dir:    "data",
			Driver: "postgres",
		},
		Dashboard: DashboardConfig{
			DefaultEntity: "Türkiye",
		},
		Session: SessionConfig{
			IdleTTL: Duration{30 * time.Minute},
		},
	}
}

// Load reads the TOML file at path (or DefaultFile when present), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	if err := loadFile(config, path); err != nil {
		return nil, err
	}
	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadFile(config *Config, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read config file %s", path)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to parse config file %s", path)
	}
	return nil
}

// applyEnv lets environment variables override file settings
func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)

	config.Data.Source = strings.ToLower(getEnvOrDefault("DATA_SOURCE", config.Data.Source))
	config.Data.Dir = getEnvOrDefault("DATA_DIR", config.Data.Dir)
	config.Data.Workbook = getEnvOrDefault("DATA_WORKBOOK", config.Data.Workbook)
	config.Data.Driver = getEnvOrDefault("DB_DRIVER", config.Data.Driver)
	config.Data.DatabaseURL = getEnvOrDefault("DATABASE_URL", config.Data.DatabaseURL)

	config.Dashboard.DefaultEntity = getEnvOrDefault("DEFAULT_ENTITY", config.Dashboard.DefaultEntity)
	config.Dashboard.CatalogFile = getEnvOrDefault("CHART_CATALOG", config.Dashboard.CatalogFile)
	config.Dashboard.LenientSelection = getEnvBoolOrDefault("LENIENT_SELECTION", config.Dashboard.LenientSelection)

	config.Session.IdleTTL.Duration = getEnvDurationOrDefault("SESSION_IDLE_TTL", config.Session.IdleTTL.Duration)
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("server port %q is not a number", config.Server.Port))
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown gin mode %q", config.Server.GinMode))
	}

	switch config.Data.Source {
	case SourceCSV:
		if config.Data.Dir == "" {
			return errors.ConfigInvalid("DATA_DIR is required for the csv source")
		}
	case SourceXLSX:
		if config.Data.Workbook == "" {
			return errors.ConfigInvalid("DATA_WORKBOOK is required for the xlsx source")
		}
	case SourceSQL:
		if config.Data.DatabaseURL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the sql source")
		}
		if config.Data.Driver != "postgres" && config.Data.Driver != "sqlite3" {
			return errors.ConfigInvalid(fmt.Sprintf("unsupported database driver %q", config.Data.Driver))
		}
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown data source %q", config.Data.Source))
	}

	if config.Dashboard.DefaultEntity == "" {
		return errors.ConfigInvalid("default entity is required")
	}
	if config.Session.IdleTTL.Duration < 0 {
		return errors.ConfigInvalid("session idle TTL cannot be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
