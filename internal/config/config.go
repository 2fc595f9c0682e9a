package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the journal service.
// Environment variables are parsed from the YUMELOG_ prefix.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Storage Configuration
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/yumelog.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Upload Configuration
	UploadDir string `envconfig:"UPLOAD_DIR" default:"data/uploads"`
}

// ResolveDefaults validates the driver selection and its required settings.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite driver requires YUMELOG_SQLITE_PATH")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres driver requires YUMELOG_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// New creates a Config by parsing environment variables.
// Example: YUMELOG_HTTP_PORT, YUMELOG_DB_DRIVER.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("YUMELOG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("upload_dir", cfg.UploadDir).
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
