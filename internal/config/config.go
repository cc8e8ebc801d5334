// Package config defines the runtime configuration for the sales ETL binary.
// Values come from the environment (12-factor style, processed by envconfig)
// with an optional .env file loaded first; command-line flags in main may
// override individual fields.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration.
type Config struct {
	// Job names the run in logs and metrics.
	Job string `envconfig:"ETL_JOB" default:"salesetl"`

	Storage struct {
		// Kind selects the storage backend: "postgres" or "sqlite".
		Kind string `envconfig:"STORAGE_KIND" default:"postgres"`

		// DSN overrides the connection string entirely. When empty and
		// Kind is "postgres", the DSN is assembled from the DB fields.
		DSN string `envconfig:"STORAGE_DSN"`

		// AutoCreate creates the staging and warehouse tables if absent.
		AutoCreate bool `envconfig:"STORAGE_AUTO_CREATE" default:"true"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"sales_dw"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Load struct {
		// BatchSize is the number of cleaned rows per staging insert batch.
		BatchSize int `envconfig:"LOAD_BATCH_SIZE" default:"1000"`
	}

	Metrics struct {
		// Backend selects the metrics sink: "pushgateway", "datadog", or
		// "none".
		Backend string `envconfig:"METRICS_BACKEND" default:"none"`

		// PushgatewayURL is the Prometheus Pushgateway base URL.
		PushgatewayURL string `envconfig:"PUSHGATEWAY_URL" default:"http://localhost:9091"`

		// StatsdAddr is the DogStatsD address for the datadog backend.
		StatsdAddr string `envconfig:"STATSD_ADDR" default:"127.0.0.1:8125"`
	}
}

// DSN returns the effective connection string for the configured backend.
func (c *Config) DSN() string {
	if c.Storage.DSN != "" {
		return c.Storage.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// Load reads an optional .env file and processes the environment into a
// Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process config: %w", err)
	}
	return &cfg, nil
}

// Validate performs static checks a run cannot proceed without.
func (c *Config) Validate() error {
	if c.Storage.Kind == "" {
		return fmt.Errorf("storage kind must not be empty")
	}
	if c.Load.BatchSize <= 0 {
		return fmt.Errorf("load batch size must be > 0, got %d", c.Load.BatchSize)
	}
	if c.Storage.Kind == "sqlite" && c.Storage.DSN == "" {
		return fmt.Errorf("sqlite backend requires STORAGE_DSN (database file path)")
	}
	return nil
}
