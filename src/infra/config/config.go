// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvProduction is the environment name under which TLS is required even
// for internal database targets.
const EnvProduction = "production"

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP".
// Example: APP_PORT=8080, APP_DATABASE_URL=postgres://...
type Config struct {
	// Server configuration (embedded to flatten env vars)
	Server ServerConfig

	// Database configuration (embedded to flatten env vars)
	Database DatabaseConfig

	// Logging configuration (embedded to flatten env vars)
	Log LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds the connection settings for the backing Postgres.
// A single connection-string variable selects the database; its absence
// must not prevent the process from serving non-data requests.
type DatabaseConfig struct {
	// URL is the Postgres connection string. Optional: when empty the
	// process starts in degraded mode and data routes report the missing
	// configuration.
	URL string `envconfig:"DATABASE_URL"`

	// Environment is the deploy environment name (default: development).
	// Production forces TLS toward internal database targets.
	Environment string `envconfig:"ENV" default:"development"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Configured reports whether a connection string was provided at all.
func (c *DatabaseConfig) Configured() bool {
	return c.URL != ""
}

// HasPlaceholder reports whether the connection string still contains an
// unsubstituted deploy-template reference ("${...}"), which means the
// platform never injected the real value. Such a URL must be surfaced as
// a configuration error rather than attempted as a real connection.
func (c *DatabaseConfig) HasPlaceholder() bool {
	return strings.Contains(c.URL, "${")
}

// IsProduction reports whether the configured environment is production.
func (c *DatabaseConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads configuration from environment variables.
// It returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	var cfg Config

	// Load each config section separately to flatten env var names
	// This allows env vars like APP_PORT instead of APP_SERVER_PORT
	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}
