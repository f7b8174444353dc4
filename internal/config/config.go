// Package config provides configuration management for the DCF simulator.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Valuation ValuationConfig `mapstructure:"valuation" validate:"required"`
	Scenarios ScenariosConfig `mapstructure:"scenarios"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ValuationConfig holds engine and Monte Carlo defaults
type ValuationConfig struct {
	DefaultScenario      string `mapstructure:"default_scenario" validate:"required"`
	MonteCarloIterations int    `mapstructure:"monte_carlo_iterations" validate:"required,gt=0,lte=1000000"`
	Seed                 uint64 `mapstructure:"seed"`
	Workers              int    `mapstructure:"workers" validate:"gte=0"`
}

// ScenariosConfig points at optional preset files
type ScenariosConfig struct {
	PresetsDir string `mapstructure:"presets_dir"`
}

// DatabaseConfig represents database connection configuration. When Enabled is
// false scenarios are kept in memory and the remaining fields are ignored.
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port                int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int     `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int     `mapstructure:"write_timeout_seconds" validate:"gte=0"`
	RateLimitPerSecond  float64 `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst      int     `mapstructure:"rate_limit_burst" validate:"gte=0"`
	CacheTTLSeconds     int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	CacheMaxSize        int     `mapstructure:"cache_max_size" validate:"gte=0"`
	// RevalueSchedule is a cron spec for refreshing scenario price gauges; empty disables it.
	RevalueSchedule     string  `mapstructure:"revalue_schedule"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// CacheTTL returns how long cached Monte Carlo results live
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// Address returns the listen address for the HTTP server
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}
