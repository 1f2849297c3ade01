// Package config provides configuration management for the value staker.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Feed      FeedConfig      `mapstructure:"feed" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StakingConfig holds the default parameters of an allocation run
type StakingConfig struct {
	InitialBankroll float64 `mapstructure:"initial_bankroll" validate:"gte=0"`
	Fraction        float64 `mapstructure:"fraction" validate:"required,gt=0"`
	MinBankroll     float64 `mapstructure:"min_bankroll" validate:"gte=0"`
	MinStake        float64 `mapstructure:"min_stake" validate:"gte=0"`
	SubFloorPolicy  string  `mapstructure:"sub_floor_policy" validate:"subfloor"`
}

// FeedConfig describes where fixtures, predictions and odds come from
type FeedConfig struct {
	Type            string   `mapstructure:"type" validate:"required,oneof=file http database"`
	PredictionsDir  string   `mapstructure:"predictions_dir"`
	OddsDir         string   `mapstructure:"odds_dir"`
	PredictionsURLs []string `mapstructure:"predictions_urls" validate:"omitempty,dive,url"`
	OddsURLs        []string `mapstructure:"odds_urls" validate:"omitempty,dive,url"`
	APIKey          string   `mapstructure:"api_key"`
	TimeoutSeconds  int      `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries      int      `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit       float64  `mapstructure:"rate_limit" validate:"gte=0"`
	Limit           int      `mapstructure:"limit" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins        []string `mapstructure:"allowed_origins"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// CacheConfig configures the in-memory plan cache
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// SchedulerConfig configures periodic plan recomputation
type SchedulerConfig struct {
	Enabled   bool     `mapstructure:"enabled"`
	Schedule  string   `mapstructure:"schedule" validate:"required_if=Enabled true"`
	Countries []string `mapstructure:"countries"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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

// CacheTTL returns the plan cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// FeedTimeout returns the HTTP feed request timeout
func (c *Config) FeedTimeout() time.Duration {
	if c.Feed.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Feed.TimeoutSeconds) * time.Second
}

// RequestTimeout returns the API per-request timeout
func (c *Config) RequestTimeout() time.Duration {
	if c.API.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.RequestTimeoutSeconds) * time.Second
}
