// Package config loads daemon configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// FeedConfig holds the snapshot feed configuration
type FeedConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Stream        string        `mapstructure:"stream"`
	Group         string        `mapstructure:"group"`
	Consumer      string        `mapstructure:"consumer"`
	BlockTimeout  time.Duration `mapstructure:"block_timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	RateBurst     int           `mapstructure:"rate_burst"`
}

// EngineConfig holds trigger classification tuning
type EngineConfig struct {
	PaceThreshold       float64 `mapstructure:"pace_threshold"`
	GoldenZoneMin       float64 `mapstructure:"golden_zone_min"`
	GoldenZoneMax       float64 `mapstructure:"golden_zone_max"`
	MinMinutesRemaining float64 `mapstructure:"min_minutes_remaining"`
	OverEdgeThreshold   float64 `mapstructure:"over_edge_threshold"`
	PaceWindow          int     `mapstructure:"pace_window"`
	TripleLineDropMin   float64 `mapstructure:"triple_line_drop_min"`
	TripleConfirmStreak int     `mapstructure:"triple_confirm_streak"`
	MaxGames            int     `mapstructure:"max_games"`
}

// LedgerConfig holds the paper-trading bankroll configuration
type LedgerConfig struct {
	AccountName     string  `mapstructure:"account_name"`
	InitialBankroll float64 `mapstructure:"initial_bankroll"`
	KellyFraction   float64 `mapstructure:"kelly_fraction"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables. An empty
// path loads pure defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("LIVEUNDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Feed defaults
	v.SetDefault("feed.redis_addr", "localhost:6379")
	v.SetDefault("feed.redis_db", 0)
	v.SetDefault("feed.stream", "liveunder:snapshots")
	v.SetDefault("feed.group", "liveunder-engine")
	v.SetDefault("feed.consumer", "liveunderd")
	v.SetDefault("feed.block_timeout", "5s")
	v.SetDefault("feed.rate_per_second", 50.0)
	v.SetDefault("feed.rate_burst", 100)

	// Engine defaults
	v.SetDefault("engine.pace_threshold", 4.5)
	v.SetDefault("engine.golden_zone_min", 1.0)
	v.SetDefault("engine.golden_zone_max", 1.5)
	v.SetDefault("engine.min_minutes_remaining", 5.0)
	v.SetDefault("engine.over_edge_threshold", 1.0)
	v.SetDefault("engine.pace_window", 4)
	v.SetDefault("engine.triple_line_drop_min", 3.0)
	v.SetDefault("engine.triple_confirm_streak", 3)
	v.SetDefault("engine.max_games", 64)

	// Ledger defaults
	v.SetDefault("ledger.account_name", "Paper Wagering Account")
	v.SetDefault("ledger.initial_bankroll", 10000.0)
	v.SetDefault("ledger.kelly_fraction", 0.25)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeout < time.Second {
		return fmt.Errorf("server.shutdown_timeout must be at least 1 second")
	}

	if c.Feed.RedisAddr == "" {
		return fmt.Errorf("feed.redis_addr is required")
	}
	if c.Feed.Stream == "" {
		return fmt.Errorf("feed.stream is required")
	}
	if c.Feed.Group == "" {
		return fmt.Errorf("feed.group is required")
	}
	if c.Feed.RatePerSecond <= 0 {
		return fmt.Errorf("feed.rate_per_second must be positive")
	}
	if c.Feed.RateBurst < 1 {
		return fmt.Errorf("feed.rate_burst must be at least 1")
	}

	if c.Engine.PaceThreshold <= 0 {
		return fmt.Errorf("engine.pace_threshold must be positive")
	}
	if c.Engine.GoldenZoneMin >= c.Engine.GoldenZoneMax {
		return fmt.Errorf("engine.golden_zone_min must be below engine.golden_zone_max")
	}
	if c.Engine.MinMinutesRemaining < 0 {
		return fmt.Errorf("engine.min_minutes_remaining must not be negative")
	}
	if c.Engine.PaceWindow < 2 {
		return fmt.Errorf("engine.pace_window must be at least 2")
	}
	if c.Engine.TripleConfirmStreak < 1 {
		return fmt.Errorf("engine.triple_confirm_streak must be at least 1")
	}
	if c.Engine.MaxGames < 1 {
		return fmt.Errorf("engine.max_games must be at least 1")
	}

	if c.Ledger.InitialBankroll <= 0 {
		return fmt.Errorf("ledger.initial_bankroll must be positive")
	}
	if c.Ledger.KellyFraction <= 0 || c.Ledger.KellyFraction > 1 {
		return fmt.Errorf("ledger.kelly_fraction must be in (0, 1]")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
