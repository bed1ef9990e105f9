// Package config provides unified configuration loading for the move estimator.
// Supports YAML files, environment variables, and programmatic overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the move estimator.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Dictionary    DictionaryConfig    `yaml:"dictionary"`
	Cache         CacheConfig         `yaml:"cache"`
	Resolver      ResolverConfig      `yaml:"resolver"`
	Estimate      EstimateConfig      `yaml:"estimate"`
	Bands         []BandConfig        `yaml:"bands"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
}

// DictionaryConfig selects where the item dictionary comes from.
type DictionaryConfig struct {
	Source string `yaml:"source"` // builtin, yaml, json, sqlite or postgres
	Path   string `yaml:"path"`   // file path for yaml/json/sqlite
	DSN    string `yaml:"dsn"`    // postgres connection string
	Table  string `yaml:"table"`
}

// CacheConfig holds quote cache settings.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Driver     string        `yaml:"driver"` // memory or redis
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// ResolverConfig tunes the fuzzy resolver.
type ResolverConfig struct {
	ProportionalThreshold float64 `yaml:"proportional_threshold"`
	ShortKeyLength        int     `yaml:"short_key_length"`
	ShortKeyMaxDistance   int     `yaml:"short_key_max_distance"`
	MinTokenOverlap       int     `yaml:"min_token_overlap"`
	MinContainmentLength  int     `yaml:"min_containment_length"`
}

// EstimateConfig holds entry parser settings.
type EstimateConfig struct {
	FallbackVolume float64            `yaml:"fallback_volume"`
	DefaultBoxSize string             `yaml:"default_box_size"`
	BoxSizes       map[string]float64 `yaml:"box_sizes"`
}

// BandConfig is one row of the vehicle recommendation table.
// MaxVolume 0 marks the open-ended final band.
type BandConfig struct {
	MaxVolume float64 `yaml:"max_volume"`
	Vehicle   string  `yaml:"vehicle"`
	Crew      int     `yaml:"crew"`
}

// PricingConfig holds the linear price multipliers.
type PricingConfig struct {
	Currency      string  `yaml:"currency"`
	BaseFee       float64 `yaml:"base_fee"`
	PerCubicFoot  float64 `yaml:"per_cubic_foot"`
	PerCrewMember float64 `yaml:"per_crew_member"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}

		if cfg.Dictionary.Path != "" && cfg.Dictionary.Source != "postgres" {
			cfg.Dictionary.Path = ResolveRelativePath(path, cfg.Dictionary.Path)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads .env from the working directory or up to two parents.
// Variables already set in the environment are never overwritten.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../../.env")
}

// DefaultConfig returns a configuration with sensible defaults for development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8090,
			ReadTimeout:      15 * time.Second,
			WriteTimeout:     15 * time.Second,
			IdleTimeout:      60 * time.Second,
			GracefulShutdown: 10 * time.Second,
			AllowedOrigins:   []string{"*"},
			MaxBodyBytes:     1 << 20,
		},
		Dictionary: DictionaryConfig{
			Source: "builtin",
			Table:  "dictionary_entries",
		},
		Cache: CacheConfig{
			Enabled:    true,
			Driver:     "memory",
			TTL:        10 * time.Minute,
			MaxEntries: 5000,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				PoolSize: 10,
				Prefix:   "me:",
			},
		},
		Resolver: ResolverConfig{
			ProportionalThreshold: 0.35,
			ShortKeyLength:        5,
			ShortKeyMaxDistance:   1,
			MinTokenOverlap:       1,
			MinContainmentLength:  3,
		},
		Estimate: EstimateConfig{
			FallbackVolume: 5,
			DefaultBoxSize: "medium",
			BoxSizes: map[string]float64{
				"small":    3,
				"medium":   4,
				"large":    6,
				"wardrobe": 12,
			},
		},
		Bands: []BandConfig{
			{MaxVolume: 200, Vehicle: "Transit Van", Crew: 2},
			{MaxVolume: 500, Vehicle: "Luton Van", Crew: 2},
			{MaxVolume: 750, Vehicle: "Large Luton Van", Crew: 3},
			{MaxVolume: 1000, Vehicle: "Two Luton Vans", Crew: 3},
			{MaxVolume: 1400, Vehicle: "Two Large Luton Vans", Crew: 4},
			{MaxVolume: 0, Vehicle: "Mixed Fleet", Crew: 4},
		},
		Pricing: PricingConfig{
			Currency: "GBP",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			ServiceName: "move-estimator",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Dictionary.Source {
	case "builtin":
	case "yaml", "json", "sqlite":
		if c.Dictionary.Path == "" {
			return fmt.Errorf("dictionary source %s requires a path", c.Dictionary.Source)
		}
	case "postgres":
		if c.Dictionary.DSN == "" {
			return errors.New("dictionary source postgres requires a dsn")
		}
	default:
		return fmt.Errorf("invalid dictionary source: %s", c.Dictionary.Source)
	}

	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("invalid cache driver: %s", c.Cache.Driver)
	}

	if c.Resolver.ProportionalThreshold <= 0 || c.Resolver.ProportionalThreshold >= 1 {
		return fmt.Errorf("proportional_threshold must be in (0, 1), got %v", c.Resolver.ProportionalThreshold)
	}
	if c.Resolver.ShortKeyMaxDistance < 0 || c.Resolver.MinTokenOverlap < 1 {
		return errors.New("resolver distances must be non-negative and min_token_overlap at least 1")
	}

	if c.Estimate.FallbackVolume <= 0 {
		return fmt.Errorf("fallback_volume must be positive, got %v", c.Estimate.FallbackVolume)
	}
	if _, ok := c.Estimate.BoxSizes[c.Estimate.DefaultBoxSize]; !ok {
		return fmt.Errorf("default_box_size %q is not in box_sizes", c.Estimate.DefaultBoxSize)
	}

	if len(c.Bands) == 0 {
		return errors.New("at least one recommendation band is required")
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}

	if v := os.Getenv("DICTIONARY_SOURCE"); v != "" {
		cfg.Dictionary.Source = v
	}

	if v := os.Getenv("DICTIONARY_PATH"); v != "" {
		cfg.Dictionary.Path = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		if strings.HasPrefix(v, "sqlite:") {
			cfg.Dictionary.Source = "sqlite"
			cfg.Dictionary.Path = strings.TrimPrefix(v, "sqlite:")
		} else if strings.HasPrefix(v, "postgres") {
			cfg.Dictionary.Source = "postgres"
			cfg.Dictionary.DSN = v
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "true" || v == "1"
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}

// ResolveRelativePath resolves a path relative to the config file location.
func ResolveRelativePath(configPath, targetPath string) string {
	if filepath.IsAbs(targetPath) {
		return targetPath
	}
	configDir := filepath.Dir(configPath)
	return filepath.Join(configDir, targetPath)
}
