// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package config loads Singwise configuration using Koanf v2 with layered
// sources: built-in defaults, an optional YAML config file, and SINGWISE_
// environment variables (highest priority).
//
// Nested keys are addressed with a double underscore in environment
// variables: SINGWISE_SERVER__PORT=8080 sets server.port.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/singwise/config.yaml",
	"/etc/singwise/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config
// file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix is the prefix for Singwise environment variables.
const envPrefix = "SINGWISE_"

// Config is the root configuration for the Singwise server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Data    DataConfig    `koanf:"data"`
	Engine  EngineConfig  `koanf:"engine"`
	API     APIConfig     `koanf:"api"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// ReadTimeout bounds request reading.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writing.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file:line in log output.
	Caller bool `koanf:"caller"`
}

// DataConfig locates the precomputed snapshot assets the engine consumes.
// Both tables are produced by external ETL and read once into memory.
type DataConfig struct {
	// CatalogPath is the JSONL karaoke-catalog snapshot.
	CatalogPath string `koanf:"catalog_path"`

	// SimilarityPath is the JSONL artist-pair similarity snapshot.
	// Optional: an empty path yields an empty index and the collaborative
	// signal reads as zero.
	SimilarityPath string `koanf:"similarity_path"`

	// ReloadInterval is how often snapshots are re-read from disk.
	// Zero disables periodic reloading.
	ReloadInterval time.Duration `koanf:"reload_interval"`
}

// EngineConfig contains recommendation engine policy. The matching threshold
// and diversity cap were tuned empirically; they are configuration, not
// constants.
type EngineConfig struct {
	// MatchThreshold is the minimum confidence for a match to resolve.
	MatchThreshold float64 `koanf:"match_threshold"`

	// MatchWorkers bounds the batch-matching worker pool.
	// Zero means min(GOMAXPROCS, 8).
	MatchWorkers int `koanf:"match_workers"`

	// ArtistCap is the maximum songs per artist within a category.
	ArtistCap int `koanf:"artist_cap"`

	// AffinityLimit is the default size of the artist-affinity category.
	AffinityLimit int `koanf:"affinity_limit"`

	// GenerateLimit is the default size of the create-your-own category.
	GenerateLimit int `koanf:"generate_limit"`

	// CrowdLimit is the default size of the crowd-pleasers category.
	CrowdLimit int `koanf:"crowd_limit"`

	// Weights are the scoring signal weights; normalized at runtime.
	Weights WeightsConfig `koanf:"weights"`

	// BrandSaturation is the brand count at which the availability
	// signal saturates to 1.0.
	BrandSaturation int `koanf:"brand_saturation"`

	// PlaySaturation is the play count at which the strength scaling
	// of a play-count source saturates to 1.0.
	PlaySaturation int `koanf:"play_saturation"`
}

// WeightsConfig defines the relative contribution of each scoring signal.
// Weights are normalized at runtime, so they don't need to sum to 1.0.
type WeightsConfig struct {
	// Affinity is the weight of the artist-affinity signal.
	Affinity float64 `koanf:"affinity"`

	// Collaborative is the weight of the artist-pair similarity signal.
	Collaborative float64 `koanf:"collaborative"`

	// Popularity is the weight of the catalog popularity signal.
	Popularity float64 `koanf:"popularity"`

	// Availability is the weight of the karaoke brand-count signal.
	Availability float64 `koanf:"availability"`

	// Genre is the weight of the genre-preference signal.
	Genre float64 `koanf:"genre"`

	// Decade is the weight of the decade-preference signal.
	Decade float64 `koanf:"decade"`
}

// APIConfig contains API surface settings.
type APIConfig struct {
	// DefaultPageSize is the page size when the client sends none.
	DefaultPageSize int `koanf:"default_page_size"`

	// MaxPageSize caps client-requested page sizes.
	MaxPageSize int `koanf:"max_page_size"`

	// RateLimitPerMinute is the per-IP request budget.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RequestTimeout bounds a single recommendation request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// defaultConfig returns a Config with sensible production defaults.
// Defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			CatalogPath:    "/data/catalog.jsonl",
			SimilarityPath: "/data/similarity.jsonl",
			ReloadInterval: 6 * time.Hour,
		},
		Engine: EngineConfig{
			MatchThreshold: 0.80,
			MatchWorkers:   0, // min(GOMAXPROCS, 8)
			ArtistCap:      3,
			AffinityLimit:  15,
			GenerateLimit:  10,
			CrowdLimit:     10,
			Weights: WeightsConfig{
				Affinity:      0.30,
				Collaborative: 0.20,
				Popularity:    0.18,
				Availability:  0.14,
				Genre:         0.10,
				Decade:        0.08,
			},
			BrandSaturation: 8,
			PlaySaturation:  500,
		},
		API: APIConfig{
			DefaultPageSize:    20,
			MaxPageSize:        100,
			RateLimitPerMinute: 120,
			CORSOrigins:        []string{"*"},
			RequestTimeout:     10 * time.Second,
		},
	}
}

// Load loads configuration with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (if one exists)
//  3. Environment variables: SINGWISE_-prefixed overrides
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// SINGWISE_SERVER__PORT -> server.port
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc transforms SINGWISE_ environment variable names to koanf
// config paths: SINGWISE_ENGINE__MATCH_THRESHOLD -> engine.match_threshold.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings, but the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}

	if c.Data.CatalogPath == "" {
		return fmt.Errorf("data.catalog_path must not be empty")
	}

	if c.Engine.MatchThreshold < 0 || c.Engine.MatchThreshold > 1 {
		return fmt.Errorf("engine.match_threshold must be in [0, 1], got %f", c.Engine.MatchThreshold)
	}
	if c.Engine.MatchWorkers < 0 {
		return fmt.Errorf("engine.match_workers must be non-negative, got %d", c.Engine.MatchWorkers)
	}
	if c.Engine.ArtistCap < 1 {
		return fmt.Errorf("engine.artist_cap must be positive, got %d", c.Engine.ArtistCap)
	}
	if c.Engine.AffinityLimit < 1 || c.Engine.GenerateLimit < 1 || c.Engine.CrowdLimit < 1 {
		return fmt.Errorf("engine category limits must be positive, got %d/%d/%d",
			c.Engine.AffinityLimit, c.Engine.GenerateLimit, c.Engine.CrowdLimit)
	}
	if c.Engine.BrandSaturation < 1 {
		return fmt.Errorf("engine.brand_saturation must be positive, got %d", c.Engine.BrandSaturation)
	}
	if c.Engine.PlaySaturation < 1 {
		return fmt.Errorf("engine.play_saturation must be positive, got %d", c.Engine.PlaySaturation)
	}

	w := c.Engine.Weights
	for name, v := range map[string]float64{
		"affinity":      w.Affinity,
		"collaborative": w.Collaborative,
		"popularity":    w.Popularity,
		"availability":  w.Availability,
		"genre":         w.Genre,
		"decade":        w.Decade,
	} {
		if v < 0 {
			return fmt.Errorf("engine.weights.%s must be non-negative, got %f", name, v)
		}
	}
	if w.Affinity+w.Collaborative+w.Popularity+w.Availability+w.Genre+w.Decade == 0 {
		return fmt.Errorf("engine.weights must not all be zero")
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be positive, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size must be >= api.default_page_size, got %d < %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.API.RateLimitPerMinute < 1 {
		return fmt.Errorf("api.rate_limit_per_minute must be positive, got %d", c.API.RateLimitPerMinute)
	}

	return nil
}
