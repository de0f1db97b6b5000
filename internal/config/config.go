// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package config provides layered configuration loading for Kinocat using
// Koanf v2. Precedence: environment variables > YAML config file > built-in
// defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Kinocat service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`          // Per-request read/write timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // Grace period for in-flight requests on shutdown
}

// StoreConfig configures the embedded movie store.
type StoreConfig struct {
	Path         string        `koanf:"path"`           // Badger data directory
	InMemory     bool          `koanf:"in_memory"`      // Ephemeral store, no disk writes
	GCInterval   time.Duration `koanf:"gc_interval"`    // Value log garbage collection interval
	SeedMockData bool          `koanf:"seed_mock_data"` // Populate a mock catalog on startup
	SeedCount    int           `koanf:"seed_count"`     // Number of mock movies to seed
}

// APIConfig configures request handling behavior.
type APIConfig struct {
	InitialBatchSize  int           `koanf:"initial_batch_size"` // Movies per initial feed batch
	NextBatchSize     int           `koanf:"next_batch_size"`    // Movies per follow-up feed batch
	SuggestLimit      int           `koanf:"suggest_limit"`      // Max title suggestions per lookup
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`    // Requests allowed per window per client
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // trace, debug, info, warn, error
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"` // Include caller file:line in log lines
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path:         "/data/kinocat",
			InMemory:     false,
			GCInterval:   10 * time.Minute,
			SeedMockData: false,
			SeedCount:    120,
		},
		API: APIConfig{
			InitialBatchSize:  18,
			NextBatchSize:     12,
			SuggestLimit:      10,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Store.GCInterval <= 0 {
		return fmt.Errorf("store.gc_interval must be positive, got %s", c.Store.GCInterval)
	}
	if c.Store.SeedMockData && c.Store.SeedCount <= 0 {
		return fmt.Errorf("store.seed_count must be positive when seeding, got %d", c.Store.SeedCount)
	}
	if c.API.InitialBatchSize <= 0 {
		return fmt.Errorf("api.initial_batch_size must be positive, got %d", c.API.InitialBatchSize)
	}
	if c.API.NextBatchSize <= 0 {
		return fmt.Errorf("api.next_batch_size must be positive, got %d", c.API.NextBatchSize)
	}
	if c.API.SuggestLimit <= 0 {
		return fmt.Errorf("api.suggest_limit must be positive, got %d", c.API.SuggestLimit)
	}
	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs <= 0 {
			return fmt.Errorf("api.rate_limit_reqs must be positive, got %d", c.API.RateLimitReqs)
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("api.rate_limit_window must be positive, got %s", c.API.RateLimitWindow)
		}
	}
	return nil
}

// ListenAddr returns the host:port pair the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
