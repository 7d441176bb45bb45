// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting via environment variables
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	server := http.Server{Addr: cfg.Server.Addr()}
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Events   EventsConfig   `koanf:"events"`
	Ranking  RankingConfig  `koanf:"ranking"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Storage drivers.
const (
	DriverDuckDB = "duckdb"
	DriverMemory = "memory"
)

// DatabaseConfig selects and tunes the store.
type DatabaseConfig struct {
	Driver    string `koanf:"driver"` // duckdb or memory
	Path      string `koanf:"path"`   // DuckDB file; ":memory:" for a throwaway database
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use NumCPU
}

// Event brokers.
const (
	BrokerMemory = "memory"
	BrokerNATS   = "nats"
)

// EventsConfig configures delivery of feed events to the message bus.
type EventsConfig struct {
	// Broker is "memory" (in-process gochannel) or "nats" (requires the nats build tag).
	Broker  string `koanf:"broker"`
	NATSURL string `koanf:"nats_url"`
	Topic   string `koanf:"topic"`

	// NATSEmbedded starts an in-process JetStream server and ignores NATSURL.
	NATSEmbedded bool   `koanf:"nats_embedded"`
	NATSStoreDir string `koanf:"nats_store_dir"`

	// OutboxPath is the badger directory for undelivered events.
	// Empty keeps the outbox in memory.
	OutboxPath           string        `koanf:"outbox_path"`
	OutboxReplayInterval time.Duration `koanf:"outbox_replay_interval"`
	OutboxReplayRate     float64       `koanf:"outbox_replay_rate"` // events per second

	PublishTimeout     time.Duration `koanf:"publish_timeout"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// RankingConfig tunes popularity queries.
type RankingConfig struct {
	// DefaultCount is used when a popular query omits count.
	DefaultCount int `koanf:"default_count"`

	// CacheTTL bounds how stale a ranking snapshot may be. 0 disables the cache.
	CacheTTL      time.Duration `koanf:"cache_ttl"`
	CacheCapacity int           `koanf:"cache_capacity"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from all sources. It is an alias of LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
