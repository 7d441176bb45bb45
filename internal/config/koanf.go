// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

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

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinegraph/config.yaml",
	"/etc/cinegraph/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			Environment:       "development",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Database: DatabaseConfig{
			Driver:    DriverDuckDB,
			Path:      "/data/cinegraph.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Events: EventsConfig{
			Broker:               BrokerMemory,
			NATSURL:              "nats://127.0.0.1:4222",
			Topic:                "social-events",
			NATSEmbedded:         false,
			NATSStoreDir:         "/data/nats",
			OutboxPath:           "",
			OutboxReplayInterval: 5 * time.Second,
			OutboxReplayRate:     200,
			PublishTimeout:       5 * time.Second,
			BreakerMaxFailures:   5,
			BreakerTimeout:       30 * time.Second,
		},
		Ranking: RankingConfig{
			DefaultCount:  10,
			CacheTTL:      2 * time.Second,
			CacheCapacity: 16,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// sliceConfigPaths are koanf paths that accept comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
// defaults, then the optional config file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, DB_DRIVER -> database.driver
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// FilePath returns the config file Load reads, or "" when there is none.
func FilePath() string { return findConfigFile() }

// findConfigFile returns CONFIG_PATH if it exists, else the first default path that exists.
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

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		// Already a slice (defaults or YAML)
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
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"environment":         "server.environment",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	// Database
	"db_driver":      "database.driver",
	"duckdb_path":    "database.path",
	"duckdb_memory":  "database.max_memory",
	"duckdb_threads": "database.threads",

	// Events
	"event_broker":           "events.broker",
	"nats_url":               "events.nats_url",
	"event_topic":            "events.topic",
	"nats_embedded":          "events.nats_embedded",
	"nats_store_dir":         "events.nats_store_dir",
	"outbox_path":            "events.outbox_path",
	"outbox_replay_interval": "events.outbox_replay_interval",
	"outbox_replay_rate":     "events.outbox_replay_rate",
	"publish_timeout":        "events.publish_timeout",
	"breaker_max_failures":   "events.breaker_max_failures",
	"breaker_timeout":        "events.breaker_timeout",

	// Ranking
	"popular_default_count":  "ranking.default_count",
	"ranking_cache_ttl":      "ranking.cache_ttl",
	"ranking_cache_capacity": "ranking.cache_capacity",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name onto its koanf path.
// Unknown variables return "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
