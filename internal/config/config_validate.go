// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package config

import (
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateRanking(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Server.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case DriverDuckDB:
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER=%s", DriverDuckDB)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverDuckDB, DriverMemory, c.Database.Driver)
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Broker {
	case BrokerMemory:
	case BrokerNATS:
		if c.Events.NATSEmbedded {
			if c.Events.NATSStoreDir == "" {
				return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
			}
		} else if c.Events.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when EVENT_BROKER=%s", BrokerNATS)
		}
	default:
		return fmt.Errorf("EVENT_BROKER must be %q or %q, got %q", BrokerMemory, BrokerNATS, c.Events.Broker)
	}
	if strings.TrimSpace(c.Events.Topic) == "" {
		return fmt.Errorf("EVENT_TOPIC must not be empty")
	}
	if c.Events.OutboxReplayInterval <= 0 {
		return fmt.Errorf("OUTBOX_REPLAY_INTERVAL must be positive, got %v", c.Events.OutboxReplayInterval)
	}
	if c.Events.OutboxReplayRate <= 0 {
		return fmt.Errorf("OUTBOX_REPLAY_RATE must be positive, got %v", c.Events.OutboxReplayRate)
	}
	if c.Events.PublishTimeout <= 0 {
		return fmt.Errorf("PUBLISH_TIMEOUT must be positive, got %v", c.Events.PublishTimeout)
	}
	if c.Events.BreakerMaxFailures == 0 {
		return fmt.Errorf("BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateRanking() error {
	if c.Ranking.DefaultCount <= 0 {
		return fmt.Errorf("POPULAR_DEFAULT_COUNT must be positive, got %d", c.Ranking.DefaultCount)
	}
	if c.Ranking.CacheTTL < 0 {
		return fmt.Errorf("RANKING_CACHE_TTL must be >= 0, got %v", c.Ranking.CacheTTL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
