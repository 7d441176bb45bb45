// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package wal

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinegraph/internal/config"
)

// Config holds the outbox configuration.
type Config struct {
	// Path is the badger directory. Empty runs badger in memory, which
	// survives publish failures but not restarts.
	Path string

	// SyncWrites forces an fsync per write.
	SyncWrites bool

	// EntryTTL expires undelivered entries. Zero keeps them until delivered
	// or dropped by MaxRetries.
	EntryTTL time.Duration

	// RetryInterval is how often the retry loop scans for pending entries.
	RetryInterval time.Duration

	// ReplayRate caps replayed publishes per second.
	ReplayRate float64

	// MaxRetries drops an entry after this many failed attempts. Zero retries forever.
	MaxRetries int

	// InflightGrace skips fresh entries that have never been attempted; the
	// inline publisher owns them until the grace period ends.
	InflightGrace time.Duration

	// BatchSize bounds the entries handled per scan.
	BatchSize int
}

// DefaultConfig returns an in-memory outbox with conservative retry settings.
func DefaultConfig() Config {
	return Config{
		SyncWrites:    false,
		EntryTTL:      24 * time.Hour,
		RetryInterval: 5 * time.Second,
		ReplayRate:    200,
		MaxRetries:    50,
		InflightGrace: 2 * time.Second,
		BatchSize:     500,
	}
}

// FromEventsConfig derives the outbox settings from the application config.
func FromEventsConfig(ec *config.EventsConfig) Config {
	cfg := DefaultConfig()
	cfg.Path = ec.OutboxPath
	cfg.SyncWrites = ec.OutboxPath != ""
	if ec.OutboxReplayInterval > 0 {
		cfg.RetryInterval = ec.OutboxReplayInterval
	}
	if ec.OutboxReplayRate > 0 {
		cfg.ReplayRate = ec.OutboxReplayRate
	}
	return cfg
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.RetryInterval <= 0 {
		return fmt.Errorf("wal: retry interval must be positive, got %v", c.RetryInterval)
	}
	if c.ReplayRate <= 0 {
		return fmt.Errorf("wal: replay rate must be positive, got %v", c.ReplayRate)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("wal: max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.EntryTTL < 0 || c.InflightGrace < 0 {
		return fmt.Errorf("wal: durations must not be negative")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("wal: batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}
