// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"fmt"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/database"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/memstore"
	"github.com/tomtom215/cinegraph/internal/social"
)

// openStore returns the store selected by cfg.Driver.
func openStore(cfg *config.DatabaseConfig) (social.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logging.Warn().Msg("Using in-memory store; data is lost on exit")
		return memstore.New(), nil
	case config.DriverDuckDB, "":
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("open duckdb: %w", err)
		}
		logging.Info().Str("path", cfg.Path).Msg("DuckDB store opened")
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
