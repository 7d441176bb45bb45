// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package database is the DuckDB implementation of social.Store.

It persists the catalogue (users, films, genres, MPA ratings, directors),
the social ledgers (likes, friendship edges, reviews and grades) and the
append-only feed. The package also implements recommend.FilmSearcher so
text search runs inside DuckDB.

# Connection

New opens the database with the duckdb-go driver through database/sql.
Pass ":memory:" as the path for a throwaway database (tests do this):

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

# Transactions

Friendship and grade transitions run through InFriendTx and InGradeTx.
The callback sees a transaction-scoped view; if it returns an error the
transaction is rolled back and nothing is visible. Commits that lose a
DuckDB write-write race are retried.

# Metrics

Every query records its latency and failures through metrics.RecordDBQuery.
Missing rows and domain conflicts are not counted as failures.
*/
package database
