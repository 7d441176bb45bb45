// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
database_schema.go - Database Schema Management

Tables:
  - users, films, directors: catalogue records with sequence-generated ids
  - genres, mpa_ratings: fixed reference data seeded on startup
  - film_genres, film_directors: film associations
  - likes: (film_id, user_id) pairs
  - friendships: directional edges with an UNCONFIRMED/CONFIRMED status
  - reviews, review_grades: reviews and the LIKE/DISLIKE grades left on them
  - feed_events: append-only activity ledger

DuckDB does not cascade deletes, so the delete methods remove dependent
rows explicitly inside one transaction.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates sequences and tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS films_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS directors_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS reviews_id_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS feed_events_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
			email TEXT NOT NULL,
			login TEXT NOT NULL,
			name TEXT NOT NULL,
			birthday DATE
		)`,

		`CREATE TABLE IF NOT EXISTS genres (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS mpa_ratings (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS directors (
			id BIGINT PRIMARY KEY DEFAULT nextval('directors_id_seq'),
			name TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS films (
			id BIGINT PRIMARY KEY DEFAULT nextval('films_id_seq'),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			release_date DATE NOT NULL,
			duration INTEGER NOT NULL,
			mpa_id BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS film_genres (
			film_id BIGINT NOT NULL,
			genre_id BIGINT NOT NULL,
			PRIMARY KEY (film_id, genre_id)
		)`,

		`CREATE TABLE IF NOT EXISTS film_directors (
			film_id BIGINT NOT NULL,
			director_id BIGINT NOT NULL,
			PRIMARY KEY (film_id, director_id)
		)`,

		`CREATE TABLE IF NOT EXISTS likes (
			film_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			PRIMARY KEY (film_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS friendships (
			sender_id BIGINT NOT NULL,
			receiver_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			PRIMARY KEY (sender_id, receiver_id)
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id BIGINT PRIMARY KEY DEFAULT nextval('reviews_id_seq'),
			content TEXT NOT NULL,
			is_positive BOOLEAN NOT NULL,
			user_id BIGINT NOT NULL,
			film_id BIGINT NOT NULL,
			useful BIGINT NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS review_grades (
			review_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			grade TEXT NOT NULL,
			PRIMARY KEY (review_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS feed_events (
			event_id BIGINT PRIMARY KEY DEFAULT nextval('feed_events_id_seq'),
			user_id BIGINT NOT NULL,
			ts BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			operation TEXT NOT NULL,
			entity_id BIGINT NOT NULL
		)`,
	}
}

// createIndexes adds lookup indexes for the reverse directions of the
// composite primary keys.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_likes_user ON likes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_receiver ON friendships(receiver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_film ON reviews(film_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feed_events_user ON feed_events(user_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_film_directors_director ON film_directors(director_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}
	return nil
}

// seedReferenceData inserts the fixed genres and MPA ratings.
func (db *DB) seedReferenceData() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, g := range models.SeedGenres {
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO genres (id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`, g.ID, g.Name); err != nil {
			return fmt.Errorf("failed to seed genre %s: %w", g.Name, err)
		}
	}
	for _, m := range models.SeedRatings {
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO mpa_ratings (id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`, m.ID, m.Name); err != nil {
			return fmt.Errorf("failed to seed rating %s: %w", m.Name, err)
		}
	}
	return nil
}
