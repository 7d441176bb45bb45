// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package recommend turns the like graph into film lists.
//
// # Recommender
//
// Recommend finds the single user whose liked films overlap most with the
// target's and returns the films that user likes which the target has not
// liked yet. Ties go to the lowest user id. With no overlap at all the
// result is empty.
//
// # Ranker
//
// The Ranker answers popularity questions:
//
//   - Popular: top films by like count, optionally filtered by genre and release year
//   - CommonFilms: films two users both like, most liked first
//   - Search: case-insensitive substring match over title and/or description
//
// Rankings read a Snapshot of every film with its like count and genres.
// The snapshot is kept in an internal/cache LRU for a short TTL and dropped
// whenever a like changes, so popular queries do not rescan the store.
//
// # Design Principles
//
//   - Deterministic: equal inputs produce identical, stably ordered outputs
//   - Observable: every query records a duration metric
//   - Decoupled: data is read through the DataProvider interface, so the
//     package works against DuckDB and the in-memory store alike
package recommend
