// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"

	"github.com/tomtom215/cinegraph/internal/social"
)

// DataProvider is the read surface the recommender and ranker need.
// It is implemented by both internal/database and internal/memstore.
type DataProvider interface {
	social.EntityStore

	// LikesByUser returns the ids of films userID likes, ascending.
	LikesByUser(ctx context.Context, userID int64) ([]int64, error)

	// AllLikes returns user ids keyed by film id as one consistent snapshot.
	AllLikes(ctx context.Context) (map[int64][]int64, error)
}

// FilmSearcher is implemented by providers that can match text in the
// store itself. Providers without it are searched in memory.
type FilmSearcher interface {
	SearchFilms(ctx context.Context, query string, byTitle, byDescription bool) ([]int64, error)
}
