// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

// Recommender suggests films liked by the user's closest taste neighbour.
// It is safe for concurrent use.
type Recommender struct {
	data     DataProvider
	enricher social.Enricher
	logger   zerolog.Logger
}

// NewRecommender creates a recommender over data.
func NewRecommender(data DataProvider) *Recommender {
	return &Recommender{
		data:     data,
		enricher: social.NewEnricher(data),
		logger:   logging.WithComponent("recommend"),
	}
}

// Recommend returns the enriched films liked by the neighbour with the
// largest like overlap, minus the films userID already likes, ordered by id.
func (r *Recommender) Recommend(ctx context.Context, userID int64) ([]models.Film, error) {
	start := time.Now()
	defer func() { metrics.RecordRanking("recommend", time.Since(start)) }()

	ok, err := r.data.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !ok {
		return nil, social.NotFound(social.EntityUser, userID)
	}

	byFilm, err := r.data.AllLikes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	byUser := invert(byFilm)

	neighbour, overlap := closestNeighbour(userID, byUser)
	if overlap == 0 {
		metrics.RecordRecommendation(0)
		r.logger.Debug().Int64("user_id", userID).Msg("No overlapping neighbour, nothing to recommend")
		return []models.Film{}, nil
	}

	mine := byUser[userID]
	ids := make([]int64, 0, len(byUser[neighbour]))
	for filmID := range byUser[neighbour] {
		if _, seen := mine[filmID]; !seen {
			ids = append(ids, filmID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	films := make([]models.Film, 0, len(ids))
	for _, id := range ids {
		f, err := r.data.GetFilm(ctx, id)
		if err != nil {
			return nil, err
		}
		f.Likes = len(byFilm[id])
		films = append(films, *f)
	}
	if err := r.enricher.EnrichAll(ctx, films); err != nil {
		return nil, err
	}

	metrics.RecordRecommendation(len(films))
	r.logger.Debug().
		Int64("user_id", userID).
		Int64("neighbour_id", neighbour).
		Int("overlap", overlap).
		Int("films", len(films)).
		Msg("Recommendations computed")
	return films, nil
}

// closestNeighbour returns the other user with the largest overlap with
// userID's likes. Ties go to the lowest id.
func closestNeighbour(userID int64, byUser map[int64]map[int64]struct{}) (int64, int) {
	mine := byUser[userID]
	if len(mine) == 0 {
		return 0, 0
	}

	others := make([]int64, 0, len(byUser))
	for id := range byUser {
		if id != userID {
			others = append(others, id)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i] < others[j] })

	var best int64
	bestOverlap := 0
	for _, id := range others {
		n := 0
		for filmID := range byUser[id] {
			if _, ok := mine[filmID]; ok {
				n++
			}
		}
		if n > bestOverlap {
			best, bestOverlap = id, n
		}
	}
	return best, bestOverlap
}

// invert turns film -> users into user -> set of films.
func invert(byFilm map[int64][]int64) map[int64]map[int64]struct{} {
	byUser := make(map[int64]map[int64]struct{})
	for filmID, users := range byFilm {
		for _, u := range users {
			set, ok := byUser[u]
			if !ok {
				set = make(map[int64]struct{})
				byUser[u] = set
			}
			set[filmID] = struct{}{}
		}
	}
	return byUser
}
