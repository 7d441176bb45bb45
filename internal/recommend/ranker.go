// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// SnapshotKey is the cache key of the ranking snapshot.
const SnapshotKey = "ranking:snapshot"

// Search fields accepted by Ranker.Search.
const (
	SearchByTitle       = validation.SearchByTitle
	SearchByDescription = validation.SearchByDescription
)

// Snapshot is every film in id order with its like count and genres.
// A snapshot is never mutated after it is built.
type Snapshot struct {
	Films []models.Film
}

// PopularQuery selects the most liked films. Zero GenreID or Year means no filter.
type PopularQuery struct {
	Count   int
	GenreID int64
	Year    int
}

// Ranker orders films by popularity. It is safe for concurrent use.
type Ranker struct {
	data      DataProvider
	enricher  social.Enricher
	snapshots cache.Cacher[*Snapshot]
	logger    zerolog.Logger

	// gen counts invalidations. A rebuild that started before the latest
	// one is returned to its caller but not cached.
	mu  sync.Mutex
	gen uint64
}

// NewRanker creates a ranker. A nil snapshots cache rebuilds the snapshot on every query.
func NewRanker(data DataProvider, snapshots cache.Cacher[*Snapshot]) *Ranker {
	return &Ranker{
		data:      data,
		enricher:  social.NewEnricher(data),
		snapshots: snapshots,
		logger:    logging.WithComponent("ranker"),
	}
}

// Invalidate drops the cached snapshot. Wired to LikeIndex.OnChange.
func (r *Ranker) Invalidate() {
	if r.snapshots == nil {
		return
	}
	r.mu.Lock()
	r.gen++
	r.snapshots.Remove(SnapshotKey)
	r.mu.Unlock()
}

// Snapshot returns the cached snapshot or builds a fresh one.
func (r *Ranker) Snapshot(ctx context.Context) (*Snapshot, error) {
	if r.snapshots != nil {
		if snap, ok := r.snapshots.Get(SnapshotKey); ok {
			metrics.RecordRankingCache(true)
			return snap, nil
		}
		metrics.RecordRankingCache(false)
	}

	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	films, err := r.data.ListFilms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	likes, err := r.data.AllLikes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	genres, err := r.data.GenresByFilm(ctx)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}

	sort.SliceStable(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	for i := range films {
		films[i].Likes = len(likes[films[i].ID])
		films[i].Genres = genres[films[i].ID]
	}
	snap := &Snapshot{Films: films}

	if r.snapshots != nil {
		r.mu.Lock()
		if r.gen == gen {
			r.snapshots.Set(SnapshotKey, snap)
		} else {
			r.logger.Debug().Msg("Snapshot invalidated during rebuild, not caching")
		}
		r.mu.Unlock()
	}
	return snap, nil
}

// Popular returns up to q.Count films, most liked first. Films with equal
// like counts keep id order.
func (r *Ranker) Popular(ctx context.Context, q PopularQuery) ([]models.Film, error) {
	start := time.Now()
	defer func() { metrics.RecordRanking("popular", time.Since(start)) }()

	if q.Count <= 0 {
		return nil, social.Invalid("count", "must be positive, got %d", q.Count)
	}
	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Film, 0, len(snap.Films))
	for i := range snap.Films {
		f := snap.Films[i]
		if q.GenreID != 0 && !f.HasGenre(q.GenreID) {
			continue
		}
		if q.Year != 0 && f.ReleaseDate.Year() != q.Year {
			continue
		}
		out = append(out, f)
	}
	sortByLikes(out)
	if len(out) > q.Count {
		out = out[:q.Count]
	}

	if err := r.enricher.EnrichAll(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommonFilms returns the films liked by both users, most liked first.
func (r *Ranker) CommonFilms(ctx context.Context, userID, friendID int64) ([]models.Film, error) {
	start := time.Now()
	defer func() { metrics.RecordRanking("common", time.Since(start)) }()

	left, err := r.userLikes(ctx, userID)
	if err != nil {
		return nil, err
	}
	right, err := r.userLikes(ctx, friendID)
	if err != nil {
		return nil, err
	}
	shared := make(map[int64]struct{}, len(left))
	for _, id := range left {
		shared[id] = struct{}{}
	}

	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	both := make(map[int64]struct{})
	for _, id := range right {
		if _, ok := shared[id]; ok {
			both[id] = struct{}{}
		}
	}

	out := make([]models.Film, 0, len(both))
	for i := range snap.Films {
		if _, ok := both[snap.Films[i].ID]; ok {
			out = append(out, snap.Films[i])
		}
	}
	sortByLikes(out)

	if err := r.enricher.EnrichAll(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns films whose title and/or description contain query,
// ignoring case. by is a comma separated subset of "title" and "description".
func (r *Ranker) Search(ctx context.Context, query, by string) ([]models.Film, error) {
	start := time.Now()
	defer func() { metrics.RecordRanking("search", time.Since(start)) }()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, social.Invalid("query", "must not be blank")
	}
	byTitle, byDescription, err := ParseSearchBy(by)
	if err != nil {
		return nil, err
	}

	snap, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var matches map[int64]struct{}
	if searcher, ok := r.data.(FilmSearcher); ok {
		ids, err := searcher.SearchFilms(ctx, query, byTitle, byDescription)
		if err != nil {
			return nil, fmt.Errorf("search films: %w", err)
		}
		matches = make(map[int64]struct{}, len(ids))
		for _, id := range ids {
			matches[id] = struct{}{}
		}
	}

	needle := strings.ToLower(query)
	out := []models.Film{}
	for i := range snap.Films {
		f := snap.Films[i]
		if matches != nil {
			if _, ok := matches[f.ID]; !ok {
				continue
			}
		} else if !matchesText(f, needle, byTitle, byDescription) {
			continue
		}
		out = append(out, f)
	}
	sortByLikes(out)

	if err := r.enricher.EnrichAll(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseSearchBy validates a comma separated list of search fields.
func ParseSearchBy(by string) (byTitle, byDescription bool, err error) {
	byTitle, byDescription, err = validation.SearchFields(by)
	if err != nil {
		return false, false, social.Invalid("by", "%v", err)
	}
	return byTitle, byDescription, nil
}

func (r *Ranker) userLikes(ctx context.Context, userID int64) ([]int64, error) {
	ok, err := r.data.UserExists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user %d: %w", userID, err)
	}
	if !ok {
		return nil, social.NotFound(social.EntityUser, userID)
	}
	return r.data.LikesByUser(ctx, userID)
}

func matchesText(f models.Film, needle string, byTitle, byDescription bool) bool {
	if byTitle && strings.Contains(strings.ToLower(f.Title), needle) {
		return true
	}
	return byDescription && strings.Contains(strings.ToLower(f.Description), needle)
}

// sortByLikes orders films by like count descending. Ties keep input order.
func sortByLikes(films []models.Film) {
	sort.SliceStable(films, func(i, j int) bool { return films[i].Likes > films[j].Likes })
}
