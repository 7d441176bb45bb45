// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// LikeIndex records which users like which films.
type LikeIndex struct {
	likes    LikeStore
	entities EntityStore
	events   *EventLog
	logger   zerolog.Logger

	mu        sync.RWMutex
	listeners []func()
}

// NewLikeIndex creates a like index.
func NewLikeIndex(likes LikeStore, entities EntityStore, events *EventLog) *LikeIndex {
	return &LikeIndex{
		likes:    likes,
		entities: entities,
		events:   events,
		logger:   logging.WithComponent("likes"),
	}
}

// OnChange registers fn to run after every successful like or unlike.
func (x *LikeIndex) OnChange(fn func()) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.listeners = append(x.listeners, fn)
}

func (x *LikeIndex) changed() {
	x.mu.RLock()
	defer x.mu.RUnlock()
	for _, fn := range x.listeners {
		fn()
	}
}

// Like records that userID likes filmID. Liking twice is harmless but
// still emits a LIKE/ADD event.
func (x *LikeIndex) Like(ctx context.Context, filmID, userID int64) error {
	if err := requireFilm(ctx, x.entities, filmID); err != nil {
		return err
	}
	if err := requireUser(ctx, x.entities, userID); err != nil {
		return err
	}

	if err := x.likes.AddLike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	metrics.RecordLike("add")
	x.changed()

	if _, err := x.events.Record(ctx, userID, models.EventLike, models.OperationAdd, filmID); err != nil {
		return err
	}
	x.logger.Debug().Int64("film_id", filmID).Int64("user_id", userID).Msg("Film liked")
	return nil
}

// Unlike removes the like. Returns a *ConflictError if the user never liked the film.
func (x *LikeIndex) Unlike(ctx context.Context, filmID, userID int64) error {
	if err := requireFilm(ctx, x.entities, filmID); err != nil {
		return err
	}
	if err := requireUser(ctx, x.entities, userID); err != nil {
		return err
	}

	removed, err := x.likes.RemoveLike(ctx, filmID, userID)
	if err != nil {
		return fmt.Errorf("remove like: %w", err)
	}
	if !removed {
		return NotLiked(filmID, userID)
	}
	metrics.RecordLike("remove")
	x.changed()

	if _, err := x.events.Record(ctx, userID, models.EventLike, models.OperationRemove, filmID); err != nil {
		return err
	}
	x.logger.Debug().Int64("film_id", filmID).Int64("user_id", userID).Msg("Film unliked")
	return nil
}

// LikesByFilm returns the ids of users who like filmID, ascending.
func (x *LikeIndex) LikesByFilm(ctx context.Context, filmID int64) ([]int64, error) {
	if err := requireFilm(ctx, x.entities, filmID); err != nil {
		return nil, err
	}
	return x.likes.LikesByFilm(ctx, filmID)
}

// LikesByUser returns the ids of films userID likes, ascending.
func (x *LikeIndex) LikesByUser(ctx context.Context, userID int64) ([]int64, error) {
	if err := requireUser(ctx, x.entities, userID); err != nil {
		return nil, err
	}
	return x.likes.LikesByUser(ctx, userID)
}

// AllLikes returns the users who like each film, keyed by film id.
func (x *LikeIndex) AllLikes(ctx context.Context) (map[int64][]int64, error) {
	return x.likes.AllLikes(ctx)
}

func requireUser(ctx context.Context, s EntityStore, id int64) error {
	ok, err := s.UserExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user %d: %w", id, err)
	}
	if !ok {
		return NotFound(EntityUser, id)
	}
	return nil
}

func requireFilm(ctx context.Context, s EntityStore, id int64) error {
	ok, err := s.FilmExists(ctx, id)
	if err != nil {
		return fmt.Errorf("check film %d: %w", id, err)
	}
	if !ok {
		return NotFound(EntityFilm, id)
	}
	return nil
}
