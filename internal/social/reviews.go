// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// DefaultReviewCount is used when a listing asks for zero or fewer reviews.
const DefaultReviewCount = 10

// Reviews manages film reviews and the grades users leave on them.
type Reviews struct {
	store    ReviewStore
	entities EntityStore
	events   *EventLog
	logger   zerolog.Logger
}

// NewReviews creates the review service.
func NewReviews(store ReviewStore, entities EntityStore, events *EventLog) *Reviews {
	return &Reviews{
		store:    store,
		entities: entities,
		events:   events,
		logger:   logging.WithComponent("reviews"),
	}
}

// Create stores a new review with a useful score of zero.
func (s *Reviews) Create(ctx context.Context, r models.Review) (*models.Review, error) {
	if err := Validate(&r); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.entities, r.UserID); err != nil {
		return nil, err
	}
	if err := requireFilm(ctx, s.entities, r.FilmID); err != nil {
		return nil, err
	}

	r.ID = 0
	r.Useful = 0
	created, err := s.store.CreateReview(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if _, err := s.events.Record(ctx, created.UserID, models.EventReview, models.OperationAdd, created.ID); err != nil {
		return created, err
	}
	s.logger.Debug().Int64("review_id", created.ID).Int64("film_id", created.FilmID).Msg("Review created")
	return created, nil
}

// Update replaces the content and verdict of a review. Author and film are immutable.
func (s *Reviews) Update(ctx context.Context, r models.Review) (*models.Review, error) {
	if err := Validate(&r); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateReview(ctx, r.ID, r.Content, r.IsPositive)
	if err != nil {
		return nil, err
	}

	if _, err := s.events.Record(ctx, updated.UserID, models.EventReview, models.OperationUpdate, updated.ID); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes a review and every grade left on it.
func (s *Reviews) Delete(ctx context.Context, id int64) error {
	existing, err := s.store.GetReview(ctx, id)
	if err != nil {
		return err
	}
	removed, err := s.store.DeleteReview(ctx, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if !removed {
		return NotFound(EntityReview, id)
	}

	_, err = s.events.Record(ctx, existing.UserID, models.EventReview, models.OperationRemove, id)
	return err
}

// Get returns one review.
func (s *Reviews) Get(ctx context.Context, id int64) (*models.Review, error) {
	return s.store.GetReview(ctx, id)
}

// List returns up to count reviews ordered by useful score, then id.
// filmID 0 lists reviews of every film.
func (s *Reviews) List(ctx context.Context, filmID int64, count int) ([]models.Review, error) {
	if count <= 0 {
		count = DefaultReviewCount
	}
	if filmID != 0 {
		if err := requireFilm(ctx, s.entities, filmID); err != nil {
			return nil, err
		}
	}
	reviews, err := s.store.ListReviews(ctx, filmID, count)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// AddGrade places a LIKE or DISLIKE from userID on a review. Repeating the
// same grade does nothing; the opposite grade is replaced.
func (s *Reviews) AddGrade(ctx context.Context, reviewID, userID int64, grade models.GradeType) error {
	if !grade.Valid() {
		return Invalid("grade", "unknown grade %q", grade)
	}
	if err := requireUser(ctx, s.entities, userID); err != nil {
		return err
	}

	var (
		previous models.GradeType
		replaced bool
		changed  bool
	)
	err := s.store.InGradeTx(ctx, reviewID, func(tx GradeTx) error {
		cur, ok, err := tx.Grade(userID)
		if err != nil {
			return err
		}
		if ok && cur == grade {
			return nil
		}
		if ok {
			previous, replaced = cur, true
			if err := tx.AddUseful(-cur.Weight()); err != nil {
				return err
			}
		}
		if err := tx.PutGrade(userID, grade); err != nil {
			return err
		}
		changed = true
		return tx.AddUseful(grade.Weight())
	})
	if err != nil {
		return wrapGradeErr(err, reviewID)
	}
	if !changed {
		return nil
	}

	if replaced {
		metrics.RecordReviewGrade(string(previous), "remove")
		if _, err := s.events.Record(ctx, userID, previous.EventType(), models.OperationRemove, reviewID); err != nil {
			return err
		}
	}
	metrics.RecordReviewGrade(string(grade), "add")
	_, err = s.events.Record(ctx, userID, grade.EventType(), models.OperationAdd, reviewID)
	return err
}

// RemoveGrade withdraws a grade. Returns a *ConflictError if userID has no
// grade of that type on the review.
func (s *Reviews) RemoveGrade(ctx context.Context, reviewID, userID int64, grade models.GradeType) error {
	if !grade.Valid() {
		return Invalid("grade", "unknown grade %q", grade)
	}
	if err := requireUser(ctx, s.entities, userID); err != nil {
		return err
	}

	err := s.store.InGradeTx(ctx, reviewID, func(tx GradeTx) error {
		cur, ok, err := tx.Grade(userID)
		if err != nil {
			return err
		}
		if !ok || cur != grade {
			return NotGraded(reviewID, userID, strings.ToLower(string(grade)))
		}
		if err := tx.DeleteGrade(userID); err != nil {
			return err
		}
		return tx.AddUseful(-grade.Weight())
	})
	if err != nil {
		return wrapGradeErr(err, reviewID)
	}

	metrics.RecordReviewGrade(string(grade), "remove")
	_, err = s.events.Record(ctx, userID, grade.EventType(), models.OperationRemove, reviewID)
	return err
}

// wrapGradeErr keeps domain errors as they are and wraps store failures.
func wrapGradeErr(err error, reviewID int64) error {
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("grade review %d: %w", reviewID, err)
}
