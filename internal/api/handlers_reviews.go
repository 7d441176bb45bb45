// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// ListReviews handles GET /reviews?filmId=&count=. Without filmId the
// most useful reviews across all films are returned.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var q validation.ReviewListQuery
	var err error
	if q.FilmID, err = queryInt64(r, "filmId"); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if q.Count, err = queryInt(r, "count", social.DefaultReviewCount); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := social.Validate(&q); err != nil {
		respondDomainError(w, r, err)
		return
	}
	reviews, err := h.engine.Reviews.List(r.Context(), q.FilmID, q.Count)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, reviews, start)
}

// GetReview handles GET /reviews/{id}.
func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	review, err := h.engine.Reviews.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, review, start)
}

// CreateReview handles POST /reviews.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	review, err := h.engine.Reviews.Create(r.Context(), req.ToModel())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, review, start)
}

// UpdateReview handles PUT /reviews. Only content and isPositive change;
// the review id travels in the body.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if req.ReviewID <= 0 {
		respondDomainError(w, r, social.Invalid("reviewId", "is required"))
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	review, err := h.engine.Reviews.Update(r.Context(), req.ToModel())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, review, start)
}

// DeleteReview handles DELETE /reviews/{id}.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := h.engine.Reviews.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, deleted("review", id), start)
}

// AddGrade handles PUT /reviews/{id}/{grade}/{userId} where grade is
// like or dislike.
func (h *Handler) AddGrade(w http.ResponseWriter, r *http.Request) {
	h.changeGrade(w, r, true)
}

// RemoveGrade handles DELETE /reviews/{id}/{grade}/{userId}.
func (h *Handler) RemoveGrade(w http.ResponseWriter, r *http.Request) {
	h.changeGrade(w, r, false)
}

func (h *Handler) changeGrade(w http.ResponseWriter, r *http.Request, add bool) {
	start := time.Now()
	ids, err := pathIDs(r, "id", "userId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	grade, err := models.ParseGradeType(chi.URLParam(r, "grade"))
	if err != nil {
		respondDomainError(w, r, social.Invalid("grade", "%v", err))
		return
	}

	if add {
		err = h.engine.Reviews.AddGrade(r.Context(), ids[0], ids[1], grade)
	} else {
		err = h.engine.Reviews.RemoveGrade(r.Context(), ids[0], ids[1], grade)
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	review, err := h.engine.Reviews.Get(r.Context(), ids[0])
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, review, start)
}
