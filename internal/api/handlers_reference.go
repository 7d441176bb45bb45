// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// ListGenres handles GET /genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	genres, err := h.engine.Catalog.Genres(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, genres, start)
}

// GetGenre handles GET /genres/{id}.
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	genre, err := h.engine.Catalog.Genre(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, genre, start)
}

// ListRatings handles GET /mpa.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ratings, err := h.engine.Catalog.Ratings(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, ratings, start)
}

// GetRating handles GET /mpa/{id}.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	rating, err := h.engine.Catalog.Rating(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, rating, start)
}

// ListDirectors handles GET /directors.
func (h *Handler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	directors, err := h.engine.Catalog.Directors(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, directors, start)
}

// GetDirector handles GET /directors/{id}.
func (h *Handler) GetDirector(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	director, err := h.engine.Catalog.Director(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, director, start)
}

// CreateDirector handles POST /directors.
func (h *Handler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.DirectorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	director, err := h.engine.Catalog.CreateDirector(r.Context(), req.Name)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, director, start)
}

// UpdateDirector handles PUT /directors. The director id travels in the body.
func (h *Handler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.DirectorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if req.ID <= 0 {
		respondDomainError(w, r, social.Invalid("id", "is required"))
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	director, err := h.engine.Catalog.UpdateDirector(r.Context(), models.Director{ID: req.ID, Name: req.Name})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.ranker.Invalidate()
	respondData(w, http.StatusOK, director, start)
}

// DeleteDirector handles DELETE /directors/{id}.
func (h *Handler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := h.engine.Catalog.DeleteDirector(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.ranker.Invalidate()
	respondData(w, http.StatusOK, deleted("director", id), start)
}
