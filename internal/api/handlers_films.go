// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// ListFilms handles GET /films.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	films, err := h.engine.Catalog.ListFilms(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, films, start)
}

// GetFilm handles GET /films/{id}.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	film, err := h.engine.Catalog.GetFilm(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, film, start)
}

// CreateFilm handles POST /films.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.FilmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	film, err := h.engine.Catalog.CreateFilm(r.Context(), req.ToInput())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.ranker.Invalidate()
	respondData(w, http.StatusCreated, film, start)
}

// UpdateFilm handles PUT /films. The film id travels in the body.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.FilmRequest
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
	film, err := h.engine.Catalog.UpdateFilm(r.Context(), req.ID, req.ToInput())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.ranker.Invalidate()
	respondData(w, http.StatusOK, film, start)
}

// DeleteFilm handles DELETE /films/{id}.
func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := h.engine.Catalog.DeleteFilm(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.ranker.Invalidate()
	respondData(w, http.StatusOK, deleted("film", id), start)
}

// LikeFilm handles PUT /films/{id}/like/{userId}.
func (h *Handler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	h.changeLike(w, r, h.engine.Likes.Like)
}

// UnlikeFilm handles DELETE /films/{id}/like/{userId}.
func (h *Handler) UnlikeFilm(w http.ResponseWriter, r *http.Request) {
	h.changeLike(w, r, h.engine.Likes.Unlike)
}

type likeOp func(ctx context.Context, filmID, userID int64) error

func (h *Handler) changeLike(w http.ResponseWriter, r *http.Request, op likeOp) {
	start := time.Now()
	ids, err := pathIDs(r, "id", "userId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := op(r.Context(), ids[0], ids[1]); err != nil {
		respondDomainError(w, r, err)
		return
	}
	likes, err := h.engine.Likes.LikesByFilm(r.Context(), ids[0])
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"filmId": ids[0],
		"userId": ids[1],
		"likes":  len(likes),
	}, start)
}

// PopularFilms handles GET /films/popular?count=&genreId=&year=.
func (h *Handler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q, err := parsePopularQuery(r, h.cfg.Ranking.DefaultCount)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	films, err := h.ranker.Popular(r.Context(), recommend.PopularQuery{
		Count:   q.Count,
		GenreID: q.GenreID,
		Year:    q.Year,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, films, start)
}

func parsePopularQuery(r *http.Request, defaultCount int) (validation.PopularQuery, error) {
	var q validation.PopularQuery
	var err error
	if q.Count, err = queryInt(r, "count", defaultCount); err != nil {
		return q, err
	}
	if q.GenreID, err = queryInt64(r, "genreId"); err != nil {
		return q, err
	}
	if q.Year, err = queryInt(r, "year", 0); err != nil {
		return q, err
	}
	return q, social.Validate(&q)
}

// CommonFilms handles GET /films/common?userId=&friendId=.
func (h *Handler) CommonFilms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, err := requireQueryInt64(r, "userId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	friendID, err := requireQueryInt64(r, "friendId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	films, err := h.ranker.CommonFilms(r.Context(), userID, friendID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, films, start)
}

// SearchFilms handles GET /films/search?query=&by=. by defaults to title.
func (h *Handler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := validation.SearchQuery{
		Query: r.URL.Query().Get("query"),
		By:    strings.TrimSpace(r.URL.Query().Get("by")),
	}
	if q.By == "" {
		q.By = recommend.SearchByTitle
	}
	if err := social.Validate(&q); err != nil {
		respondDomainError(w, r, err)
		return
	}
	films, err := h.ranker.Search(r.Context(), q.Query, q.By)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, films, start)
}
