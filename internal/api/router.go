// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/cinegraph/internal/middleware"
)

// Router binds handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mw),
	}
}

// SetupChi builds the HTTP handler with every route registered.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	// Monitoring is not rate limited.
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())

		// The feed stream must not pass through the compressor, which
		// would hide the Hijacker the upgrade needs.
		r.Get("/users/{id}/feed/ws", h.FeedStream)

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Put("/", h.UpdateUser)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetUser)
					r.Delete("/", h.DeleteUser)
					r.Get("/friends", h.ListFriends)
					r.Put("/friends/{friendId}", h.AddFriend)
					r.Delete("/friends/{friendId}", h.RemoveFriend)
					r.Get("/friends/common/{otherId}", h.CommonFriends)
					r.Get("/recommendations", h.Recommendations)
					r.Get("/feed", h.Feed)
				})
			})

			r.Route("/films", func(r chi.Router) {
				r.Get("/", h.ListFilms)
				r.Post("/", h.CreateFilm)
				r.Put("/", h.UpdateFilm)
				r.Get("/popular", h.PopularFilms)
				r.Get("/common", h.CommonFilms)
				r.Get("/search", h.SearchFilms)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetFilm)
					r.Delete("/", h.DeleteFilm)
					r.Put("/like/{userId}", h.LikeFilm)
					r.Delete("/like/{userId}", h.UnlikeFilm)
				})
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", h.ListReviews)
				r.Post("/", h.CreateReview)
				r.Put("/", h.UpdateReview)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetReview)
					r.Delete("/", h.DeleteReview)
					r.Put("/{grade}/{userId}", h.AddGrade)
					r.Delete("/{grade}/{userId}", h.RemoveGrade)
				})
			})

			r.Get("/genres", h.ListGenres)
			r.Get("/genres/{id}", h.GetGenre)
			r.Get("/mpa", h.ListRatings)
			r.Get("/mpa/{id}", h.GetRating)

			r.Route("/directors", func(r chi.Router) {
				r.Get("/", h.ListDirectors)
				r.Post("/", h.CreateDirector)
				r.Put("/", h.UpdateDirector)
				r.Get("/{id}", h.GetDirector)
				r.Delete("/{id}", h.DeleteDirector)
			})
		})
	})

	return r
}
