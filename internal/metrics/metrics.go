// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Social Graph Metrics
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_likes_total",
			Help: "Total number of like and unlike operations",
		},
		[]string{"operation"}, // "add", "remove"
	)

	FriendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_friend_requests_total",
			Help: "Total number of friend requests by outcome",
		},
		[]string{"outcome"}, // "pending", "confirmed", "duplicate", "withdrawn"
	)

	ReviewGradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_review_grades_total",
			Help: "Total number of review grade changes",
		},
		[]string{"grade", "operation"},
	)

	// Event Log Metrics
	EventsAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_events_appended_total",
			Help: "Total number of feed events appended to the event log",
		},
		[]string{"type", "operation"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_events_published_total",
			Help: "Total number of feed events handed to the message bus",
		},
		[]string{"result"}, // "success", "error", "breaker_open"
	)

	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinegraph_outbox_pending",
			Help: "Number of events waiting in the publish outbox",
		},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinegraph_websocket_clients",
			Help: "Number of connected live feed clients",
		},
	)

	// Recommendation Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinegraph_recommendations_served_total",
			Help: "Total number of recommendation requests by result",
		},
		[]string{"result"}, // "films", "empty"
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinegraph_ranking_duration_seconds",
			Help:    "Duration of ranking queries in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{"query"}, // "popular", "common", "search", "recommend"
	)

	RankingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_ranking_cache_hits_total",
			Help: "Total number of ranking snapshot cache hits",
		},
	)

	RankingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinegraph_ranking_cache_misses_total",
			Help: "Total number of ranking snapshot cache misses",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLike counts a like ("add") or unlike ("remove").
func RecordLike(operation string) {
	LikesTotal.WithLabelValues(operation).Inc()
}

// RecordFriendRequest counts a friendship transition by outcome.
func RecordFriendRequest(outcome string) {
	FriendRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordReviewGrade counts a grade placed on or removed from a review.
func RecordReviewGrade(grade, operation string) {
	ReviewGradesTotal.WithLabelValues(grade, operation).Inc()
}

// RecordEventAppended counts an event written to the event log.
func RecordEventAppended(eventType, operation string) {
	EventsAppendedTotal.WithLabelValues(eventType, operation).Inc()
}

// RecordEventPublished counts a bus publish attempt by result.
func RecordEventPublished(result string) {
	EventsPublishedTotal.WithLabelValues(result).Inc()
}

// RecordRecommendation counts a served recommendation.
func RecordRecommendation(films int) {
	if films == 0 {
		RecommendationsServed.WithLabelValues("empty").Inc()
		return
	}
	RecommendationsServed.WithLabelValues("films").Inc()
}

// RecordRanking observes the duration of a ranking query.
func RecordRanking(query string, duration time.Duration) {
	RankingDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// RecordRankingCache counts a ranking snapshot lookup.
func RecordRankingCache(hit bool) {
	if hit {
		RankingCacheHits.Inc()
	} else {
		RankingCacheMisses.Inc()
	}
}
