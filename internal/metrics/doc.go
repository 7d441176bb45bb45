// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, route, status
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, route
  - api_active_requests: In-flight requests (gauge)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table

Social Graph Metrics:
  - cinegraph_likes_total: Like and unlike operations (counter)
    Labels: operation
  - cinegraph_friend_requests_total: Friendship transitions (counter)
    Labels: outcome
  - cinegraph_review_grades_total: Review grade changes (counter)
    Labels: grade, operation

Event Metrics:
  - cinegraph_events_appended_total: Events written to the log (counter)
    Labels: type, operation
  - cinegraph_events_published_total: Bus publish attempts (counter)
    Labels: result
  - cinegraph_outbox_pending: Events waiting for delivery (gauge)
  - cinegraph_websocket_clients: Connected live feed clients (gauge)

Recommendation Metrics:
  - cinegraph_recommendations_served_total: Recommendation requests (counter)
    Labels: result
  - cinegraph_ranking_duration_seconds: Ranking query latency (histogram)
    Labels: query
  - cinegraph_ranking_cache_hits_total / cinegraph_ranking_cache_misses_total

# Usage

Record helpers wrap the collectors so call sites stay one line:

	start := time.Now()
	films, err := ranker.Popular(ctx, q)
	metrics.RecordRanking("popular", time.Since(start))

# Thread Safety

All metric operations are thread-safe and can be called concurrently.
*/
package metrics
