// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package middleware holds the HTTP middleware shared by every route:

  - RequestID: X-Request-ID propagation and correlation IDs for logging.Ctx
  - PrometheusMetrics: request count, latency and in-flight gauge per chi route
  - AccessLog: one zerolog line per request, level chosen by status

All three are plain func(http.Handler) http.Handler values for chi's r.Use.
PrometheusMetrics and AccessLog must run inside the router so the route
pattern is known when they record.
*/
package middleware
