// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of /health.
type HealthStatus struct {
	Status        string        `json:"status"`
	Database      string        `json:"database"`
	Storage       string        `json:"storage"`
	EventBreaker  string        `json:"event_breaker,omitempty"`
	OutboxPending *int64        `json:"outbox_pending,omitempty"`
	FeedClients   *int          `json:"feed_clients,omitempty"`
	Uptime        time.Duration `json:"uptime_ns"`
}

const healthPingTimeout = 2 * time.Second

func (h *Handler) storeReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	return h.engine.Store.Ping(ctx) == nil
}

// Health handles GET /api/v1/health. The service is degraded when the
// store is unreachable or the event breaker is open; events then wait in
// the outbox.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := HealthStatus{
		Status:   "healthy",
		Database: "connected",
		Storage:  h.cfg.Database.Driver,
		Uptime:   time.Since(h.startTime),
	}
	if !h.storeReachable(r.Context()) {
		status.Status = "degraded"
		status.Database = "unreachable"
	}
	if h.publisher != nil {
		status.EventBreaker = h.publisher.BreakerState()
		if status.EventBreaker == "open" {
			status.Status = "degraded"
		}
	}
	if h.outbox != nil {
		pending := h.outbox.Stats().Pending
		status.OutboxPending = &pending
	}
	if h.hub != nil {
		n := h.hub.ClientCount()
		status.FeedClients = &n
	}
	respondData(w, http.StatusOK, status, start)
}

// HealthLive handles GET /api/v1/health/live. It only proves the process
// is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready: 503 until the store answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.storeReachable(r.Context()) {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "store is unreachable", nil)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
