// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package eventprocessor

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinegraph/internal/logging"
)

// CircuitBreakerConfig configures the publish circuit breaker.
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold uint32        // consecutive failures before opening
	Timeout          time.Duration // open -> half-open delay
	MaxRequests      uint32        // trial requests allowed while half-open
}

// NewCircuitBreaker creates a breaker that opens after FailureThreshold
// consecutive failures and logs every state change.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[struct{}] {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ev := logging.Warn()
			if to == gobreaker.StateClosed {
				ev = logging.Info()
			}
			ev.Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})
}
