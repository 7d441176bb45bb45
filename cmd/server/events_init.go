// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"errors"
	"fmt"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/eventprocessor"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/wal"
)

// eventComponents is the delivery path of feed events: outbox, bus and
// the publisher that ties them together.
type eventComponents struct {
	bus       *eventprocessor.Bus
	outbox    *wal.BadgerWAL
	publisher *eventprocessor.Publisher
}

// Close releases everything in reverse order of creation.
func (c *eventComponents) Close() error {
	var errs []error
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}
	if c.bus != nil {
		errs = append(errs, c.bus.Close())
	}
	if c.outbox != nil {
		errs = append(errs, c.outbox.Close())
	}
	return errors.Join(errs...)
}

func initEvents(cfg *config.EventsConfig) (*eventComponents, error) {
	c := &eventComponents{}

	outbox, err := wal.Open(wal.FromEventsConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open outbox: %w", err)
	}
	c.outbox = outbox

	bus, err := eventprocessor.NewBus(cfg, eventprocessor.NewLoggerAdapter())
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connect event bus: %w", err)
	}
	c.bus = bus

	publisher, err := eventprocessor.NewPublisher(bus.Publisher, eventprocessor.PublisherConfig{
		Topic:   cfg.Topic,
		Timeout: cfg.PublishTimeout,
		Breaker: eventprocessor.CircuitBreakerConfig{
			Name:             "event-bus",
			FailureThreshold: cfg.BreakerMaxFailures,
			Timeout:          cfg.BreakerTimeout,
		},
	}, outbox)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	c.publisher = publisher

	logging.Info().
		Str("broker", cfg.Broker).
		Str("topic", cfg.Topic).
		Int64("outbox_pending", outbox.Stats().Pending).
		Msg("Event delivery initialized")
	return c, nil
}
