// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// EventSink receives every event after it has been stored.
// Publish failures are logged and never fail the originating operation.
type EventSink interface {
	Publish(ctx context.Context, e models.Event) error
}

// EventLog is the append-only activity feed.
type EventLog struct {
	store  EventStore
	users  EntityStore
	sinks  []EventSink
	now    func() time.Time
	logger zerolog.Logger
}

// NewEventLog creates an event log over store. Sinks are fixed at construction.
func NewEventLog(store EventStore, users EntityStore, sinks ...EventSink) *EventLog {
	return &EventLog{
		store:  store,
		users:  users,
		sinks:  sinks,
		now:    time.Now,
		logger: logging.WithComponent("eventlog"),
	}
}

// WithClock replaces the timestamp source. Intended for tests.
func (l *EventLog) WithClock(now func() time.Time) *EventLog {
	l.now = now
	return l
}

// Record appends one event stamped with the current time and fans it out to the sinks.
func (l *EventLog) Record(ctx context.Context, userID int64, typ models.EventType, op models.Operation, entityID int64) (models.Event, error) {
	e := models.Event{
		UserID:    userID,
		Timestamp: l.now().UnixMilli(),
		EventType: typ,
		Operation: op,
		EntityID:  entityID,
	}

	stored, err := l.store.AppendEvent(ctx, e)
	if err != nil {
		return models.Event{}, fmt.Errorf("append %s/%s event: %w", typ, op, err)
	}
	metrics.RecordEventAppended(string(typ), string(op))

	for _, sink := range l.sinks {
		if err := sink.Publish(ctx, stored); err != nil {
			l.logger.Warn().Err(err).
				Int64("event_id", stored.EventID).
				Str("event_type", string(typ)).
				Msg("Failed to publish event")
		}
	}

	l.logger.Debug().
		Int64("event_id", stored.EventID).
		Int64("user_id", userID).
		Str("event_type", string(typ)).
		Str("operation", string(op)).
		Int64("entity_id", entityID).
		Msg("Event recorded")
	return stored, nil
}

// EventsOf returns every event recorded for userID ordered by timestamp, then event id.
func (l *EventLog) EventsOf(ctx context.Context, userID int64) ([]models.Event, error) {
	ok, err := l.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NotFound(EntityUser, userID)
	}

	events, err := l.store.EventsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load feed for user %d: %w", userID, err)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Before(events[j]) })
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}
