// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
)

// EventHandler processes one feed event taken off the bus.
type EventHandler func(ctx context.Context, e models.Event) error

// DecodeEvent unmarshals a bus message into a feed event.
func DecodeEvent(msg *message.Message) (models.Event, error) {
	var e models.Event
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return models.Event{}, fmt.Errorf("decode event message %s: %w", msg.UUID, err)
	}
	if !e.EventType.Valid() || !e.Operation.Valid() {
		return models.Event{}, fmt.Errorf("decode event message %s: bad type %q/%q", msg.UUID, e.EventType, e.Operation)
	}
	return e, nil
}

// Consumer feeds events from a topic to a handler. Messages are always
// acked: feed pushes are best effort and the event log stays authoritative,
// so a failed handler must not cause redelivery loops.
type Consumer struct {
	name    string
	sub     message.Subscriber
	topic   string
	handler EventHandler
}

// NewConsumer creates a consumer. name identifies it in logs and supervisor output.
func NewConsumer(name string, sub message.Subscriber, topic string, handler EventHandler) *Consumer {
	return &Consumer{name: name, sub: sub, topic: topic, handler: handler}
}

// Serve subscribes and processes messages until ctx is cancelled or the
// subscription closes. It implements suture.Service.
func (c *Consumer) Serve(ctx context.Context) error {
	messages, err := c.sub.Subscribe(ctx, c.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, err)
	}
	logging.Info().Str("consumer", c.name).Str("topic", c.topic).Msg("Event consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("subscription to %s closed", c.topic)
			}
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) String() string { return c.name }

func (c *Consumer) process(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	e, err := DecodeEvent(msg)
	if err != nil {
		logging.Warn().Err(err).Str("consumer", c.name).Msg("Dropping malformed event message")
		return
	}
	if err := c.handler(ctx, e); err != nil {
		logging.Warn().Err(err).
			Str("consumer", c.name).
			Int64("event_id", e.EventID).
			Msg("Event handler failed")
	}
}
