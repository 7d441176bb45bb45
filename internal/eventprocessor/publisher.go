// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package eventprocessor

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/wal"
)

// Message metadata keys.
const (
	MetadataEventType = "event_type"
	MetadataUserID    = "user_id"
)

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	Topic   string
	Timeout time.Duration
	Breaker CircuitBreakerConfig
}

// Publisher sends stored feed events to the message bus. It is a
// social.EventSink. With an outbox attached, every event is written there
// first and confirmed once the bus accepts it, so a broker outage only
// delays delivery.
type Publisher struct {
	pub     message.Publisher
	topic   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]
	outbox  *wal.BadgerWAL
	closed  atomic.Bool
}

var (
	_ social.EventSink = (*Publisher)(nil)
	_ wal.Publisher    = (*Publisher)(nil)
)

// NewPublisher wraps pub. outbox may be nil.
func NewPublisher(pub message.Publisher, cfg PublisherConfig, outbox *wal.BadgerWAL) (*Publisher, error) {
	if pub == nil {
		return nil, fmt.Errorf("%w: nil watermill publisher", social.ErrValidation)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("%w: empty topic", social.ErrValidation)
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "event-publisher"
	}
	return &Publisher{
		pub:     pub,
		topic:   cfg.Topic,
		timeout: cfg.Timeout,
		breaker: NewCircuitBreaker(cfg.Breaker),
		outbox:  outbox,
	}, nil
}

// Publish implements social.EventSink. An error is returned only when the
// event could be neither delivered nor queued.
func (p *Publisher) Publish(ctx context.Context, e models.Event) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %d: %w", e.EventID, err)
	}

	if p.outbox == nil {
		if err := p.send(ctx, uuid.NewString(), payload); err != nil {
			metrics.RecordEventPublished("failed")
			return err
		}
		metrics.RecordEventPublished("published")
		return nil
	}

	entryID, err := p.outbox.Write(ctx, e)
	if err != nil {
		logging.Error().Err(err).Int64("event_id", e.EventID).Msg("Outbox write failed, publishing directly")
		if perr := p.send(ctx, uuid.NewString(), payload); perr != nil {
			metrics.RecordEventPublished("failed")
			return fmt.Errorf("outbox write: %w; publish: %w", err, perr)
		}
		metrics.RecordEventPublished("published")
		return nil
	}

	if err := p.send(ctx, entryID, payload); err != nil {
		if uerr := p.outbox.UpdateAttempt(ctx, entryID, err); uerr != nil {
			logging.Warn().Err(uerr).Str("entry_id", entryID).Msg("Failed to record outbox attempt")
		}
		logging.Warn().Err(err).
			Int64("event_id", e.EventID).
			Str("entry_id", entryID).
			Msg("Event publish failed, queued for replay")
		metrics.RecordEventPublished("queued")
		return nil
	}

	if err := p.outbox.Confirm(ctx, entryID); err != nil {
		logging.Warn().Err(err).Str("entry_id", entryID).Msg("Failed to confirm outbox entry")
	}
	metrics.RecordEventPublished("published")
	return nil
}

// PublishEntry redelivers an outbox entry. It implements wal.Publisher.
// The entry ID doubles as the message UUID so brokers can deduplicate.
func (p *Publisher) PublishEntry(ctx context.Context, entry *wal.Entry) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	return p.send(ctx, entry.ID, entry.Payload)
}

func (p *Publisher) send(ctx context.Context, msgID string, payload []byte) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	msg := message.NewMessage(msgID, payload)
	msg.SetContext(ctx)
	var head struct {
		UserID    int64  `json:"userId"`
		EventType string `json:"eventType"`
	}
	if json.Unmarshal(payload, &head) == nil {
		msg.Metadata.Set(MetadataEventType, head.EventType)
		msg.Metadata.Set(MetadataUserID, strconv.FormatInt(head.UserID, 10))
	}

	_, err := p.breaker.Execute(func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, p.pub.Publish(p.topic, msg)
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// BreakerState reports the circuit breaker state for health checks.
func (p *Publisher) BreakerState() string {
	return p.breaker.State().String()
}

// Close stops accepting events. The underlying bus is closed by its owner.
func (p *Publisher) Close() error {
	p.closed.Store(true)
	return nil
}
