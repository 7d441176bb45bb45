// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package wal

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// Publisher delivers one outbox entry to the message bus.
type Publisher interface {
	PublishEntry(ctx context.Context, entry *Entry) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, entry *Entry) error

// PublishEntry calls f.
func (f PublisherFunc) PublishEntry(ctx context.Context, entry *Entry) error {
	return f(ctx, entry)
}

// RetryResult summarizes one scan of the outbox.
type RetryResult struct {
	Published int
	Failed    int
	Dropped   int
	Skipped   int
}

// RetryLoop periodically redelivers pending entries. It runs one scan on
// start so entries left by a crash go out before new traffic piles up.
type RetryLoop struct {
	wal     *BadgerWAL
	pub     Publisher
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRetryLoop creates a retry loop over w.
func NewRetryLoop(w *BadgerWAL, pub Publisher) *RetryLoop {
	burst := int(w.cfg.ReplayRate)
	if burst < 1 {
		burst = 1
	}
	return &RetryLoop{
		wal:     w,
		pub:     pub,
		cfg:     w.cfg,
		limiter: rate.NewLimiter(rate.Limit(w.cfg.ReplayRate), burst),
		now:     time.Now,
	}
}

// Serve runs the loop until ctx is cancelled. It implements suture.Service.
func (r *RetryLoop) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", r.cfg.RetryInterval).Float64("rate", r.cfg.ReplayRate).Msg("Outbox retry loop started")

	r.scan(ctx)

	ticker := time.NewTicker(r.cfg.RetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Outbox retry loop stopped")
			return ctx.Err()
		case <-ticker.C:
			r.scan(ctx)
		}
	}
}

func (r *RetryLoop) String() string { return "outbox-retry" }

func (r *RetryLoop) scan(ctx context.Context) {
	res, err := r.RunOnce(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Outbox retry scan failed")
		return
	}
	if res.Published+res.Failed+res.Dropped > 0 {
		logging.Info().
			Int("published", res.Published).
			Int("failed", res.Failed).
			Int("dropped", res.Dropped).
			Int("skipped", res.Skipped).
			Msg("Outbox retry scan complete")
	}
}

// RunOnce scans the outbox a single time.
func (r *RetryLoop) RunOnce(ctx context.Context) (RetryResult, error) {
	var res RetryResult

	entries, err := r.wal.GetPending(ctx, r.cfg.BatchSize)
	if err != nil {
		return res, err
	}

	now := r.now()
	for _, entry := range entries {
		if entry.Attempts == 0 && now.Sub(entry.CreatedAt) < r.cfg.InflightGrace {
			res.Skipped++
			continue
		}

		if r.cfg.MaxRetries > 0 && entry.Attempts >= r.cfg.MaxRetries {
			if err := r.wal.Drop(ctx, entry.ID); err != nil && !errors.Is(err, ErrEntryNotFound) {
				return res, err
			}
			logging.Error().
				Str("entry_id", entry.ID).
				Int("attempts", entry.Attempts).
				Str("last_error", entry.LastError).
				Msg("Dropping undeliverable outbox entry")
			metrics.RecordEventPublished("dropped")
			res.Dropped++
			continue
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return res, err
		}

		if err := r.pub.PublishEntry(ctx, entry); err != nil {
			res.Failed++
			metrics.RecordEventPublished("retry_failed")
			if uerr := r.wal.UpdateAttempt(ctx, entry.ID, err); uerr != nil && !errors.Is(uerr, ErrEntryNotFound) {
				logging.Warn().Err(uerr).Str("entry_id", entry.ID).Msg("Failed to record outbox attempt")
			}
			continue
		}

		// Confirmed concurrently by the inline publisher is fine.
		if err := r.wal.Confirm(ctx, entry.ID); err != nil && !errors.Is(err, ErrEntryNotFound) {
			logging.Warn().Err(err).Str("entry_id", entry.ID).Msg("Failed to confirm replayed outbox entry")
		}
		metrics.RecordEventPublished("replayed")
		res.Published++
	}
	return res, nil
}
