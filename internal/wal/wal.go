// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package wal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

var (
	// ErrWALClosed is returned for operations on a closed outbox.
	ErrWALClosed = errors.New("wal: closed")

	// ErrNilEvent is returned when Write is called without an event.
	ErrNilEvent = errors.New("wal: nil event")

	// ErrEntryNotFound is returned when an entry ID has no pending entry.
	ErrEntryNotFound = errors.New("wal: entry not found")

	// ErrEmptyEntryID is returned when an entry ID is blank.
	ErrEmptyEntryID = errors.New("wal: empty entry id")
)

const prefixPending = "pending:"

// Entry is one undelivered event.
type Entry struct {
	ID            string          `json:"id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt time.Time       `json:"last_attempt_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
}

// UnmarshalPayload decodes the stored event into v.
func (e *Entry) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Stats is a snapshot of outbox counters.
type Stats struct {
	Pending      int64
	TotalWrites  int64
	TotalConfirm int64
	TotalRetries int64
	TotalDropped int64
	LSMSize      int64
	VLogSize     int64
}

// BadgerWAL is a transactional outbox on BadgerDB. Entries live under
// "pending:<uuidv7>" until confirmed, so key order is write order.
type BadgerWAL struct {
	db     *badger.DB
	cfg    Config
	closed atomic.Bool

	pending      atomic.Int64
	totalWrites  atomic.Int64
	totalConfirm atomic.Int64
	totalRetries atomic.Int64
	totalDropped atomic.Int64
}

// Open opens (or creates) the outbox and counts entries left by a previous run.
func Open(cfg Config) (*BadgerWAL, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("wal: open badger: %w", err)
	}

	w := &BadgerWAL{db: db, cfg: cfg}
	n, err := w.countPending()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	w.pending.Store(n)
	metrics.OutboxPending.Set(float64(n))

	if n > 0 {
		logging.Info().Int64("pending", n).Str("path", cfg.Path).Msg("Outbox has undelivered events from a previous run")
	}
	return w, nil
}

// Write persists event and returns the entry ID to confirm once delivered.
func (w *BadgerWAL) Write(ctx context.Context, event interface{}) (string, error) {
	if w.closed.Load() {
		return "", ErrWALClosed
	}
	if event == nil {
		return "", ErrNilEvent
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("wal: marshal event: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("wal: entry id: %w", err)
	}

	entry := Entry{ID: id.String(), Payload: payload, CreatedAt: time.Now().UTC()}
	if err := w.put(&entry); err != nil {
		return "", err
	}

	w.totalWrites.Add(1)
	metrics.OutboxPending.Set(float64(w.pending.Add(1)))
	return entry.ID, nil
}

// Confirm removes a delivered entry.
func (w *BadgerWAL) Confirm(ctx context.Context, entryID string) error {
	if err := w.deletePending(ctx, entryID); err != nil {
		return err
	}
	w.totalConfirm.Add(1)
	return nil
}

// Drop removes an entry that will never be delivered.
func (w *BadgerWAL) Drop(ctx context.Context, entryID string) error {
	if err := w.deletePending(ctx, entryID); err != nil {
		return err
	}
	w.totalDropped.Add(1)
	return nil
}

func (w *BadgerWAL) deletePending(ctx context.Context, entryID string) error {
	if w.closed.Load() {
		return ErrWALClosed
	}
	if entryID == "" {
		return ErrEmptyEntryID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(prefixPending + entryID)
	err := w.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("wal: delete entry %s: %w", entryID, err)
	}
	metrics.OutboxPending.Set(float64(w.pending.Add(-1)))
	return nil
}

// UpdateAttempt records a failed delivery attempt.
func (w *BadgerWAL) UpdateAttempt(ctx context.Context, entryID string, attemptErr error) error {
	if w.closed.Load() {
		return ErrWALClosed
	}
	if entryID == "" {
		return ErrEmptyEntryID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(prefixPending + entryID)
	err := w.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		var entry Entry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return fmt.Errorf("decode entry: %w", err)
		}

		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		if attemptErr != nil {
			entry.LastError = attemptErr.Error()
		}
		return w.setEntry(txn, &entry)
	})
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("wal: update attempt %s: %w", entryID, err)
	}
	w.totalRetries.Add(1)
	return nil
}

// GetPending returns up to limit undelivered entries, oldest first.
// A limit of zero or less returns all of them.
func (w *BadgerWAL) GetPending(ctx context.Context, limit int) ([]*Entry, error) {
	if w.closed.Load() {
		return nil, ErrWALClosed
	}

	var entries []*Entry
	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixPending)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				logging.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping undecodable outbox entry")
				continue
			}
			entries = append(entries, &entry)
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("wal: list pending: %w", err)
	}
	return entries, nil
}

// Stats returns a snapshot of the outbox counters.
func (w *BadgerWAL) Stats() Stats {
	s := Stats{
		Pending:      w.pending.Load(),
		TotalWrites:  w.totalWrites.Load(),
		TotalConfirm: w.totalConfirm.Load(),
		TotalRetries: w.totalRetries.Load(),
		TotalDropped: w.totalDropped.Load(),
	}
	if !w.closed.Load() {
		s.LSMSize, s.VLogSize = w.db.Size()
	}
	return s
}

// Close flushes and closes the underlying database. It is safe to call twice.
func (w *BadgerWAL) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("wal: close: %w", err)
	}
	return nil
}

func (w *BadgerWAL) put(entry *Entry) error {
	err := w.db.Update(func(txn *badger.Txn) error {
		return w.setEntry(txn, entry)
	})
	if err != nil {
		return fmt.Errorf("wal: write entry: %w", err)
	}
	return nil
}

func (w *BadgerWAL) setEntry(txn *badger.Txn, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	e := badger.NewEntry([]byte(prefixPending+entry.ID), data)
	if w.cfg.EntryTTL > 0 {
		e = e.WithTTL(w.cfg.EntryTTL)
	}
	return txn.SetEntry(e)
}

func (w *BadgerWAL) countPending() (int64, error) {
	var n int64
	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixPending)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("wal: count pending: %w", err)
	}
	return n, nil
}
