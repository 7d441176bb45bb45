// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

// AddLike records the pair. Repeating it leaves a single row.
func (db *DB) AddLike(ctx context.Context, filmID, userID int64) (err error) {
	defer observe("insert", "likes", time.Now(), &err)
	if _, err = db.conn.ExecContext(ctx,
		`INSERT INTO likes (film_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, filmID, userID); err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

// RemoveLike deletes the pair and reports whether it existed.
func (db *DB) RemoveLike(ctx context.Context, filmID, userID int64) (_ bool, err error) {
	defer observe("delete", "likes", time.Now(), &err)
	res, err := db.conn.ExecContext(ctx, `DELETE FROM likes WHERE film_id = ? AND user_id = ?`, filmID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (db *DB) LikesByFilm(ctx context.Context, filmID int64) (_ []int64, err error) {
	defer observe("select", "likes", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, `SELECT user_id FROM likes WHERE film_id = ? ORDER BY user_id`, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes by film: %w", err)
	}
	defer closeQuietly(rows)
	return scanIDs(rows)
}

func (db *DB) LikesByUser(ctx context.Context, userID int64) (_ []int64, err error) {
	defer observe("select", "likes", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, `SELECT film_id FROM likes WHERE user_id = ? ORDER BY film_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes by user: %w", err)
	}
	defer closeQuietly(rows)
	return scanIDs(rows)
}

// AllLikes reads the whole likes table in one statement, so the map is a
// single consistent snapshot.
func (db *DB) AllLikes(ctx context.Context) (_ map[int64][]int64, err error) {
	defer observe("select", "likes", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, `SELECT film_id, user_id FROM likes ORDER BY film_id, user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer closeQuietly(rows)

	out := make(map[int64][]int64)
	for rows.Next() {
		var filmID, userID int64
		if err := rows.Scan(&filmID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		out[filmID] = append(out[filmID], userID)
	}
	return out, rows.Err()
}

// friendTx adapts a SQL transaction to social.FriendTx.
type friendTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *friendTx) Edge(senderID, receiverID int64) (models.FriendshipStatus, bool, error) {
	var raw string
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT status FROM friendships WHERE sender_id = ? AND receiver_id = ?`, senderID, receiverID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read friendship edge: %w", err)
	}
	status, err := models.ParseFriendshipStatus(raw)
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

// PutEdge updates the edge in place when it exists, otherwise inserts it.
func (t *friendTx) PutEdge(senderID, receiverID int64, status models.FriendshipStatus) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE friendships SET status = ? WHERE sender_id = ? AND receiver_id = ?`,
		string(status), senderID, receiverID)
	if err != nil {
		return fmt.Errorf("failed to update friendship edge: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO friendships (sender_id, receiver_id, status) VALUES (?, ?, ?)`,
		senderID, receiverID, string(status)); err != nil {
		return fmt.Errorf("failed to insert friendship edge: %w", err)
	}
	return nil
}

func (t *friendTx) DeleteEdge(senderID, receiverID int64) (bool, error) {
	res, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM friendships WHERE sender_id = ? AND receiver_id = ?`, senderID, receiverID)
	if err != nil {
		return false, fmt.Errorf("failed to delete friendship edge: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// InFriendTx runs fn inside one transaction. Friendship transactions are
// serialized in-process as well, because the transition read by one
// request decides what the other must write.
func (db *DB) InFriendTx(ctx context.Context, fn func(tx social.FriendTx) error) (err error) {
	defer observe("tx", "friendships", time.Now(), &err)
	db.friendMu.Lock()
	defer db.friendMu.Unlock()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		return fn(&friendTx{ctx: ctx, tx: tx})
	})
}

// OutgoingEdges returns the edges sent by userID ordered by receiver id.
func (db *DB) OutgoingEdges(ctx context.Context, userID int64) (_ []models.Friendship, err error) {
	defer observe("select", "friendships", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT receiver_id, status FROM friendships WHERE sender_id = ? ORDER BY receiver_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer closeQuietly(rows)

	edges := []models.Friendship{}
	for rows.Next() {
		f := models.Friendship{SenderID: userID}
		var raw string
		if err := rows.Scan(&f.ReceiverID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		if f.Status, err = models.ParseFriendshipStatus(raw); err != nil {
			return nil, err
		}
		edges = append(edges, f)
	}
	return edges, rows.Err()
}

// AppendEvent stores e and returns it with its assigned id.
func (db *DB) AppendEvent(ctx context.Context, e models.Event) (_ models.Event, err error) {
	defer observe("insert", "feed_events", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO feed_events (user_id, ts, event_type, operation, entity_id)
		VALUES (?, ?, ?, ?, ?) RETURNING event_id`,
		e.UserID, e.Timestamp, string(e.EventType), string(e.Operation), e.EntityID).Scan(&e.EventID)
	if err != nil {
		return e, fmt.Errorf("failed to append event: %w", err)
	}
	return e, nil
}

// EventsByUser returns the user's events ordered by timestamp, then event id.
func (db *DB) EventsByUser(ctx context.Context, userID int64) (_ []models.Event, err error) {
	defer observe("select", "feed_events", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT event_id, user_id, ts, event_type, operation, entity_id
		FROM feed_events WHERE user_id = ?
		ORDER BY ts, event_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer closeQuietly(rows)

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var typ, op string
		if err := rows.Scan(&e.EventID, &e.UserID, &e.Timestamp, &typ, &op, &e.EntityID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if e.EventType, err = models.ParseEventType(typ); err != nil {
			return nil, err
		}
		if e.Operation, err = models.ParseOperation(op); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
