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

const userColumns = `id, email, login, name, birthday`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var birthday sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &birthday); err != nil {
		return u, err
	}
	if birthday.Valid {
		u.Birthday = birthday.Time
	}
	return u, nil
}

// nullDate stores the zero time as NULL.
func nullDate(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// UserExists reports whether a user row exists.
func (db *DB) UserExists(ctx context.Context, id int64) (exists bool, err error) {
	defer observe("select", "users", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// GetUser returns one user or a NotFoundError.
func (db *DB) GetUser(ctx context.Context, id int64) (_ *models.User, err error) {
	defer observe("select", "users", time.Now(), &err)
	u, err := scanUser(db.conn.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, social.NotFound(social.EntityUser, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) (_ []models.User, err error) {
	defer observe("select", "users", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer closeQuietly(rows)

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser inserts a user and returns it with its new id.
func (db *DB) CreateUser(ctx context.Context, u models.User) (_ *models.User, err error) {
	defer observe("insert", "users", time.Now(), &err)
	db.userMu.Lock()
	defer db.userMu.Unlock()

	if err := db.checkUserUnique(ctx, u); err != nil {
		return nil, err
	}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO users (email, login, name, birthday) VALUES (?, ?, ?, ?) RETURNING id`,
		u.Email, u.Login, u.Name, nullDate(u.Birthday)).Scan(&u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &u, nil
}

// UpdateUser overwrites a user's fields.
func (db *DB) UpdateUser(ctx context.Context, u models.User) (_ *models.User, err error) {
	defer observe("update", "users", time.Now(), &err)
	db.userMu.Lock()
	defer db.userMu.Unlock()

	if err := db.checkUserUnique(ctx, u); err != nil {
		return nil, err
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET email = ?, login = ?, name = ?, birthday = ? WHERE id = ?`,
		u.Email, u.Login, u.Name, nullDate(u.Birthday), u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, social.NotFound(social.EntityUser, u.ID)
	}
	return &u, nil
}

// checkUserUnique rejects an email (case-insensitive) or login held by another user.
func (db *DB) checkUserUnique(ctx context.Context, u models.User) error {
	var field string
	err := db.conn.QueryRowContext(ctx, `
		SELECT CASE WHEN lower(email) = lower(?) THEN 'email' ELSE 'login' END
		FROM users
		WHERE id <> ? AND (lower(email) = lower(?) OR login = ?)
		ORDER BY id
		LIMIT 1`, u.Email, u.ID, u.Email, u.Login).Scan(&field)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check user uniqueness: %w", err)
	case field == "email":
		return social.Duplicate("email", u.Email)
	default:
		return social.Duplicate("login", u.Login)
	}
}

// DeleteUser removes the user and every row that references them. Grades
// the user left on other reviews are backed out of those reviews' useful score.
func (db *DB) DeleteUser(ctx context.Context, id int64) (deleted bool, err error) {
	defer observe("delete", "users", time.Now(), &err)
	db.userMu.Lock()
	defer db.userMu.Unlock()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if deleted = n > 0; !deleted {
			return nil
		}

		cascade := []struct {
			query string
			args  []interface{}
		}{
			{`DELETE FROM likes WHERE user_id = ?`, []interface{}{id}},
			{`DELETE FROM friendships WHERE sender_id = ? OR receiver_id = ?`, []interface{}{id, id}},
			{`DELETE FROM review_grades WHERE review_id IN (SELECT id FROM reviews WHERE user_id = ?)`, []interface{}{id}},
			{`DELETE FROM reviews WHERE user_id = ?`, []interface{}{id}},
			{`UPDATE reviews SET useful = useful - g.weight
				FROM (SELECT review_id, CASE WHEN grade = 'LIKE' THEN 1 ELSE -1 END AS weight
				      FROM review_grades WHERE user_id = ?) g
				WHERE reviews.id = g.review_id`, []interface{}{id}},
			{`DELETE FROM review_grades WHERE user_id = ?`, []interface{}{id}},
			{`DELETE FROM feed_events WHERE user_id = ?`, []interface{}{id}},
		}
		for _, c := range cascade {
			if _, err := tx.ExecContext(ctx, c.query, c.args...); err != nil {
				return fmt.Errorf("failed to cascade user delete: %w", err)
			}
		}
		return nil
	})
	return deleted, err
}
