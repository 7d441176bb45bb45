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

const reviewColumns = `id, content, is_positive, user_id, film_id, useful`

func scanReview(row rowScanner) (models.Review, error) {
	var r models.Review
	err := row.Scan(&r.ID, &r.Content, &r.IsPositive, &r.UserID, &r.FilmID, &r.Useful)
	return r, err
}

func (db *DB) CreateReview(ctx context.Context, r models.Review) (_ *models.Review, err error) {
	defer observe("insert", "reviews", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx, `
		INSERT INTO reviews (content, is_positive, user_id, film_id, useful)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		r.Content, r.IsPositive, r.UserID, r.FilmID, r.Useful).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert review: %w", err)
	}
	return &r, nil
}

// UpdateReview changes the text and verdict. Author, film and useful are kept.
func (db *DB) UpdateReview(ctx context.Context, id int64, content string, isPositive bool) (_ *models.Review, err error) {
	defer observe("update", "reviews", time.Now(), &err)
	r, err := scanReview(db.conn.QueryRowContext(ctx, `
		UPDATE reviews SET content = ?, is_positive = ? WHERE id = ?
		RETURNING `+reviewColumns, content, isPositive, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, social.NotFound(social.EntityReview, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review %d: %w", id, err)
	}
	return &r, nil
}

// DeleteReview removes the review and its grades.
func (db *DB) DeleteReview(ctx context.Context, id int64) (deleted bool, err error) {
	defer observe("delete", "reviews", time.Now(), &err)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete review %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if deleted = n > 0; !deleted {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_grades WHERE review_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete grades of review %d: %w", id, err)
		}
		return nil
	})
	return deleted, err
}

func (db *DB) GetReview(ctx context.Context, id int64) (_ *models.Review, err error) {
	defer observe("select", "reviews", time.Now(), &err)
	r, err := scanReview(db.conn.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, social.NotFound(social.EntityReview, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return &r, nil
}

// ListReviews orders by useful descending, then id. filmID 0 means all films.
func (db *DB) ListReviews(ctx context.Context, filmID int64, limit int) (_ []models.Review, err error) {
	defer observe("select", "reviews", time.Now(), &err)
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	var args []interface{}
	if filmID != 0 {
		query += ` WHERE film_id = ?`
		args = append(args, filmID)
	}
	query += ` ORDER BY useful DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer closeQuietly(rows)

	reviews := []models.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// gradeTx adapts a SQL transaction to social.GradeTx for one review.
type gradeTx struct {
	ctx      context.Context
	tx       *sql.Tx
	reviewID int64
}

func (t *gradeTx) Grade(userID int64) (models.GradeType, bool, error) {
	var raw string
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT grade FROM review_grades WHERE review_id = ? AND user_id = ?`, t.reviewID, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read grade: %w", err)
	}
	g, err := models.ParseGradeType(raw)
	if err != nil {
		return "", false, err
	}
	return g, true, nil
}

// PutGrade replaces an existing grade in place or inserts a new one.
func (t *gradeTx) PutGrade(userID int64, grade models.GradeType) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE review_grades SET grade = ? WHERE review_id = ? AND user_id = ?`,
		string(grade), t.reviewID, userID)
	if err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO review_grades (review_id, user_id, grade) VALUES (?, ?, ?)`,
		t.reviewID, userID, string(grade)); err != nil {
		return fmt.Errorf("failed to insert grade: %w", err)
	}
	return nil
}

func (t *gradeTx) DeleteGrade(userID int64) error {
	if _, err := t.tx.ExecContext(t.ctx,
		`DELETE FROM review_grades WHERE review_id = ? AND user_id = ?`, t.reviewID, userID); err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	return nil
}

func (t *gradeTx) AddUseful(delta int64) error {
	if _, err := t.tx.ExecContext(t.ctx,
		`UPDATE reviews SET useful = useful + ? WHERE id = ?`, delta, t.reviewID); err != nil {
		return fmt.Errorf("failed to adjust useful: %w", err)
	}
	return nil
}

// InGradeTx runs fn atomically against the grades of reviewID. Writers on
// the same review are serialized so useful never loses an increment.
func (db *DB) InGradeTx(ctx context.Context, reviewID int64, fn func(tx social.GradeTx) error) (err error) {
	defer observe("tx", "review_grades", time.Now(), &err)
	mu := db.reviewLock(reviewID)
	mu.Lock()
	defer mu.Unlock()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = ?)`, reviewID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check review %d: %w", reviewID, err)
		}
		if !exists {
			return social.NotFound(social.EntityReview, reviewID)
		}
		return fn(&gradeTx{ctx: ctx, tx: tx, reviewID: reviewID})
	})
}
