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

// namedRow is the (id, name) shape shared by genres, ratings and directors.
type namedRow struct {
	ID   int64
	Name string
}

func (db *DB) getNamed(ctx context.Context, table, entity string, id int64) (_ namedRow, err error) {
	defer observe("select", table, time.Now(), &err)
	var r namedRow
	err = db.conn.QueryRowContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE id = ?`, table), id).
		Scan(&r.ID, &r.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return r, social.NotFound(entity, id)
	}
	if err != nil {
		return r, fmt.Errorf("failed to get %s %d: %w", entity, id, err)
	}
	return r, nil
}

func (db *DB) listNamed(ctx context.Context, table string) (_ []namedRow, err error) {
	defer observe("select", table, time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer closeQuietly(rows)

	var out []namedRow
	for rows.Next() {
		var r namedRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MPAByID returns one rating or a NotFoundError.
func (db *DB) MPAByID(ctx context.Context, id int64) (*models.MPA, error) {
	r, err := db.getNamed(ctx, "mpa_ratings", social.EntityMPA, id)
	if err != nil {
		return nil, err
	}
	return &models.MPA{ID: r.ID, Name: r.Name}, nil
}

// ListMPA returns all ratings ordered by id.
func (db *DB) ListMPA(ctx context.Context) ([]models.MPA, error) {
	rows, err := db.listNamed(ctx, "mpa_ratings")
	if err != nil {
		return nil, err
	}
	out := make([]models.MPA, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.MPA{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// GetGenre returns one genre or a NotFoundError.
func (db *DB) GetGenre(ctx context.Context, id int64) (*models.Genre, error) {
	r, err := db.getNamed(ctx, "genres", social.EntityGenre, id)
	if err != nil {
		return nil, err
	}
	return &models.Genre{ID: r.ID, Name: r.Name}, nil
}

// ListGenres returns all genres ordered by id.
func (db *DB) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := db.listNamed(ctx, "genres")
	if err != nil {
		return nil, err
	}
	out := make([]models.Genre, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Genre{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// GetDirector returns one director or a NotFoundError.
func (db *DB) GetDirector(ctx context.Context, id int64) (*models.Director, error) {
	r, err := db.getNamed(ctx, "directors", social.EntityDirector, id)
	if err != nil {
		return nil, err
	}
	return &models.Director{ID: r.ID, Name: r.Name}, nil
}

// ListDirectors returns all directors ordered by id.
func (db *DB) ListDirectors(ctx context.Context) ([]models.Director, error) {
	rows, err := db.listNamed(ctx, "directors")
	if err != nil {
		return nil, err
	}
	out := make([]models.Director, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Director{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (db *DB) CreateDirector(ctx context.Context, name string) (_ *models.Director, err error) {
	defer observe("insert", "directors", time.Now(), &err)
	d := models.Director{Name: name}
	if err := db.conn.QueryRowContext(ctx,
		`INSERT INTO directors (name) VALUES (?) RETURNING id`, name).Scan(&d.ID); err != nil {
		return nil, fmt.Errorf("failed to insert director: %w", err)
	}
	return &d, nil
}

func (db *DB) UpdateDirector(ctx context.Context, d models.Director) (_ bool, err error) {
	defer observe("update", "directors", time.Now(), &err)
	res, err := db.conn.ExecContext(ctx, `UPDATE directors SET name = ? WHERE id = ?`, d.Name, d.ID)
	if err != nil {
		return false, fmt.Errorf("failed to update director %d: %w", d.ID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteDirector removes the director and unlinks them from their films.
func (db *DB) DeleteDirector(ctx context.Context, id int64) (deleted bool, err error) {
	defer observe("delete", "directors", time.Now(), &err)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM directors WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete director %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if deleted = n > 0; !deleted {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM film_directors WHERE director_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unlink director %d: %w", id, err)
		}
		return nil
	})
	return deleted, err
}
