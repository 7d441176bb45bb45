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
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

const filmSelect = `
	SELECT f.id, f.title, f.description, f.release_date, f.duration, f.mpa_id, m.name
	FROM films f
	LEFT JOIN mpa_ratings m ON m.id = f.mpa_id`

// scanFilm reads the base film record. Genres and directors are left to enrichment.
func scanFilm(row rowScanner) (models.Film, error) {
	var f models.Film
	var mpaID sql.NullInt64
	var mpaName sql.NullString
	if err := row.Scan(&f.ID, &f.Title, &f.Description, &f.ReleaseDate, &f.Duration, &mpaID, &mpaName); err != nil {
		return f, err
	}
	if mpaID.Valid && mpaName.Valid {
		f.MPA = &models.MPA{ID: mpaID.Int64, Name: mpaName.String}
	}
	return f, nil
}

func nullID(id int64) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

// FilmExists reports whether a film row exists.
func (db *DB) FilmExists(ctx context.Context, id int64) (exists bool, err error) {
	defer observe("select", "films", time.Now(), &err)
	err = db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM films WHERE id = ?)`, id).Scan(&exists)
	return exists, err
}

// GetFilm returns the base film record or a NotFoundError.
func (db *DB) GetFilm(ctx context.Context, id int64) (_ *models.Film, err error) {
	defer observe("select", "films", time.Now(), &err)
	f, err := scanFilm(db.conn.QueryRowContext(ctx, filmSelect+` WHERE f.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, social.NotFound(social.EntityFilm, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get film %d: %w", id, err)
	}
	return &f, nil
}

// ListFilms returns all base film records ordered by id.
func (db *DB) ListFilms(ctx context.Context) (_ []models.Film, err error) {
	defer observe("select", "films", time.Now(), &err)
	return db.queryFilms(ctx, filmSelect+` ORDER BY f.id`)
}

func (db *DB) queryFilms(ctx context.Context, query string, args ...interface{}) ([]models.Film, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer closeQuietly(rows)

	films := []models.Film{}
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

// CreateFilm inserts the film and its associations in one transaction.
func (db *DB) CreateFilm(ctx context.Context, in models.FilmInput) (id int64, err error) {
	defer observe("insert", "films", time.Now(), &err)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO films (title, description, release_date, duration, mpa_id)
			VALUES (?, ?, ?, ?, ?) RETURNING id`,
			in.Title, in.Description, in.ReleaseDate, in.Duration, nullID(in.MPAID)).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert film: %w", err)
		}
		if err := syncLinks(ctx, tx, "film_genres", "genre_id", id, in.GenreIDs); err != nil {
			return err
		}
		return syncLinks(ctx, tx, "film_directors", "director_id", id, in.DirectorIDs)
	})
	return id, err
}

// UpdateFilm overwrites the film and replaces its associations. Returns
// false when the film does not exist.
func (db *DB) UpdateFilm(ctx context.Context, id int64, in models.FilmInput) (updated bool, err error) {
	defer observe("update", "films", time.Now(), &err)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE films SET title = ?, description = ?, release_date = ?, duration = ?, mpa_id = ?
			WHERE id = ?`,
			in.Title, in.Description, in.ReleaseDate, in.Duration, nullID(in.MPAID), id)
		if err != nil {
			return fmt.Errorf("failed to update film %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if updated = n > 0; !updated {
			return nil
		}
		if err := syncLinks(ctx, tx, "film_genres", "genre_id", id, in.GenreIDs); err != nil {
			return err
		}
		return syncLinks(ctx, tx, "film_directors", "director_id", id, in.DirectorIDs)
	})
	return updated, err
}

// syncLinks makes the association table hold exactly want for filmID.
// Rows already present are left untouched rather than deleted and re-inserted.
func syncLinks(ctx context.Context, tx *sql.Tx, table, column string, filmID int64, want []int64) error {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE film_id = ?`, column, table), filmID)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	have := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
		have[v] = true
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return err
	}
	closeQuietly(rows)

	wanted := make(map[int64]bool, len(want))
	for _, v := range want {
		wanted[v] = true
	}
	for v := range have {
		if wanted[v] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE film_id = ? AND %s = ?`, table, column), filmID, v); err != nil {
			return fmt.Errorf("failed to unlink %s: %w", table, err)
		}
	}
	for v := range wanted {
		if have[v] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (film_id, %s) VALUES (?, ?) ON CONFLICT DO NOTHING`, table, column), filmID, v); err != nil {
			return fmt.Errorf("failed to link %s: %w", table, err)
		}
	}
	return nil
}

// DeleteFilm removes the film with its associations, likes and reviews.
func (db *DB) DeleteFilm(ctx context.Context, id int64) (deleted bool, err error) {
	defer observe("delete", "films", time.Now(), &err)
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM films WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete film %d: %w", id, err)
		}
		n, _ := res.RowsAffected()
		if deleted = n > 0; !deleted {
			return nil
		}
		for _, q := range []string{
			`DELETE FROM film_genres WHERE film_id = ?`,
			`DELETE FROM film_directors WHERE film_id = ?`,
			`DELETE FROM likes WHERE film_id = ?`,
			`DELETE FROM review_grades WHERE review_id IN (SELECT id FROM reviews WHERE film_id = ?)`,
			`DELETE FROM reviews WHERE film_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("failed to cascade film delete: %w", err)
			}
		}
		return nil
	})
	return deleted, err
}

// GenresOfFilm returns the film's genres ordered by id.
func (db *DB) GenresOfFilm(ctx context.Context, filmID int64) (_ []models.Genre, err error) {
	defer observe("select", "film_genres", time.Now(), &err)
	if err := db.requireFilm(ctx, filmID); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT g.id, g.name FROM film_genres fg
		JOIN genres g ON g.id = fg.genre_id
		WHERE fg.film_id = ?
		ORDER BY g.id`, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query film genres: %w", err)
	}
	defer closeQuietly(rows)

	genres := []models.Genre{}
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// DirectorsOfFilm returns the film's directors ordered by id.
func (db *DB) DirectorsOfFilm(ctx context.Context, filmID int64) (_ []models.Director, err error) {
	defer observe("select", "film_directors", time.Now(), &err)
	if err := db.requireFilm(ctx, filmID); err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT d.id, d.name FROM film_directors fd
		JOIN directors d ON d.id = fd.director_id
		WHERE fd.film_id = ?
		ORDER BY d.id`, filmID)
	if err != nil {
		return nil, fmt.Errorf("failed to query film directors: %w", err)
	}
	defer closeQuietly(rows)

	directors := []models.Director{}
	for rows.Next() {
		var d models.Director
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan director: %w", err)
		}
		directors = append(directors, d)
	}
	return directors, rows.Err()
}

// GenresByFilm returns the genres of every film in one query. Films
// without genres map to an empty slice.
func (db *DB) GenresByFilm(ctx context.Context) (_ map[int64][]models.Genre, err error) {
	defer observe("select", "film_genres", time.Now(), &err)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT f.id, g.id, g.name
		FROM films f
		LEFT JOIN film_genres fg ON fg.film_id = f.id
		LEFT JOIN genres g ON g.id = fg.genre_id
		ORDER BY f.id, g.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query genres by film: %w", err)
	}
	defer closeQuietly(rows)

	out := make(map[int64][]models.Genre)
	for rows.Next() {
		var filmID int64
		var genreID sql.NullInt64
		var name sql.NullString
		if err := rows.Scan(&filmID, &genreID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan film genre: %w", err)
		}
		if _, ok := out[filmID]; !ok {
			out[filmID] = []models.Genre{}
		}
		if genreID.Valid {
			out[filmID] = append(out[filmID], models.Genre{ID: genreID.Int64, Name: name.String})
		}
	}
	return out, rows.Err()
}

// SearchFilms returns the ids of films whose title and/or description
// contain query, case-insensitively, in ascending order.
func (db *DB) SearchFilms(ctx context.Context, query string, byTitle, byDescription bool) (_ []int64, err error) {
	defer observe("select", "films", time.Now(), &err)
	var conds []string
	var args []interface{}
	if byTitle {
		conds = append(conds, `contains(lower(title), lower(?))`)
		args = append(args, query)
	}
	if byDescription {
		conds = append(conds, `contains(lower(description), lower(?))`)
		args = append(args, query)
	}
	if len(conds) == 0 {
		return []int64{}, nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM films WHERE `+strings.Join(conds, " OR ")+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search films: %w", err)
	}
	defer closeQuietly(rows)
	return scanIDs(rows)
}

func (db *DB) requireFilm(ctx context.Context, id int64) error {
	ok, err := db.FilmExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return social.NotFound(social.EntityFilm, id)
	}
	return nil
}

// scanIDs drains a single-column id result set. The caller closes rows.
func scanIDs(rows *sql.Rows) ([]int64, error) {
	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
