// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package memstore is a process-local implementation of social.Store.
//
// It backs unit tests and the database.driver=memory mode. All state sits
// behind one sync.RWMutex; transaction callbacks run while the write lock
// is held and stage their writes until the callback returns nil.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

type filmRow struct {
	film        models.Film
	mpaID       int64
	genreIDs    []int64
	directorIDs []int64
}

// Store holds the whole catalogue in memory.
type Store struct {
	mu sync.RWMutex

	users     map[int64]models.User
	films     map[int64]*filmRow
	genres    map[int64]models.Genre
	ratings   map[int64]models.MPA
	directors map[int64]models.Director
	likes     map[int64]map[int64]struct{} // film -> users
	edges     map[int64]map[int64]models.FriendshipStatus
	events    []models.Event
	reviews   map[int64]models.Review
	grades    map[int64]map[int64]models.GradeType // review -> user -> grade

	nextUser, nextFilm, nextDirector, nextEvent, nextReview int64
}

// New returns an empty store seeded with the reference genres and ratings.
func New() *Store {
	s := &Store{
		users:     make(map[int64]models.User),
		films:     make(map[int64]*filmRow),
		genres:    make(map[int64]models.Genre),
		ratings:   make(map[int64]models.MPA),
		directors: make(map[int64]models.Director),
		likes:     make(map[int64]map[int64]struct{}),
		edges:     make(map[int64]map[int64]models.FriendshipStatus),
		reviews:   make(map[int64]models.Review),
		grades:    make(map[int64]map[int64]models.GradeType),
	}
	for _, g := range models.SeedGenres {
		s.genres[g.ID] = g
	}
	for _, m := range models.SeedRatings {
		s.ratings[m.ID] = m
	}
	return s
}

var _ social.Store = (*Store)(nil)

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// --- users ---

func (s *Store) UserExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, social.NotFound(social.EntityUser, id)
	}
	return &u, nil
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, u models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(u); err != nil {
		return nil, err
	}
	s.nextUser++
	u.ID = s.nextUser
	s.users[u.ID] = u
	return &u, nil
}

func (s *Store) UpdateUser(_ context.Context, u models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return nil, social.NotFound(social.EntityUser, u.ID)
	}
	if err := s.checkUnique(u); err != nil {
		return nil, err
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *Store) checkUnique(u models.User) error {
	for _, other := range s.users {
		if other.ID == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) {
			return social.Duplicate("email", u.Email)
		}
		if other.Login == u.Login {
			return social.Duplicate("login", u.Login)
		}
	}
	return nil
}

// DeleteUser removes the user and everything that references them.
func (s *Store) DeleteUser(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)

	for _, users := range s.likes {
		delete(users, id)
	}
	delete(s.edges, id)
	for _, out := range s.edges {
		delete(out, id)
	}
	for rid, r := range s.reviews {
		if r.UserID == id {
			delete(s.reviews, rid)
			delete(s.grades, rid)
		}
	}
	for rid, byUser := range s.grades {
		if g, ok := byUser[id]; ok {
			delete(byUser, id)
			r := s.reviews[rid]
			r.Useful -= g.Weight()
			s.reviews[rid] = r
		}
	}
	kept := s.events[:0]
	for _, e := range s.events {
		if e.UserID != id {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return true, nil
}

// --- films ---

func (s *Store) FilmExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.films[id]
	return ok, nil
}

// GetFilm returns the base film record. Genres and directors are left to enrichment.
func (s *Store) GetFilm(_ context.Context, id int64) (*models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.films[id]
	if !ok {
		return nil, social.NotFound(social.EntityFilm, id)
	}
	f := s.baseFilm(row)
	return &f, nil
}

func (s *Store) ListFilms(context.Context) ([]models.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Film, 0, len(s.films))
	for _, row := range s.films {
		out = append(out, s.baseFilm(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) baseFilm(row *filmRow) models.Film {
	f := row.film
	f.MPA = nil
	if m, ok := s.ratings[row.mpaID]; ok {
		f.MPA = &m
	}
	f.Genres = nil
	f.Directors = nil
	return f
}

func (s *Store) CreateFilm(_ context.Context, in models.FilmInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFilm++
	id := s.nextFilm
	s.films[id] = newFilmRow(id, in)
	return id, nil
}

func (s *Store) UpdateFilm(_ context.Context, id int64, in models.FilmInput) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.films[id]; !ok {
		return false, nil
	}
	s.films[id] = newFilmRow(id, in)
	return true, nil
}

func newFilmRow(id int64, in models.FilmInput) *filmRow {
	return &filmRow{
		film: models.Film{
			ID:          id,
			Title:       in.Title,
			Description: in.Description,
			ReleaseDate: in.ReleaseDate,
			Duration:    in.Duration,
		},
		mpaID:       in.MPAID,
		genreIDs:    uniqueSorted(in.GenreIDs),
		directorIDs: uniqueSorted(in.DirectorIDs),
	}
}

// DeleteFilm removes the film, its likes and its reviews.
func (s *Store) DeleteFilm(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.films[id]; !ok {
		return false, nil
	}
	delete(s.films, id)
	delete(s.likes, id)
	for rid, r := range s.reviews {
		if r.FilmID == id {
			delete(s.reviews, rid)
			delete(s.grades, rid)
		}
	}
	return true, nil
}

func (s *Store) GenresOfFilm(_ context.Context, filmID int64) ([]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.films[filmID]
	if !ok {
		return nil, social.NotFound(social.EntityFilm, filmID)
	}
	return s.genresOf(row), nil
}

func (s *Store) genresOf(row *filmRow) []models.Genre {
	out := make([]models.Genre, 0, len(row.genreIDs))
	for _, id := range row.genreIDs {
		if g, ok := s.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *Store) DirectorsOfFilm(_ context.Context, filmID int64) ([]models.Director, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.films[filmID]
	if !ok {
		return nil, social.NotFound(social.EntityFilm, filmID)
	}
	out := make([]models.Director, 0, len(row.directorIDs))
	for _, id := range row.directorIDs {
		if d, ok := s.directors[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) GenresByFilm(context.Context) (map[int64][]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64][]models.Genre, len(s.films))
	for id, row := range s.films {
		out[id] = s.genresOf(row)
	}
	return out, nil
}

// --- reference data ---

func (s *Store) MPAByID(_ context.Context, id int64) (*models.MPA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.ratings[id]
	if !ok {
		return nil, social.NotFound(social.EntityMPA, id)
	}
	return &m, nil
}

func (s *Store) ListMPA(context.Context) ([]models.MPA, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MPA, 0, len(s.ratings))
	for _, m := range s.ratings {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetGenre(_ context.Context, id int64) (*models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.genres[id]
	if !ok {
		return nil, social.NotFound(social.EntityGenre, id)
	}
	return &g, nil
}

func (s *Store) ListGenres(context.Context) ([]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetDirector(_ context.Context, id int64) (*models.Director, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.directors[id]
	if !ok {
		return nil, social.NotFound(social.EntityDirector, id)
	}
	return &d, nil
}

func (s *Store) ListDirectors(context.Context) ([]models.Director, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Director, 0, len(s.directors))
	for _, d := range s.directors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateDirector(_ context.Context, name string) (*models.Director, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextDirector++
	d := models.Director{ID: s.nextDirector, Name: name}
	s.directors[d.ID] = d
	return &d, nil
}

func (s *Store) UpdateDirector(_ context.Context, d models.Director) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.directors[d.ID]; !ok {
		return false, nil
	}
	s.directors[d.ID] = d
	return true, nil
}

func (s *Store) DeleteDirector(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.directors[id]; !ok {
		return false, nil
	}
	delete(s.directors, id)
	for _, row := range s.films {
		row.directorIDs = without(row.directorIDs, id)
	}
	return true, nil
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func without(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
