// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
)

// EarliestReleaseDate is the first public film screening. No film may be released before it.
var EarliestReleaseDate = models.EarliestReleaseDate

// MaxDescriptionLength bounds film descriptions, in characters.
const MaxDescriptionLength = models.MaxDescriptionLength

// Enricher fills in the genres, directors and MPA name of a film.
type Enricher struct {
	entities EntityStore
}

// NewEnricher creates an enricher reading from entities.
func NewEnricher(entities EntityStore) Enricher {
	return Enricher{entities: entities}
}

// Enrich completes f in place.
func (e Enricher) Enrich(ctx context.Context, f *models.Film) error {
	genres, err := e.entities.GenresOfFilm(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("genres of film %d: %w", f.ID, err)
	}
	directors, err := e.entities.DirectorsOfFilm(ctx, f.ID)
	if err != nil {
		return fmt.Errorf("directors of film %d: %w", f.ID, err)
	}
	if f.MPA != nil && f.MPA.ID != 0 {
		mpa, err := e.entities.MPAByID(ctx, f.MPA.ID)
		if err != nil {
			return err
		}
		f.MPA = mpa
	}

	if genres == nil {
		genres = []models.Genre{}
	}
	if directors == nil {
		directors = []models.Director{}
	}
	f.Genres = genres
	f.Directors = directors
	return nil
}

// EnrichAll completes every film in films.
func (e Enricher) EnrichAll(ctx context.Context, films []models.Film) error {
	for i := range films {
		if err := e.Enrich(ctx, &films[i]); err != nil {
			return err
		}
	}
	return nil
}

// Catalog manages users, films and reference data.
type Catalog struct {
	store    CatalogStore
	likes    LikeStore
	enricher Enricher
	logger   zerolog.Logger
}

// NewCatalog creates the catalogue service. likes supplies film like counts.
func NewCatalog(store CatalogStore, likes LikeStore) *Catalog {
	return &Catalog{
		store:    store,
		likes:    likes,
		enricher: NewEnricher(store),
		logger:   logging.WithComponent("catalog"),
	}
}

// CreateUser registers a user. A blank name defaults to the login.
func (c *Catalog) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	if err := prepareUser(&u); err != nil {
		return nil, err
	}
	u.ID = 0
	created, err := c.store.CreateUser(ctx, u)
	if err != nil {
		return nil, wrapStoreErr(err, "create user")
	}
	c.logger.Info().Int64("user_id", created.ID).Str("login", created.Login).Msg("User created")
	return created, nil
}

// UpdateUser replaces the user's fields.
func (c *Catalog) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	if err := prepareUser(&u); err != nil {
		return nil, err
	}
	updated, err := c.store.UpdateUser(ctx, u)
	if err != nil {
		return nil, wrapStoreErr(err, "update user")
	}
	return updated, nil
}

// GetUser returns one user.
func (c *Catalog) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return c.store.GetUser(ctx, id)
}

// ListUsers returns every user ordered by id.
func (c *Catalog) ListUsers(ctx context.Context) ([]models.User, error) {
	return c.store.ListUsers(ctx)
}

// DeleteUser removes a user along with their likes, friendships, reviews and events.
func (c *Catalog) DeleteUser(ctx context.Context, id int64) error {
	removed, err := c.store.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if !removed {
		return NotFound(EntityUser, id)
	}
	c.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// CreateFilm adds a film and returns it enriched.
func (c *Catalog) CreateFilm(ctx context.Context, in models.FilmInput) (*models.Film, error) {
	if err := c.checkFilm(ctx, in); err != nil {
		return nil, err
	}
	id, err := c.store.CreateFilm(ctx, in)
	if err != nil {
		return nil, wrapStoreErr(err, "create film")
	}
	c.logger.Info().Int64("film_id", id).Str("title", in.Title).Msg("Film created")
	return c.GetFilm(ctx, id)
}

// UpdateFilm replaces the film's fields and reference links.
func (c *Catalog) UpdateFilm(ctx context.Context, id int64, in models.FilmInput) (*models.Film, error) {
	if err := c.checkFilm(ctx, in); err != nil {
		return nil, err
	}
	ok, err := c.store.UpdateFilm(ctx, id, in)
	if err != nil {
		return nil, wrapStoreErr(err, "update film")
	}
	if !ok {
		return nil, NotFound(EntityFilm, id)
	}
	return c.GetFilm(ctx, id)
}

// GetFilm returns one enriched film with its like count.
func (c *Catalog) GetFilm(ctx context.Context, id int64) (*models.Film, error) {
	f, err := c.store.GetFilm(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.enricher.Enrich(ctx, f); err != nil {
		return nil, err
	}
	likers, err := c.likes.LikesByFilm(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("likes of film %d: %w", id, err)
	}
	f.Likes = len(likers)
	return f, nil
}

// ListFilms returns every enriched film ordered by id.
func (c *Catalog) ListFilms(ctx context.Context) ([]models.Film, error) {
	films, err := c.store.ListFilms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	if err := c.enricher.EnrichAll(ctx, films); err != nil {
		return nil, err
	}
	counts, err := c.likes.AllLikes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	for i := range films {
		films[i].Likes = len(counts[films[i].ID])
	}
	return films, nil
}

// DeleteFilm removes a film along with its likes, links and reviews.
func (c *Catalog) DeleteFilm(ctx context.Context, id int64) error {
	removed, err := c.store.DeleteFilm(ctx, id)
	if err != nil {
		return fmt.Errorf("delete film %d: %w", id, err)
	}
	if !removed {
		return NotFound(EntityFilm, id)
	}
	c.logger.Info().Int64("film_id", id).Msg("Film deleted")
	return nil
}

// Genres returns the seeded genres ordered by id.
func (c *Catalog) Genres(ctx context.Context) ([]models.Genre, error) {
	return c.store.ListGenres(ctx)
}

// Genre returns one genre.
func (c *Catalog) Genre(ctx context.Context, id int64) (*models.Genre, error) {
	return c.store.GetGenre(ctx, id)
}

// Ratings returns the seeded MPA ratings ordered by id.
func (c *Catalog) Ratings(ctx context.Context) ([]models.MPA, error) {
	return c.store.ListMPA(ctx)
}

// Rating returns one MPA rating.
func (c *Catalog) Rating(ctx context.Context, id int64) (*models.MPA, error) {
	return c.store.MPAByID(ctx, id)
}

// Directors returns every director ordered by id.
func (c *Catalog) Directors(ctx context.Context) ([]models.Director, error) {
	return c.store.ListDirectors(ctx)
}

// Director returns one director.
func (c *Catalog) Director(ctx context.Context, id int64) (*models.Director, error) {
	return c.store.GetDirector(ctx, id)
}

// CreateDirector adds a director.
func (c *Catalog) CreateDirector(ctx context.Context, name string) (*models.Director, error) {
	d := models.Director{Name: strings.TrimSpace(name)}
	if err := Validate(&d); err != nil {
		return nil, err
	}
	return c.store.CreateDirector(ctx, d.Name)
}

// UpdateDirector renames a director.
func (c *Catalog) UpdateDirector(ctx context.Context, d models.Director) (*models.Director, error) {
	d.Name = strings.TrimSpace(d.Name)
	if err := Validate(&d); err != nil {
		return nil, err
	}
	ok, err := c.store.UpdateDirector(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("update director %d: %w", d.ID, err)
	}
	if !ok {
		return nil, NotFound(EntityDirector, d.ID)
	}
	return &d, nil
}

// DeleteDirector removes a director and unlinks it from its films.
func (c *Catalog) DeleteDirector(ctx context.Context, id int64) error {
	ok, err := c.store.DeleteDirector(ctx, id)
	if err != nil {
		return fmt.Errorf("delete director %d: %w", id, err)
	}
	if !ok {
		return NotFound(EntityDirector, id)
	}
	return nil
}

func (c *Catalog) checkFilm(ctx context.Context, in models.FilmInput) error {
	if err := Validate(&in); err != nil {
		return err
	}
	if in.MPAID != 0 {
		if _, err := c.store.MPAByID(ctx, in.MPAID); err != nil {
			return err
		}
	}
	for _, id := range in.GenreIDs {
		if _, err := c.store.GetGenre(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range in.DirectorIDs {
		if _, err := c.store.GetDirector(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// prepareUser trims the email, checks the user's tags and defaults a blank
// name to the login.
func prepareUser(u *models.User) error {
	u.Email = strings.TrimSpace(u.Email)
	if err := Validate(u); err != nil {
		return err
	}
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
	return nil
}

func wrapStoreErr(err error, op string) error {
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
