// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package validation

import "github.com/tomtom215/cinegraph/internal/models"

// IDRef is the {"id": n} shape used to reference MPA, genres and directors.
type IDRef struct {
	ID int64 `json:"id"`
}

// Request bodies only check what the conversion to a model needs. The
// domain rules are tagged on the models and enforced by the engine.

// UserRequest is the body of user create and update calls.
type UserRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	Birthday string `json:"birthday" validate:"omitempty,date"`
}

// ToModel converts a validated request into a user.
func (r UserRequest) ToModel() models.User {
	u := models.User{ID: r.ID, Email: r.Email, Login: r.Login, Name: r.Name}
	if r.Birthday != "" {
		u.Birthday, _ = ParseDate(r.Birthday)
	}
	return u
}

// FilmRequest is the body of film create and update calls.
type FilmRequest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ReleaseDate string  `json:"releaseDate" validate:"required,date"`
	Duration    int     `json:"duration"`
	MPA         *IDRef  `json:"mpa"`
	Genres      []IDRef `json:"genres"`
	Directors   []IDRef `json:"directors"`
}

// ToInput converts a validated request into the writable film fields.
func (r FilmRequest) ToInput() models.FilmInput {
	in := models.FilmInput{
		Title:       r.Name,
		Description: r.Description,
		Duration:    r.Duration,
	}
	in.ReleaseDate, _ = ParseDate(r.ReleaseDate)
	if r.MPA != nil {
		in.MPAID = r.MPA.ID
	}
	for _, g := range r.Genres {
		in.GenreIDs = append(in.GenreIDs, g.ID)
	}
	for _, d := range r.Directors {
		in.DirectorIDs = append(in.DirectorIDs, d.ID)
	}
	return in
}

// DirectorRequest is the body of director create and update calls.
type DirectorRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ReviewRequest is the body of review create and update calls.
type ReviewRequest struct {
	ReviewID   int64  `json:"reviewId"`
	Content    string `json:"content"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
	UserID     int64  `json:"userId" validate:"gt=0"`
	FilmID     int64  `json:"filmId" validate:"gt=0"`
}

// ToModel converts a validated request into a review.
func (r ReviewRequest) ToModel() models.Review {
	rv := models.Review{
		ID:      r.ReviewID,
		Content: r.Content,
		UserID:  r.UserID,
		FilmID:  r.FilmID,
	}
	if r.IsPositive != nil {
		rv.IsPositive = *r.IsPositive
	}
	return rv
}

// PopularQuery holds the query parameters of the popular films listing.
// GenreID and Year of 0 mean "no filter".
type PopularQuery struct {
	Count   int   `json:"count" validate:"gt=0"`
	GenreID int64 `json:"genreId" validate:"gte=0"`
	Year    int   `json:"year" validate:"gte=0,lte=9999"`
}

// SearchQuery holds the query parameters of film search.
type SearchQuery struct {
	Query string `json:"query" validate:"notblank"`
	By    string `json:"by" validate:"searchby"`
}

// ReviewListQuery holds the query parameters of the review listing.
type ReviewListQuery struct {
	FilmID int64 `json:"filmId" validate:"gte=0"`
	Count  int   `json:"count" validate:"gt=0"`
}
