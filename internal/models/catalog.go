// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package models defines the data structures shared by the store, the social
// engine and the HTTP layer.
package models

import "time"

// EarliestReleaseDate is the first public film screening. No film may be released before it.
var EarliestReleaseDate = time.Date(1895, time.December, 28, 0, 0, 0, 0, time.UTC)

// MaxDescriptionLength bounds film descriptions, in characters. It must
// match the max tag on FilmInput.Description.
const MaxDescriptionLength = 200

// User is a registered member of the catalogue. The validate tags are
// checked by the social engine on every create and update.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email" validate:"required,contains=@"`
	Login    string    `json:"login" validate:"required,nospace"`
	Name     string    `json:"name"`
	Birthday time.Time `json:"birthday" validate:"pastdate"`
}

// Genre is seeded reference data (Comedy, Drama, ...).
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MPA is the age-appropriateness classification attached to a film.
type MPA struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Director is a person credited with directing films.
type Director struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"notblank"`
}

// Film is a catalogue entry. The base record carries the MPA id only;
// Genres, Directors and the MPA name are filled in by enrichment, and
// Likes is a derived count used for ranking (never persisted on the film row).
type Film struct {
	ID          int64      `json:"id"`
	Title       string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate time.Time  `json:"releaseDate"`
	Duration    int        `json:"duration"`
	MPA         *MPA       `json:"mpa,omitempty"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
	Likes       int        `json:"likes"`
}

// HasGenre reports whether the film is tagged with genreID.
func (f *Film) HasGenre(genreID int64) bool {
	for _, g := range f.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// FilmInput carries the writable fields of a film together with the ids of
// the reference data it points at.
type FilmInput struct {
	Title       string    `json:"name" validate:"notblank"`
	Description string    `json:"description" validate:"max=200"`
	ReleaseDate time.Time `json:"releaseDate" validate:"releasedate"`
	Duration    int       `json:"duration" validate:"gt=0"`
	MPAID       int64     `json:"mpaId" validate:"gte=0"`
	GenreIDs    []int64   `json:"genreIds" validate:"dive,gt=0"`
	DirectorIDs []int64   `json:"directorIds" validate:"dive,gt=0"`
}

// Review is a user's written opinion of a film. Useful is the running
// balance of LIKE (+1) and DISLIKE (-1) grades left by other users.
type Review struct {
	ID         int64  `json:"reviewId"`
	Content    string `json:"content" validate:"notblank"`
	IsPositive bool   `json:"isPositive"`
	UserID     int64  `json:"userId"`
	FilmID     int64  `json:"filmId"`
	Useful     int64  `json:"useful"`
}

// SeedGenres is the fixed genre list every store starts with.
var SeedGenres = []Genre{
	{ID: 1, Name: "Comedy"},
	{ID: 2, Name: "Drama"},
	{ID: 3, Name: "Animation"},
	{ID: 4, Name: "Thriller"},
	{ID: 5, Name: "Documentary"},
	{ID: 6, Name: "Action"},
}

// SeedRatings is the fixed MPA rating list every store starts with.
var SeedRatings = []MPA{
	{ID: 1, Name: "G"},
	{ID: 2, Name: "PG"},
	{ID: 3, Name: "PG-13"},
	{ID: 4, Name: "R"},
	{ID: 5, Name: "NC-17"},
}
