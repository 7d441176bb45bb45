// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

func boolPtr(b bool) *bool { return &b }

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	validFilm := models.FilmInput{
		Title:       "Nosferatu",
		Description: "A symphony of horror",
		ReleaseDate: time.Date(1922, 3, 4, 0, 0, 0, 0, time.UTC),
		Duration:    94,
		MPAID:       2,
		GenreIDs:    []int64{4},
	}
	film := func(mutate func(f *models.FilmInput)) *models.FilmInput {
		f := validFilm
		mutate(&f)
		return &f
	}

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
	}{
		{name: "valid user", input: &models.User{Email: "a@b.c", Login: "neo", Birthday: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{name: "user without birthday", input: &models.User{Email: "a@b.c", Login: "neo"}},
		{name: "missing email", input: &models.User{Login: "neo"}, wantField: "email", wantTag: "required"},
		{name: "email without at", input: &models.User{Email: "abc", Login: "neo"}, wantField: "email", wantTag: "contains"},
		{name: "login with space", input: &models.User{Email: "a@b.c", Login: "the one"}, wantField: "login", wantTag: "nospace"},
		{name: "future birthday", input: &models.User{
			Email: "a@b.c", Login: "neo", Birthday: time.Now().AddDate(1, 0, 0),
		}, wantField: "birthday", wantTag: "pastdate"},

		{name: "valid film", input: &validFilm},
		{name: "film on first screening day", input: film(func(f *models.FilmInput) { f.ReleaseDate = models.EarliestReleaseDate })},
		{name: "film before cinema", input: film(func(f *models.FilmInput) {
			f.ReleaseDate = models.EarliestReleaseDate.AddDate(0, 0, -1)
		}), wantField: "releaseDate", wantTag: "releasedate"},
		{name: "blank film name", input: film(func(f *models.FilmInput) { f.Title = "   " }), wantField: "name", wantTag: "notblank"},
		{name: "long description", input: film(func(f *models.FilmInput) {
			f.Description = strings.Repeat("é", models.MaxDescriptionLength+1)
		}), wantField: "description", wantTag: "max"},
		{name: "200 multibyte characters fit", input: film(func(f *models.FilmInput) {
			f.Description = strings.Repeat("é", models.MaxDescriptionLength)
		})},
		{name: "zero duration", input: film(func(f *models.FilmInput) { f.Duration = 0 }), wantField: "duration", wantTag: "gt"},
		{name: "bad genre ref", input: film(func(f *models.FilmInput) { f.GenreIDs = []int64{0} }), wantField: "genreIds[0]", wantTag: "gt"},

		{name: "blank director", input: &models.Director{Name: " "}, wantField: "name", wantTag: "notblank"},
		{name: "blank review", input: &models.Review{Content: "\t"}, wantField: "content", wantTag: "notblank"},

		{name: "valid user request", input: &UserRequest{Email: "a@b.c", Login: "neo", Birthday: "1990-01-01"}},
		{name: "garbage birthday", input: &UserRequest{Email: "a@b.c", Login: "neo", Birthday: "yesterday"}, wantField: "birthday", wantTag: "date"},
		{name: "film request without date", input: &FilmRequest{Name: "x", Duration: 1}, wantField: "releaseDate", wantTag: "required"},
		{name: "film request with RFC 3339 date", input: &FilmRequest{Name: "x", ReleaseDate: "1922-03-04T00:00:00Z"}},

		{name: "valid review request", input: &ReviewRequest{Content: "good", IsPositive: boolPtr(false), UserID: 1, FilmID: 2}},
		{name: "review missing verdict", input: &ReviewRequest{Content: "good", UserID: 1, FilmID: 2}, wantField: "isPositive", wantTag: "required"},

		{name: "popular default", input: &PopularQuery{Count: 10}},
		{name: "popular zero count", input: &PopularQuery{Count: 0}, wantField: "count", wantTag: "gt"},

		{name: "search both fields", input: &SearchQuery{Query: "crown", By: "title, description"}},
		{name: "search bad field", input: &SearchQuery{Query: "crown", By: "director"}, wantField: "by", wantTag: "searchby"},
		{name: "search blank query", input: &SearchQuery{Query: " ", By: "title"}, wantField: "query", wantTag: "notblank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected validation error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected %s/%s failure, got none", tt.wantField, tt.wantTag)
			}
			first := verr.Errors()[0]
			if first.Field() != tt.wantField || first.Tag() != tt.wantTag {
				t.Errorf("got %s/%s (%v), want %s/%s", first.Field(), first.Tag(), verr, tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestSearchFields(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in          string
		title, desc bool
		ok          bool
	}{
		{"title", true, false, true},
		{" Title , DESCRIPTION ", true, true, true},
		{"", false, false, false},
		{"title,director", false, false, false},
	}
	for _, tt := range tests {
		title, desc, err := SearchFields(tt.in)
		if (err == nil) != tt.ok || title != tt.title || desc != tt.desc {
			t.Errorf("SearchFields(%q) = %v, %v, %v", tt.in, title, desc, err)
		}
	}
}

func TestRequestConversion(t *testing.T) {
	t.Parallel()

	in := FilmRequest{
		Name:        "Metropolis",
		ReleaseDate: "1927-01-10",
		Duration:    153,
		MPA:         &IDRef{ID: 1},
		Genres:      []IDRef{{ID: 2}, {ID: 6}},
		Directors:   []IDRef{{ID: 9}},
	}.ToInput()
	if in.Title != "Metropolis" || in.MPAID != 1 || len(in.GenreIDs) != 2 || in.DirectorIDs[0] != 9 {
		t.Errorf("ToInput = %+v", in)
	}
	if !in.ReleaseDate.Equal(time.Date(1927, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReleaseDate = %v", in.ReleaseDate)
	}

	u := UserRequest{Email: "a@b", Login: "neo", Birthday: "1990-05-17T00:00:00Z"}.ToModel()
	if u.Birthday.Year() != 1990 {
		t.Errorf("RFC3339 birthday not parsed: %v", u.Birthday)
	}

	r := ReviewRequest{Content: "x", IsPositive: boolPtr(true), UserID: 1, FilmID: 2}.ToModel()
	if !r.IsPositive || r.Useful != 0 {
		t.Errorf("ToModel = %+v", r)
	}
}
