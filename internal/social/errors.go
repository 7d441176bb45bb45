// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. Every typed error below unwraps to one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// Entity names used in NotFoundError.
const (
	EntityUser     = "user"
	EntityFilm     = "film"
	EntityReview   = "review"
	EntityGenre    = "genre"
	EntityMPA      = "mpa"
	EntityDirector = "director"
)

// NotFoundError reports a reference to a user, film, review or reference
// entry that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound builds a NotFoundError.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// Conflict reasons.
const (
	ReasonNotLiked  = "not_liked"
	ReasonNotGraded = "not_graded"
	ReasonDuplicate = "duplicate"
)

// ConflictError reports a request that contradicts current state, such as
// removing a like that was never placed.
type ConflictError struct {
	Reason  string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NotLiked is returned by Unlike when the pair does not exist.
func NotLiked(filmID, userID int64) error {
	return &ConflictError{
		Reason:  ReasonNotLiked,
		Message: fmt.Sprintf("user %d has not liked film %d", userID, filmID),
	}
}

// NotGraded is returned when removing a review grade that does not exist.
func NotGraded(reviewID, userID int64, grade string) error {
	return &ConflictError{
		Reason:  ReasonNotGraded,
		Message: fmt.Sprintf("user %d has no %s on review %d", userID, grade, reviewID),
	}
}

// Duplicate is returned when a unique field is already taken.
func Duplicate(field, value string) error {
	return &ConflictError{
		Reason:  ReasonDuplicate,
		Message: fmt.Sprintf("%s %q is already in use", field, value),
	}
}

// ValidationError reports an invalid argument.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// isDomainError reports whether err belongs to the taxonomy above.
func isDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrValidation)
}
