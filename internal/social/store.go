// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"context"

	"github.com/tomtom215/cinegraph/internal/models"
)

// EntityStore is keyed read access to catalogue records.
// Get methods return a *NotFoundError when the record does not exist.
type EntityStore interface {
	UserExists(ctx context.Context, id int64) (bool, error)
	FilmExists(ctx context.Context, id int64) (bool, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetFilm(ctx context.Context, id int64) (*models.Film, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListFilms(ctx context.Context) ([]models.Film, error)
	MPAByID(ctx context.Context, id int64) (*models.MPA, error)
	GenresOfFilm(ctx context.Context, filmID int64) ([]models.Genre, error)
	DirectorsOfFilm(ctx context.Context, filmID int64) ([]models.Director, error)
	GenresByFilm(ctx context.Context) (map[int64][]models.Genre, error)
}

// CatalogStore adds the write side of the catalogue and its reference data.
type CatalogStore interface {
	EntityStore

	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdateUser(ctx context.Context, u models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)

	CreateFilm(ctx context.Context, in models.FilmInput) (int64, error)
	UpdateFilm(ctx context.Context, id int64, in models.FilmInput) (bool, error)
	DeleteFilm(ctx context.Context, id int64) (bool, error)

	ListGenres(ctx context.Context) ([]models.Genre, error)
	GetGenre(ctx context.Context, id int64) (*models.Genre, error)
	ListMPA(ctx context.Context) ([]models.MPA, error)

	ListDirectors(ctx context.Context) ([]models.Director, error)
	GetDirector(ctx context.Context, id int64) (*models.Director, error)
	CreateDirector(ctx context.Context, name string) (*models.Director, error)
	UpdateDirector(ctx context.Context, d models.Director) (bool, error)
	DeleteDirector(ctx context.Context, id int64) (bool, error)
}

// LikeStore persists (film, user) like pairs.
// AddLike must be an upsert: concurrent calls on the same pair leave one row.
// Id slices are returned in ascending order.
type LikeStore interface {
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) (bool, error)
	LikesByFilm(ctx context.Context, filmID int64) ([]int64, error)
	LikesByUser(ctx context.Context, userID int64) ([]int64, error)
	// AllLikes returns user ids keyed by film id, read as one consistent snapshot.
	AllLikes(ctx context.Context) (map[int64][]int64, error)
}

// FriendTx is the view of the friendship ledger inside one atomic unit.
type FriendTx interface {
	Edge(senderID, receiverID int64) (models.FriendshipStatus, bool, error)
	PutEdge(senderID, receiverID int64, status models.FriendshipStatus) error
	DeleteEdge(senderID, receiverID int64) (bool, error)
}

// FriendStore persists directional friendship edges.
type FriendStore interface {
	// InFriendTx runs fn atomically. If fn returns an error nothing it
	// wrote is visible to other readers.
	InFriendTx(ctx context.Context, fn func(tx FriendTx) error) error

	// OutgoingEdges returns the edges sent by userID ordered by receiver id.
	OutgoingEdges(ctx context.Context, userID int64) ([]models.Friendship, error)
}

// EventStore is the append-only feed ledger.
type EventStore interface {
	// AppendEvent assigns the event id and stores the event.
	AppendEvent(ctx context.Context, e models.Event) (models.Event, error)

	// EventsByUser returns the user's events ordered by timestamp, then event id.
	EventsByUser(ctx context.Context, userID int64) ([]models.Event, error)
}

// GradeTx is the view of one review's grades inside one atomic unit.
type GradeTx interface {
	Grade(userID int64) (models.GradeType, bool, error)
	PutGrade(userID int64, grade models.GradeType) error
	DeleteGrade(userID int64) error
	AddUseful(delta int64) error
}

// ReviewStore persists reviews and the grades left on them.
type ReviewStore interface {
	CreateReview(ctx context.Context, r models.Review) (*models.Review, error)
	UpdateReview(ctx context.Context, id int64, content string, isPositive bool) (*models.Review, error)
	DeleteReview(ctx context.Context, id int64) (bool, error)
	GetReview(ctx context.Context, id int64) (*models.Review, error)

	// ListReviews orders by useful descending, then id. filmID 0 means all films.
	ListReviews(ctx context.Context, filmID int64, limit int) ([]models.Review, error)

	// InGradeTx runs fn atomically against the grades of reviewID.
	// Returns a *NotFoundError when the review does not exist.
	InGradeTx(ctx context.Context, reviewID int64, fn func(tx GradeTx) error) error
}

// Store is everything the engine needs from persistence.
type Store interface {
	CatalogStore
	LikeStore
	FriendStore
	EventStore
	ReviewStore

	Ping(ctx context.Context) error
	Close() error
}
