// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package models

import (
	"fmt"
	"strings"
)

// Like is a (film, user) pair. At most one exists per pair.
type Like struct {
	FilmID int64 `json:"filmId"`
	UserID int64 `json:"userId"`
}

// FriendshipStatus is the state of one directional friendship edge.
type FriendshipStatus string

const (
	// FriendshipUnconfirmed marks a request the receiver has not reciprocated.
	FriendshipUnconfirmed FriendshipStatus = "UNCONFIRMED"
	// FriendshipConfirmed marks one half of a mutual friendship.
	FriendshipConfirmed FriendshipStatus = "CONFIRMED"
)

// Valid reports whether s is a known status.
func (s FriendshipStatus) Valid() bool {
	return s == FriendshipUnconfirmed || s == FriendshipConfirmed
}

// ParseFriendshipStatus converts a stored value into a FriendshipStatus.
func ParseFriendshipStatus(s string) (FriendshipStatus, error) {
	st := FriendshipStatus(strings.ToUpper(s))
	if !st.Valid() {
		return "", fmt.Errorf("unknown friendship status %q", s)
	}
	return st, nil
}

// Friendship is a directional edge from Sender to Receiver.
// A confirmed friendship is stored as two CONFIRMED edges, one per direction.
type Friendship struct {
	SenderID   int64            `json:"senderId"`
	ReceiverID int64            `json:"receiverId"`
	Status     FriendshipStatus `json:"status"`
}

// EventType classifies what a feed event is about.
type EventType string

const (
	EventLike    EventType = "LIKE"
	EventDislike EventType = "DISLIKE"
	EventFriend  EventType = "FRIEND"
	EventReview  EventType = "REVIEW"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventLike, EventDislike, EventFriend, EventReview:
		return true
	}
	return false
}

// ParseEventType converts a stored value into an EventType.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToUpper(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// Operation is the action recorded by a feed event.
type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
	OperationUpdate Operation = "UPDATE"
)

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	switch o {
	case OperationAdd, OperationRemove, OperationUpdate:
		return true
	}
	return false
}

// ParseOperation converts a stored value into an Operation.
func ParseOperation(s string) (Operation, error) {
	o := Operation(strings.ToUpper(s))
	if !o.Valid() {
		return "", fmt.Errorf("unknown operation %q", s)
	}
	return o, nil
}

// Event is one immutable entry of a user's activity feed.
// Feeds are ordered by Timestamp (epoch millis) and then EventID.
type Event struct {
	EventID   int64     `json:"eventId"`
	UserID    int64     `json:"userId"`
	Timestamp int64     `json:"timestamp"`
	EventType EventType `json:"eventType"`
	Operation Operation `json:"operation"`
	EntityID  int64     `json:"entityId"`
}

// Before reports whether e sorts ahead of other in feed order.
func (e Event) Before(other Event) bool {
	if e.Timestamp != other.Timestamp {
		return e.Timestamp < other.Timestamp
	}
	return e.EventID < other.EventID
}

// GradeType is a user's verdict on someone else's review.
type GradeType string

const (
	GradeLike    GradeType = "LIKE"
	GradeDislike GradeType = "DISLIKE"
)

// Valid reports whether g is a known grade.
func (g GradeType) Valid() bool {
	return g == GradeLike || g == GradeDislike
}

// ParseGradeType converts a stored or routed value into a GradeType.
func ParseGradeType(s string) (GradeType, error) {
	g := GradeType(strings.ToUpper(s))
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", s)
	}
	return g, nil
}

// Weight is the contribution of the grade to a review's useful score.
func (g GradeType) Weight() int64 {
	if g == GradeLike {
		return 1
	}
	return -1
}

// EventType maps the grade onto the feed event type it produces.
func (g GradeType) EventType() EventType {
	if g == GradeLike {
		return EventLike
	}
	return EventDislike
}

// Grade is a LIKE or DISLIKE left by a user on a review.
type Grade struct {
	UserID   int64     `json:"userId"`
	ReviewID int64     `json:"reviewId"`
	Type     GradeType `json:"grade"`
}
