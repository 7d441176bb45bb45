// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// FriendshipGraph maintains directional friendship edges.
//
// A request from A to B stores an UNCONFIRMED edge A->B. When B requests A
// in turn, both edges become CONFIRMED. Withdrawing an edge demotes the
// reverse edge back to UNCONFIRMED.
type FriendshipGraph struct {
	store    FriendStore
	entities EntityStore
	events   *EventLog
	logger   zerolog.Logger
}

// NewFriendshipGraph creates a friendship graph.
func NewFriendshipGraph(store FriendStore, entities EntityStore, events *EventLog) *FriendshipGraph {
	return &FriendshipGraph{
		store:    store,
		entities: entities,
		events:   events,
		logger:   logging.WithComponent("friends"),
	}
}

// Friend sends a friend request from senderID to receiverID.
// Returns false without recording an event if the request already exists.
func (g *FriendshipGraph) Friend(ctx context.Context, senderID, receiverID int64) (bool, error) {
	if err := g.checkPair(ctx, senderID, receiverID); err != nil {
		return false, err
	}

	outcome := "pending"
	err := g.store.InFriendTx(ctx, func(tx FriendTx) error {
		if _, exists, err := tx.Edge(senderID, receiverID); err != nil {
			return err
		} else if exists {
			outcome = "duplicate"
			return nil
		}

		_, reverse, err := tx.Edge(receiverID, senderID)
		if err != nil {
			return err
		}
		if !reverse {
			return tx.PutEdge(senderID, receiverID, models.FriendshipUnconfirmed)
		}

		outcome = "confirmed"
		if err := tx.PutEdge(senderID, receiverID, models.FriendshipConfirmed); err != nil {
			return err
		}
		return tx.PutEdge(receiverID, senderID, models.FriendshipConfirmed)
	})
	if err != nil {
		return false, fmt.Errorf("friend request %d->%d: %w", senderID, receiverID, err)
	}
	metrics.RecordFriendRequest(outcome)

	if outcome == "duplicate" {
		return false, nil
	}
	if _, err := g.events.Record(ctx, senderID, models.EventFriend, models.OperationAdd, receiverID); err != nil {
		return true, err
	}

	g.logger.Debug().
		Int64("sender_id", senderID).
		Int64("receiver_id", receiverID).
		Str("outcome", outcome).
		Msg("Friend request stored")
	return true, nil
}

// Unfriend withdraws the edge senderID->receiverID and reports whether one existed.
// A FRIEND/REMOVE event is recorded either way.
func (g *FriendshipGraph) Unfriend(ctx context.Context, senderID, receiverID int64) (bool, error) {
	if err := g.checkPair(ctx, senderID, receiverID); err != nil {
		return false, err
	}

	var removed bool
	err := g.store.InFriendTx(ctx, func(tx FriendTx) error {
		var err error
		if removed, err = tx.DeleteEdge(senderID, receiverID); err != nil {
			return err
		}
		_, reverse, err := tx.Edge(receiverID, senderID)
		if err != nil || !reverse {
			return err
		}
		return tx.PutEdge(receiverID, senderID, models.FriendshipUnconfirmed)
	})
	if err != nil {
		return false, fmt.Errorf("withdraw friendship %d->%d: %w", senderID, receiverID, err)
	}
	if removed {
		metrics.RecordFriendRequest("withdrawn")
	}

	if _, err := g.events.Record(ctx, senderID, models.EventFriend, models.OperationRemove, receiverID); err != nil {
		return removed, err
	}
	return removed, nil
}

// FriendsOf returns the receivers of every outgoing edge of userID,
// confirmed or not, ordered by id.
func (g *FriendshipGraph) FriendsOf(ctx context.Context, userID int64) ([]int64, error) {
	if err := requireUser(ctx, g.entities, userID); err != nil {
		return nil, err
	}
	return g.friendIDs(ctx, userID)
}

// Friends is FriendsOf resolved to user records.
func (g *FriendshipGraph) Friends(ctx context.Context, userID int64) ([]models.User, error) {
	ids, err := g.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return g.resolveUsers(ctx, ids)
}

// CommonFriends returns the ids present in both FriendsOf(a) and FriendsOf(b), ordered by id.
func (g *FriendshipGraph) CommonFriends(ctx context.Context, a, b int64) ([]int64, error) {
	left, err := g.FriendsOf(ctx, a)
	if err != nil {
		return nil, err
	}
	right, err := g.FriendsOf(ctx, b)
	if err != nil {
		return nil, err
	}
	return intersectSorted(left, right), nil
}

// CommonFriendUsers is CommonFriends resolved to user records.
func (g *FriendshipGraph) CommonFriendUsers(ctx context.Context, a, b int64) ([]models.User, error) {
	ids, err := g.CommonFriends(ctx, a, b)
	if err != nil {
		return nil, err
	}
	return g.resolveUsers(ctx, ids)
}

// Status returns the status of the edge a->b, if one exists.
func (g *FriendshipGraph) Status(ctx context.Context, a, b int64) (models.FriendshipStatus, bool, error) {
	var (
		status models.FriendshipStatus
		ok     bool
	)
	err := g.store.InFriendTx(ctx, func(tx FriendTx) error {
		var err error
		status, ok, err = tx.Edge(a, b)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("edge status %d->%d: %w", a, b, err)
	}
	return status, ok, nil
}

func (g *FriendshipGraph) checkPair(ctx context.Context, senderID, receiverID int64) error {
	if senderID == receiverID {
		return Invalid("friendId", "user %d cannot befriend themselves", senderID)
	}
	if err := requireUser(ctx, g.entities, senderID); err != nil {
		return err
	}
	return requireUser(ctx, g.entities, receiverID)
}

func (g *FriendshipGraph) friendIDs(ctx context.Context, userID int64) ([]int64, error) {
	edges, err := g.store.OutgoingEdges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friends of user %d: %w", userID, err)
	}
	ids := make([]int64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.ReceiverID)
	}
	return ids, nil
}

func (g *FriendshipGraph) resolveUsers(ctx context.Context, ids []int64) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := g.entities.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// intersectSorted returns the values present in both ascending slices.
func intersectSorted(a, b []int64) []int64 {
	out := []int64{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
