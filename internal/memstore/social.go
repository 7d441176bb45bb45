// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package memstore

import (
	"context"
	"sort"

	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

// --- likes ---

func (s *Store) AddLike(_ context.Context, filmID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, ok := s.likes[filmID]
	if !ok {
		users = make(map[int64]struct{})
		s.likes[filmID] = users
	}
	users[userID] = struct{}{}
	return nil
}

func (s *Store) RemoveLike(_ context.Context, filmID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := s.likes[filmID]
	if _, ok := users[userID]; !ok {
		return false, nil
	}
	delete(users, userID)
	return true, nil
}

func (s *Store) LikesByFilm(_ context.Context, filmID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.likes[filmID]), nil
}

func (s *Store) LikesByUser(_ context.Context, userID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []int64{}
	for filmID, users := range s.likes {
		if _, ok := users[userID]; ok {
			out = append(out, filmID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) AllLikes(context.Context) (map[int64][]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64][]int64, len(s.likes))
	for filmID, users := range s.likes {
		if len(users) > 0 {
			out[filmID] = sortedKeys(users)
		}
	}
	return out, nil
}

// --- friendships ---

type edgeKey struct{ sender, receiver int64 }

// friendTx stages edge writes. A nil status pointer marks a deletion.
type friendTx struct {
	s       *Store
	pending map[edgeKey]*models.FriendshipStatus
}

func (tx *friendTx) Edge(sender, receiver int64) (models.FriendshipStatus, bool, error) {
	if st, ok := tx.pending[edgeKey{sender, receiver}]; ok {
		if st == nil {
			return "", false, nil
		}
		return *st, true, nil
	}
	st, ok := tx.s.edges[sender][receiver]
	return st, ok, nil
}

func (tx *friendTx) PutEdge(sender, receiver int64, status models.FriendshipStatus) error {
	st := status
	tx.pending[edgeKey{sender, receiver}] = &st
	return nil
}

func (tx *friendTx) DeleteEdge(sender, receiver int64) (bool, error) {
	_, existed, _ := tx.Edge(sender, receiver)
	tx.pending[edgeKey{sender, receiver}] = nil
	return existed, nil
}

// InFriendTx runs fn under the write lock and applies its writes only if fn succeeds.
func (s *Store) InFriendTx(_ context.Context, fn func(tx social.FriendTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &friendTx{s: s, pending: make(map[edgeKey]*models.FriendshipStatus)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, st := range tx.pending {
		if st == nil {
			delete(s.edges[k.sender], k.receiver)
			continue
		}
		out, ok := s.edges[k.sender]
		if !ok {
			out = make(map[int64]models.FriendshipStatus)
			s.edges[k.sender] = out
		}
		out[k.receiver] = *st
	}
	return nil
}

func (s *Store) OutgoingEdges(_ context.Context, userID int64) ([]models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Friendship, 0, len(s.edges[userID]))
	for receiver, st := range s.edges[userID] {
		out = append(out, models.Friendship{SenderID: userID, ReceiverID: receiver, Status: st})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiverID < out[j].ReceiverID })
	return out, nil
}

// --- events ---

func (s *Store) AppendEvent(_ context.Context, e models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEvent++
	e.EventID = s.nextEvent
	s.events = append(s.events, e)
	return e, nil
}

func (s *Store) EventsByUser(_ context.Context, userID int64) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Event{}
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

// --- reviews ---

func (s *Store) CreateReview(_ context.Context, r models.Review) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReview++
	r.ID = s.nextReview
	s.reviews[r.ID] = r
	return &r, nil
}

func (s *Store) UpdateReview(_ context.Context, id int64, content string, isPositive bool) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, social.NotFound(social.EntityReview, id)
	}
	r.Content = content
	r.IsPositive = isPositive
	s.reviews[id] = r
	return &r, nil
}

func (s *Store) DeleteReview(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return false, nil
	}
	delete(s.reviews, id)
	delete(s.grades, id)
	return true, nil
}

func (s *Store) GetReview(_ context.Context, id int64) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, social.NotFound(social.EntityReview, id)
	}
	return &r, nil
}

func (s *Store) ListReviews(_ context.Context, filmID int64, limit int) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Review{}
	for _, r := range s.reviews {
		if filmID == 0 || r.FilmID == filmID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Useful != out[j].Useful {
			return out[i].Useful > out[j].Useful
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// gradeTx stages grade writes for one review. A nil grade pointer marks a deletion.
type gradeTx struct {
	s        *Store
	reviewID int64
	pending  map[int64]*models.GradeType
	useful   int64
}

func (tx *gradeTx) Grade(userID int64) (models.GradeType, bool, error) {
	if g, ok := tx.pending[userID]; ok {
		if g == nil {
			return "", false, nil
		}
		return *g, true, nil
	}
	g, ok := tx.s.grades[tx.reviewID][userID]
	return g, ok, nil
}

func (tx *gradeTx) PutGrade(userID int64, grade models.GradeType) error {
	g := grade
	tx.pending[userID] = &g
	return nil
}

func (tx *gradeTx) DeleteGrade(userID int64) error {
	tx.pending[userID] = nil
	return nil
}

func (tx *gradeTx) AddUseful(delta int64) error {
	tx.useful += delta
	return nil
}

// InGradeTx runs fn under the write lock and applies its writes only if fn succeeds.
func (s *Store) InGradeTx(_ context.Context, reviewID int64, fn func(tx social.GradeTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[reviewID]
	if !ok {
		return social.NotFound(social.EntityReview, reviewID)
	}
	tx := &gradeTx{s: s, reviewID: reviewID, pending: make(map[int64]*models.GradeType)}
	if err := fn(tx); err != nil {
		return err
	}

	byUser, ok := s.grades[reviewID]
	if !ok {
		byUser = make(map[int64]models.GradeType)
		s.grades[reviewID] = byUser
	}
	for userID, g := range tx.pending {
		if g == nil {
			delete(byUser, userID)
		} else {
			byUser[userID] = *g
		}
	}
	r.Useful += tx.useful
	s.reviews[reviewID] = r
	return nil
}

func sortedKeys(m map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
