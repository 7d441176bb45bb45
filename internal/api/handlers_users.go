// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/validation"
)

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	users, err := h.engine.Catalog.ListUsers(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, users, start)
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	user, err := h.engine.Catalog.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user, start)
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	user, err := h.engine.Catalog.CreateUser(r.Context(), req.ToModel())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, user, start)
}

// UpdateUser handles PUT /users. The user id travels in the body.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req validation.UserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if req.ID <= 0 {
		respondDomainError(w, r, social.Invalid("id", "is required"))
		return
	}
	if err := social.Validate(&req); err != nil {
		respondDomainError(w, r, err)
		return
	}
	user, err := h.engine.Catalog.UpdateUser(r.Context(), req.ToModel())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user, start)
}

// DeleteUser handles DELETE /users/{id}. The user's likes go with them,
// so cached rankings are dropped as well.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := h.engine.Catalog.DeleteUser(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.ranker.Invalidate()
	respondData(w, http.StatusOK, deleted("user", id), start)
}

// AddFriend handles PUT /users/{id}/friends/{friendId}: id asks friendId
// to be friends. A pending reverse request is confirmed instead.
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ids, err := pathIDs(r, "id", "friendId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	created, err := h.engine.Friends.Friend(r.Context(), ids[0], ids[1])
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.respondFriendship(w, r, ids[0], ids[1], created, start)
}

// RemoveFriend handles DELETE /users/{id}/friends/{friendId}.
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ids, err := pathIDs(r, "id", "friendId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	removed, err := h.engine.Friends.Unfriend(r.Context(), ids[0], ids[1])
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.respondFriendship(w, r, ids[0], ids[1], removed, start)
}

func (h *Handler) respondFriendship(w http.ResponseWriter, r *http.Request, a, b int64, changed bool, start time.Time) {
	body := map[string]interface{}{
		"userId":   a,
		"friendId": b,
		"changed":  changed,
	}
	status, ok, err := h.engine.Friends.Status(r.Context(), a, b)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if ok {
		body["status"] = status
	}
	respondData(w, http.StatusOK, body, start)
}

// ListFriends handles GET /users/{id}/friends.
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	friends, err := h.engine.Friends.Friends(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, friends, start)
}

// CommonFriends handles GET /users/{id}/friends/common/{otherId}.
func (h *Handler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ids, err := pathIDs(r, "id", "otherId")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	users, err := h.engine.Friends.CommonFriendUsers(r.Context(), ids[0], ids[1])
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, users, start)
}

// Recommendations handles GET /users/{id}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	films, err := h.recommender.Recommend(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, films, start)
}

// Feed handles GET /users/{id}/feed: the user's own events, oldest first.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	events, err := h.engine.Events.EventsOf(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, events, start)
}

// FeedStream handles GET /users/{id}/feed/ws. After the upgrade the client
// receives every new event recorded for the user.
func (h *Handler) FeedStream(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "FEED_UNAVAILABLE", "live feed is not enabled", nil)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if _, err := h.engine.Catalog.GetUser(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.hub.ServeFeed(w, r, id)
}
