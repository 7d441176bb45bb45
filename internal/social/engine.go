// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

// Engine groups the social services built over one store. Every service
// writes to the same EventLog.
type Engine struct {
	Store   Store
	Catalog *Catalog
	Likes   *LikeIndex
	Friends *FriendshipGraph
	Events  *EventLog
	Reviews *Reviews
}

// NewEngine wires the services over store. Events are fanned out to sinks
// after they are stored.
func NewEngine(store Store, sinks ...EventSink) *Engine {
	events := NewEventLog(store, store, sinks...)
	return &Engine{
		Store:   store,
		Catalog: NewCatalog(store, store),
		Likes:   NewLikeIndex(store, store, events),
		Friends: NewFriendshipGraph(store, store, events),
		Events:  events,
		Reviews: NewReviews(store, store, events),
	}
}
