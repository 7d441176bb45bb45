// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
	"github.com/tomtom215/cinegraph/internal/models"
)

// Message types.
const (
	MessageTypeFeedEvent = "feed_event"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
)

// Message is the JSON envelope written to clients.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks live feed subscriptions. Each client watches one user's feed
// and receives the events recorded for that user.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	events     chan models.Event
	Register   chan *Client
	Unregister chan *Client
}

// NewHub creates a hub. Call Serve to start routing.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		events:     make(chan models.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// HandleEvent queues e for delivery. Its signature matches
// eventprocessor.EventHandler so the hub can sit behind a bus consumer.
func (h *Hub) HandleEvent(ctx context.Context, e models.Event) error {
	select {
	case h.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve routes events to clients until ctx is cancelled, then closes every
// client. It implements suture.Service.
//
// Lifecycle events are drained before each delivery so a client registered
// ahead of an event always sees it.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			n := h.closeAllClients()
			logging.Info().Str("component", "websocket-hub").Int("clients_closed", n).Msg("WebSocket hub stopped")
			return ctx.Err()
		case c := <-h.Register:
			h.add(c)
			continue
		case c := <-h.Unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			continue
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case e := <-h.events:
			h.deliver(e)
		}
	}
}

func (h *Hub) String() string { return "websocket-hub" }

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketClients.Set(float64(n))
	logging.Debug().Int64("user_id", c.userID).Int("total_clients", n).Msg("WebSocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketClients.Set(float64(n))
	logging.Debug().Int64("user_id", c.userID).Int("total_clients", n).Msg("WebSocket client disconnected")
}

// deliver sends e to every client watching e.UserID in connection order.
// A client whose buffer is full is dropped; it can reconnect and reload
// the feed over HTTP.
func (h *Hub) deliver(e models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var targets []*Client
	for c := range h.clients {
		if c.userID == e.UserID {
			targets = append(targets, c)
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].id < targets[j].id })

	msg := Message{Type: MessageTypeFeedEvent, Data: e}
	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			logging.Warn().Uint64("client_id", c.id).Int64("user_id", c.userID).Msg("Dropping slow WebSocket client")
			close(c.send)
			delete(h.clients, c)
		}
	}
	metrics.WebSocketClients.Set(float64(len(h.clients)))
}

func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.WebSocketClients.Set(0)
	return n
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
