// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package websocket

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
)

//nolint:gochecknoinits // quiet test output
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Serve(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func testClient(hub *Hub, userID int64) *Client {
	return &Client{id: clientIDCounter.Add(1), userID: userID, hub: hub, send: make(chan Message, 4)}
}

func TestHub_RoutesByUser(t *testing.T) {
	t.Parallel()
	hub, _, _ := startHub(t)

	alice := testClient(hub, 1)
	bob := testClient(hub, 2)
	hub.Register <- alice
	hub.Register <- bob
	waitForClients(t, hub, 2)

	e := models.Event{EventID: 10, UserID: 1, EventType: models.EventLike, Operation: models.OperationAdd, EntityID: 5}
	if err := hub.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	select {
	case msg := <-alice.send:
		if msg.Type != MessageTypeFeedEvent || msg.Data.(models.Event) != e {
			t.Errorf("alice got %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("alice did not receive her event")
	}
	select {
	case msg := <-bob.send:
		t.Errorf("bob received someone else's event: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	t.Parallel()
	hub, _, _ := startHub(t)

	slow := testClient(hub, 7)
	hub.Register <- slow
	waitForClients(t, hub, 1)

	for i := int64(1); i <= int64(cap(slow.send))+1; i++ {
		_ = hub.HandleEvent(context.Background(), models.Event{EventID: i, UserID: 7})
	}
	waitForClients(t, hub, 0)
}

func TestHub_UnregisterAndShutdown(t *testing.T) {
	t.Parallel()
	hub, cancel, done := startHub(t)

	a := testClient(hub, 1)
	b := testClient(hub, 1)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	hub.Unregister <- a
	waitForClients(t, hub, 1)
	if _, ok := <-a.send; ok {
		t.Error("unregistered client's channel still open")
	}
	// Unregistering twice is harmless.
	hub.Unregister <- a

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if _, ok := <-b.send; ok {
		t.Error("client channel left open after shutdown")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount after shutdown = %d", hub.ClientCount())
	}
}

func TestServeFeed_EndToEnd(t *testing.T) {
	t.Parallel()
	hub, _, _ := startHub(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.URL.Query().Get("user"), 10, 64)
		hub.ServeFeed(w, r, id)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=4"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	waitForClients(t, hub, 1)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var pong Message
	if err := conn.ReadJSON(&pong); err != nil || pong.Type != MessageTypePong {
		t.Fatalf("pong = %+v, %v", pong, err)
	}

	want := models.Event{EventID: 3, UserID: 4, Timestamp: 99, EventType: models.EventFriend, Operation: models.OperationAdd, EntityID: 8}
	_ = hub.HandleEvent(context.Background(), want)

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var got struct {
		Type string       `json:"type"`
		Data models.Event `json:"data"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	if got.Type != MessageTypeFeedEvent || got.Data != want {
		t.Errorf("received %+v, want %+v", got, want)
	}

	_ = conn.Close()
	waitForClients(t, hub, 0)
}
