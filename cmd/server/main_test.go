// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package main

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/eventprocessor"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

func TestOpenStore(t *testing.T) {
	t.Parallel()

	store, err := openStore(&config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("openStore(memory): %v", err)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	if _, err := openStore(&config.DatabaseConfig{Driver: "postgres"}); err == nil {
		t.Error("openStore accepted an unknown driver")
	}
}

func TestInitEvents_MemoryBrokerDeliversEngineEvents(t *testing.T) {
	t.Parallel()

	events, err := initEvents(&config.EventsConfig{
		Broker:               config.BrokerMemory,
		Topic:                "social-events",
		OutboxReplayInterval: time.Second,
		OutboxReplayRate:     100,
		PublishTimeout:       time.Second,
		BreakerMaxFailures:   3,
		BreakerTimeout:       time.Second,
	})
	if err != nil {
		t.Fatalf("initEvents: %v", err)
	}
	defer func() {
		if err := events.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	msgs, err := events.bus.Subscriber.Subscribe(ctx, "social-events")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	// The memory bus holds Publish until the subscriber acks.
	received := make(chan models.Event, 1)
	go func() {
		for msg := range msgs {
			e, err := eventprocessor.DecodeEvent(msg)
			msg.Ack()
			if err == nil {
				received <- e
			}
		}
	}()

	store, err := openStore(&config.DatabaseConfig{Driver: config.DriverMemory})
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	engine := social.NewEngine(store, events.publisher)

	var ids []int64
	for _, login := range []string{"ann", "bob"} {
		u, err := engine.Catalog.CreateUser(ctx, models.User{
			Email:    login + "@example.com",
			Login:    login,
			Birthday: time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("CreateUser(%s): %v", login, err)
		}
		ids = append(ids, u.ID)
	}
	if _, err := engine.Friends.Friend(ctx, ids[0], ids[1]); err != nil {
		t.Fatalf("Friend: %v", err)
	}

	select {
	case got := <-received:
		if got.UserID != ids[0] || got.EntityID != ids[1] || got.EventType != models.EventFriend {
			t.Errorf("event = %+v", got)
		}
	case <-ctx.Done():
		t.Fatal("friend event never reached the bus")
	}
}

func TestInitEvents_UnknownBroker(t *testing.T) {
	t.Parallel()
	_, err := initEvents(&config.EventsConfig{
		Broker:               "kafka",
		Topic:                "social-events",
		OutboxReplayInterval: time.Second,
		OutboxReplayRate:     100,
	})
	if err == nil {
		t.Fatal("initEvents accepted an unknown broker")
	}
}
