// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package eventprocessor carries feed events from the social engine to the
// message bus and back out to live consumers, using Watermill.
//
// # Publishing
//
// Publisher is registered as a social.EventSink. Each stored event is
// written to the badger outbox (package wal), published through a
// gobreaker circuit breaker, then confirmed. A failed publish leaves the
// entry queued for wal.RetryLoop, which calls back into
// Publisher.PublishEntry. The outbox entry ID is reused as the Watermill
// message UUID (and NATS message ID), so replays can be deduplicated.
//
// # Brokers
//
//   - memory: an in-process gochannel, the default
//   - nats: NATS JetStream via watermill-nats, built with -tags nats
//
// # Consuming
//
// Consumer subscribes to the events topic and hands decoded events to a
// handler; the WebSocket hub uses it to push feed updates. Consumers and
// the retry loop implement suture.Service and run under the supervisor.
package eventprocessor
