// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package wal is the feed event outbox, a small write-ahead log on BadgerDB.
//
// Events appended to the social event log are written here before they are
// published to the message bus, and removed once the bus accepts them:
//
//	Event -> WAL Write -> bus Publish -> WAL Confirm
//	                          |
//	                          +-- failure: UpdateAttempt, RetryLoop redelivers
//
// Delivery is at-least-once. A publish that succeeds just before a crash is
// replayed on the next start, so subscribers must tolerate duplicates (feed
// events carry a unique event ID).
//
// Entry keys are UUIDv7, which sort in creation order, so GetPending and the
// retry loop replay events in the order they happened.
//
// With an empty Config.Path the outbox lives in memory: it still absorbs bus
// outages but does not survive a restart. The event log in the store remains
// the source of truth for feeds either way.
package wal
