// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package websocket pushes feed events to browsers as they happen.

A client connects to /api/v1/users/{id}/feed/ws and follows that user's
feed. The Hub receives events from an eventprocessor.Consumer on the events
topic and forwards each one to the clients following event.UserID:

	EventLog -> Publisher -> bus -> Consumer -> Hub.HandleEvent -> Client.send

Each client runs a read pump (pings, close detection) and a write pump
(JSON frames, keepalive pings). Messages look like:

	{"type": "feed_event", "data": {"eventId": 7, "userId": 1, ...}}

A client sending {"type": "ping"} receives {"type": "pong"}.

The push is best effort. Slow clients are dropped, and the HTTP feed
endpoint remains the authoritative, ordered view.
*/
package websocket
