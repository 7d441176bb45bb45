// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package social implements the user-facing state machines of the catalogue:
likes, the friendship graph, reviews with their grades, and the activity
feed every one of them writes to.

Services never own data. Each is built over the store interfaces in
store.go, implemented by internal/database (DuckDB) and internal/memstore.
Multi-step transitions such as confirming a friendship or replacing a
review grade run inside a store transaction callback so that readers never
observe a half-applied change.

# Errors

Every failure a caller can act on is one of three typed errors:

  - *NotFoundError (errors.Is ErrNotFound): unknown user, film, review or reference id
  - *ConflictError (errors.Is ErrConflict): unlike without a like, duplicate login
  - *ValidationError (errors.Is ErrValidation): bad arguments

Anything else is an infrastructure failure wrapped with context.

# Events

Likes, friendship changes, review writes and grades append to the EventLog.
Events are stored first and then handed to the configured EventSinks
(the message bus publisher). A sink failure is logged, never returned.
*/
package social
