// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package api provides the HTTP REST API for Cinegraph.

Every endpoint lives under /api/v1 and answers with the standard
models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ...}}

Domain errors from the social engine map onto status codes in one place
(respondDomainError): *social.NotFoundError is 404, *social.ConflictError
is 409, *social.ValidationError is 400 and anything else is 500.

Routes:

	/users                          GET, POST, PUT (id in body)
	/users/{id}                     GET, DELETE
	/users/{id}/friends             GET
	/users/{id}/friends/{friendId}  PUT, DELETE
	/users/{id}/friends/common/{otherId}
	/users/{id}/recommendations     GET
	/users/{id}/feed                GET
	/users/{id}/feed/ws             WebSocket stream of new feed events
	/films                          GET, POST, PUT (id in body)
	/films/{id}                     GET, DELETE
	/films/{id}/like/{userId}       PUT, DELETE
	/films/popular                  ?count=&genreId=&year=
	/films/common                   ?userId=&friendId=
	/films/search                   ?query=&by=title,description
	/reviews                        GET ?filmId=&count=, POST, PUT
	/reviews/{id}                   GET, DELETE
	/reviews/{id}/like/{userId}     PUT, DELETE
	/reviews/{id}/dislike/{userId}  PUT, DELETE
	/genres, /genres/{id}, /mpa, /mpa/{id}
	/directors                      GET, POST, PUT
	/directors/{id}                 GET, DELETE

Operational endpoints sit outside the rate limiter: /api/v1/health,
/api/v1/health/live, /api/v1/health/ready and /metrics.

Middleware order (router.go): request ID, real IP, panic recovery, CORS,
Prometheus metrics, access log, then IP-based rate limiting.
*/
package api
