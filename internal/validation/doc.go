// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package validation wraps go-playground/validator v10.
//
// The package keeps a thread-safe singleton validator that reports fields
// by their JSON names, and registers the catalogue's own rules:
//
//   - date: YYYY-MM-DD or RFC 3339
//   - notblank: string is not empty after trimming
//   - nospace: string contains no whitespace (logins)
//   - releasedate: date not before models.EarliestReleaseDate
//   - pastdate: date not in the future (birthdays)
//   - searchby: comma-separated subset of title, description
//
// The domain rules are tagged on the models package structs and the social
// engine checks them on every write. The request types in requests.go only
// check what decoding into a model needs, such as date formats:
//
//	var req validation.FilmRequest
//	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { ... }
//	if err := social.Validate(&req); err != nil {
//	    respondDomainError(w, r, err)
//	    return
//	}
package validation
