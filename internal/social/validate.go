// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social

import "github.com/tomtom215/cinegraph/internal/validation"

// Validate checks v against its validate tags and reports the first
// failing field as a *ValidationError. With several failures the message
// lists all of them.
func Validate(v interface{}) error {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	errs := verr.Errors()
	if len(errs) == 0 {
		return Invalid("request", "validation failed")
	}
	msg := errs[0].Error()
	if len(errs) > 1 {
		msg = verr.Error()
	}
	return &ValidationError{Field: errs[0].Field(), Message: msg}
}
