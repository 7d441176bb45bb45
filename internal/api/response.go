// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

// Error codes carried in models.APIError.Code.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL_ERROR"
	CodeRateLimit  = "RATE_LIMIT_EXCEEDED"
)

// maxBodyBytes caps request bodies; the largest payload is a film.
const maxBodyBytes = 64 << 10

// respondJSON writes response with the given status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData wraps data in a success envelope. start is when handling
// began and feeds query_time_ms.
func respondData(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondDomainError maps an engine error onto a status code. Only
// unexpected failures are logged above debug level.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *social.NotFoundError
		conflict *social.ConflictError
		invalid  *social.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		respondError(w, http.StatusBadRequest, CodeValidation, invalid.Error(),
			map[string]interface{}{"field": invalid.Field})
	case errors.Is(err, social.ErrValidation):
		respondError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
	case errors.As(err, &notFound):
		respondError(w, http.StatusNotFound, CodeNotFound, notFound.Error(),
			map[string]interface{}{"entity": notFound.Entity, "id": notFound.ID})
	case errors.Is(err, social.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.As(err, &conflict):
		respondError(w, http.StatusConflict, CodeConflict, conflict.Error(),
			map[string]interface{}{"reason": conflict.Reason})
	case errors.Is(err, social.ErrConflict):
		respondError(w, http.StatusConflict, CodeConflict, err.Error(), nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
		return
	}
	logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Request rejected")
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return social.Invalid("body", "must be at most %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return social.Invalid("body", "must not be empty")
		default:
			return social.Invalid("body", "malformed JSON: %v", err)
		}
	}
	return nil
}

// pathID parses a positive int64 chi URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, social.Invalid(name, "must be a positive integer, got %q", raw)
	}
	return id, nil
}

// pathIDs parses several path parameters, stopping at the first bad one.
func pathIDs(r *http.Request, names ...string) ([]int64, error) {
	ids := make([]int64, len(names))
	for i, name := range names {
		id, err := pathID(r, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, social.Invalid(name, "must be an integer, got %q", raw)
	}
	return v, nil
}

func queryInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, social.Invalid(name, "must be an integer, got %q", raw)
	}
	return v, nil
}

func requireQueryInt64(r *http.Request, name string) (int64, error) {
	if r.URL.Query().Get(name) == "" {
		return 0, social.Invalid(name, "is required")
	}
	v, err := queryInt64(r, name)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, social.Invalid(name, "must be positive, got %d", v)
	}
	return v, nil
}

// deleted is the body of a successful DELETE.
func deleted(kind string, id int64) map[string]interface{} {
	return map[string]interface{}{"deleted": fmt.Sprintf("%s %d", kind, id)}
}
