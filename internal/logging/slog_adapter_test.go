// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_WritesThroughZerolog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf)))

	slogger.Warn("service restarted",
		"service", "http-server",
		"attempt", 3,
		"backoff", 15*time.Second,
		"error", errors.New("listener closed"),
	)

	output := buf.String()
	for _, want := range []string{
		`"level":"warn"`,
		`"message":"service restarted"`,
		`"service":"http-server"`,
		`"attempt":3`,
		`"error":"listener closed"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	slogger := slog.New(NewSlogHandlerWithLogger(zerolog.New(&buf))).
		With("supervisor", "root").
		WithGroup("event")

	slogger.Info("terminated", "name", "outbox-replay")

	output := buf.String()
	if !strings.Contains(output, `"event.supervisor":"root"`) && !strings.Contains(output, `"supervisor":"root"`) {
		t.Errorf("expected supervisor attribute in output: %s", output)
	}
	if !strings.Contains(output, `"event.name":"outbox-replay"`) {
		t.Errorf("expected grouped attribute in output: %s", output)
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))

	if handler.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("info should be disabled for a warn-level logger")
	}
	if !handler.Enabled(t.Context(), slog.LevelError) {
		t.Error("error should be enabled for a warn-level logger")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
