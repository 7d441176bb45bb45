// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if got := GenerateCorrelationID(); len(got) != 8 {
		t.Errorf("GenerateCorrelationID() length = %d, want 8", len(got))
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == b {
		t.Errorf("GenerateRequestID() returned duplicate %q", a)
	}
	if len(a) != 36 {
		t.Errorf("GenerateRequestID() length = %d, want 36", len(a))
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "" {
		t.Errorf("CorrelationIDFromContext(empty) = %q, want empty", got)
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext = %q, want req-1", got)
	}
	if got := CorrelationIDFromContext(ctx); got != "corr-1" {
		t.Errorf("CorrelationIDFromContext = %q, want corr-1", got)
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "req-42")
	ctx = ContextWithCorrelationID(ctx, "abc12345")

	Ctx(ctx).Info().Msg("handled")

	output := buf.String()
	for _, want := range []string{`"request_id":"req-42"`, `"correlation_id":"abc12345"`, "handled"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output: %s", want, output)
		}
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	l := LoggerFromContext(context.Background())
	if l.GetLevel() != current().GetLevel() {
		t.Errorf("expected global logger level %v, got %v", current().GetLevel(), l.GetLevel())
	}
}
