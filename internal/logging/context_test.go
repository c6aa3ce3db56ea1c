// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateRequestID(t *testing.T) {
	t.Parallel()

	id1 := GenerateRequestID()
	id2 := GenerateRequestID()

	if id1 == "" {
		t.Error("expected non-empty request ID")
	}
	if id1 == id2 {
		t.Error("expected unique request IDs")
	}
	if len(id1) != 36 {
		t.Errorf("expected UUID length 36, got %d", len(id1))
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("expected empty request ID from bare context, got %q", got)
	}

	ctx = ContextWithRequestID(ctx, "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("expected 'req-123', got %q", got)
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := zerolog.New(&buf)

	ctx := ContextWithLogger(context.Background(), custom)
	logger := LoggerFromContext(ctx)

	logger.Info().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected custom logger output, got: %s", buf.String())
	}
}

func TestCtxAddsRequestID(t *testing.T) {
	var buf bytes.Buffer

	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	ctx = ContextWithRequestID(ctx, "req-abc")

	Ctx(ctx).Info().Msg("tagged")

	output := buf.String()
	if !strings.Contains(output, "req-abc") {
		t.Errorf("expected request_id in output: %s", output)
	}
	if !strings.Contains(output, "request_id") {
		t.Errorf("expected request_id field in output: %s", output)
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer

	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	Ctx(ctx).Info().Msg("untagged")

	output := buf.String()
	if strings.Contains(output, "request_id") {
		t.Errorf("did not expect request_id field in output: %s", output)
	}
}

func TestCtxErr(t *testing.T) {
	var buf bytes.Buffer

	ctx := ContextWithLogger(context.Background(), zerolog.New(&buf))
	CtxErr(ctx, errors.New("fetch failed")).Msg("sync aborted")

	output := buf.String()
	if !strings.Contains(output, "fetch failed") {
		t.Errorf("expected error in output: %s", output)
	}
	if !strings.Contains(output, "sync aborted") {
		t.Errorf("expected message in output: %s", output)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	SetLogger(zerolog.New(&buf))

	logger := WithComponent("recommender")
	logger.Info().Msg("engine ready")

	output := buf.String()
	if !strings.Contains(output, "recommender") {
		t.Errorf("expected component field in output: %s", output)
	}
}
