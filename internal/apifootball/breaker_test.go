// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package apifootball

import (
	"context"
	"errors"
	"testing"

	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

// failingAPI fails every upstream call and counts how many reach it.
type failingAPI struct {
	*MockClient
	calls int
}

func (f *failingAPI) Status(_ context.Context) (*apifootball.StatusResponse, error) {
	f.calls++
	return nil, ErrUpstreamStatus
}

func (f *failingAPI) TopScorers(_ context.Context, _, _ int) (*apifootball.PlayersResponse, error) {
	f.calls++
	return nil, ErrUpstreamStatus
}

func TestBreaker_PassesThroughWhenHealthy(t *testing.T) {
	b := NewBreaker(NewMockClient())

	resp, err := b.TopScorers(context.Background(), 39, 2023)
	if err != nil {
		t.Fatalf("TopScorers failed: %v", err)
	}
	if len(resp.Response) == 0 {
		t.Error("expected players from wrapped client")
	}

	status, err := b.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status == nil {
		t.Error("expected status response")
	}
}

func TestBreaker_OpensAfterFailureThreshold(t *testing.T) {
	upstream := &failingAPI{MockClient: NewMockClient()}
	b := NewBreaker(upstream)

	// Trip threshold: at least 10 requests at >= 60% failure rate.
	var lastErr error
	for i := 0; i < 20; i++ {
		_, lastErr = b.Status(context.Background())
		if lastErr == nil {
			t.Fatal("expected failure from failing upstream")
		}
		if errors.Is(lastErr, ErrCircuitOpen) {
			break
		}
	}
	if !errors.Is(lastErr, ErrCircuitOpen) {
		t.Fatalf("breaker never opened, last error: %v", lastErr)
	}

	// Open breaker rejects without touching the upstream.
	before := upstream.calls
	if _, err := b.TopScorers(context.Background(), 39, 2023); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if upstream.calls != before {
		t.Errorf("open breaker reached upstream: %d calls -> %d", before, upstream.calls)
	}
}

func TestBreaker_ClearCacheBypassesBreaker(t *testing.T) {
	upstream := &failingAPI{MockClient: NewMockClient()}
	b := NewBreaker(upstream)

	for i := 0; i < 20; i++ {
		if _, err := b.Status(context.Background()); errors.Is(err, ErrCircuitOpen) {
			break
		}
	}

	if err := b.ClearCache(context.Background()); err != nil {
		t.Fatalf("ClearCache should bypass an open breaker: %v", err)
	}
}
