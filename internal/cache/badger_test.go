// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestResponseCache(t *testing.T, ttl time.Duration) *ResponseCache {
	t.Helper()

	c, err := OpenResponseCache("", ttl) // in-memory
	if err != nil {
		t.Fatalf("open response cache: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("close response cache: %v", err)
		}
	})
	return c
}

func TestResponseCacheSetGet(t *testing.T) {
	c := newTestResponseCache(t, time.Hour)
	ctx := context.Background()

	payload := []byte(`{"get":"players/topscorers","results":20}`)
	if err := c.Set(ctx, "topscorers:39:2023", payload); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.Get(ctx, "topscorers:39:2023")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("expected payload roundtrip, got %s", got)
	}
}

func TestResponseCacheMiss(t *testing.T) {
	c := newTestResponseCache(t, time.Hour)

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResponseCacheTTLExpiry(t *testing.T) {
	c := newTestResponseCache(t, 50*time.Millisecond)
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("data")); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := c.Get(ctx, "short"); err != nil {
		t.Fatalf("expected hit before expiry, got %v", err)
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestResponseCacheClear(t *testing.T) {
	c := newTestResponseCache(t, time.Hour)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("data")); err != nil {
			t.Fatalf("set %s failed: %v", key, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if _, err := c.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected %s gone after clear, got %v", key, err)
		}
	}
}

func TestResponseCacheLen(t *testing.T) {
	c := newTestResponseCache(t, time.Hour)
	ctx := context.Background()

	n, err := c.Len(ctx)
	if err != nil {
		t.Fatalf("len failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty cache, got %d", n)
	}

	if err := c.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "b", []byte("2")); err != nil {
		t.Fatal(err)
	}

	n, err = c.Len(ctx)
	if err != nil {
		t.Fatalf("len failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
}

func TestResponseCacheOverwrite(t *testing.T) {
	c := newTestResponseCache(t, time.Hour)
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "key", []byte("new")); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("expected overwritten value, got %s", got)
	}
}
