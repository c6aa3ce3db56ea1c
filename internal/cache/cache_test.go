// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.Set("players:39:2023", []int{1, 2, 3})

	val, ok := c.Get("players:39:2023")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if ids, ok := val.([]int); !ok || len(ids) != 3 {
		t.Errorf("expected cached slice of 3, got %v", val)
	}
}

func TestCacheMiss(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	if _, ok := c.Get("absent"); ok {
		t.Error("expected cache miss")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestCacheExpiration(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.SetWithTTL("short", "value", 10*time.Millisecond)

	if _, ok := c.Get("short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expected miss after expiry")
	}
}

func TestCacheDelete(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.Set("key", "value")
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Error("expected miss after delete")
	}
}

func TestCacheClear(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after clear")
	}
	if stats := c.GetStats(); stats.TotalKeys != 0 {
		t.Errorf("expected 0 keys after clear, got %d", stats.TotalKeys)
	}
}

func TestCacheHitRate(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.Set("key", "value")

	c.Get("key")    // hit
	c.Get("absent") // miss

	if rate := c.HitRate(); rate != 50.0 {
		t.Errorf("expected 50%% hit rate, got %.1f", rate)
	}
}

func TestCacheHitRateEmpty(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	if rate := c.HitRate(); rate != 0.0 {
		t.Errorf("expected 0%% hit rate with no accesses, got %.1f", rate)
	}
}

func TestCleanupRemovesExpired(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	c.SetWithTTL("expired", "value", -time.Second)
	c.Set("live", "value")

	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("expected 1 key after cleanup, got %d", stats.TotalKeys)
	}
	if stats.Evictions != 1 {
		t.Errorf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	type params struct {
		League int `json:"league"`
		Season int `json:"season"`
	}

	k1 := GenerateKey("topscorers", params{League: 39, Season: 2023})
	k2 := GenerateKey("topscorers", params{League: 39, Season: 2023})
	k3 := GenerateKey("topscorers", params{League: 140, Season: 2023})

	if k1 != k2 {
		t.Error("expected identical params to produce identical keys")
	}
	if k1 == k3 {
		t.Error("expected different params to produce different keys")
	}
	if k1 == GenerateKey("players", params{League: 39, Season: 2023}) {
		t.Error("expected method name to distinguish keys")
	}
}
