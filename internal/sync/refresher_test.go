// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scoutlens/scoutlens/internal/apifootball"
	"github.com/scoutlens/scoutlens/internal/config"
	afmodels "github.com/scoutlens/scoutlens/internal/models/apifootball"
	"github.com/scoutlens/scoutlens/internal/stats"
)

func testScoutConfig() *config.ScoutConfig {
	return &config.ScoutConfig{
		Leagues: []config.League{
			{ID: 39, Name: "Premier League", Country: "England"},
			{ID: 140, Name: "La Liga", Country: "Spain"},
		},
		Season: 2023,
	}
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) ClearCache() { c.calls++ }

// flakyClient fails TopScorers for one league and delegates the rest.
type flakyClient struct {
	apifootball.API
	failLeague int
}

func (f *flakyClient) TopScorers(ctx context.Context, leagueID, season int) (*afmodels.PlayersResponse, error) {
	if leagueID == f.failLeague {
		return nil, fmt.Errorf("fetch league %d: %w", leagueID, apifootball.ErrUpstreamStatus)
	}
	return f.API.TopScorers(ctx, leagueID, season)
}

// blockingClient parks TopScorers until released.
type blockingClient struct {
	apifootball.API
	entered  chan struct{}
	released chan struct{}
}

func (b *blockingClient) TopScorers(ctx context.Context, leagueID, season int) (*afmodels.PlayersResponse, error) {
	b.entered <- struct{}{}
	<-b.released
	return b.API.TopScorers(ctx, leagueID, season)
}

// crossAssists answers TopAssists with another league's scorer pool so
// the merged table gains players the scorer list lacks.
type crossAssists struct {
	apifootball.API
	fromLeague int
}

func (c *crossAssists) TopAssists(ctx context.Context, _, season int) (*afmodels.PlayersResponse, error) {
	return c.API.TopScorers(ctx, c.fromLeague, season)
}

// failingAssists degrades every TopAssists call.
type failingAssists struct {
	apifootball.API
}

func (f *failingAssists) TopAssists(_ context.Context, leagueID, _ int) (*afmodels.PlayersResponse, error) {
	return nil, fmt.Errorf("fetch assists league %d: %w", leagueID, apifootball.ErrUpstreamStatus)
}

func TestRefreshAll_PopulatesStore(t *testing.T) {
	store := stats.NewStore(time.Minute)
	inv := &countingInvalidator{}
	r := NewRefresher(testScoutConfig(), apifootball.NewMockClient(), store, inv, zerolog.Nop())

	if err := r.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	for _, leagueID := range []int{39, 140} {
		table, ok := store.Get(leagueID, 2023)
		if !ok {
			t.Fatalf("league %d missing from store", leagueID)
		}
		if table.Len() == 0 {
			t.Errorf("league %d table empty", leagueID)
		}
		if !table.HasColumn(stats.ColGoalsPer90) {
			t.Errorf("league %d table missing derived columns", leagueID)
		}
	}

	if inv.calls != 1 {
		t.Errorf("result cache invalidations = %d, want 1", inv.calls)
	}

	status := r.Status()
	if status.Runs != 1 {
		t.Errorf("runs = %d, want 1", status.Runs)
	}
	if status.LastError != "" {
		t.Errorf("unexpected last error: %q", status.LastError)
	}
	if status.LastSuccess.IsZero() {
		t.Error("last success not recorded")
	}
	if len(status.LastResults) != 2 {
		t.Errorf("league results = %d, want 2", len(status.LastResults))
	}
}

func TestRefreshAll_MergesAssistProviders(t *testing.T) {
	store := stats.NewStore(time.Minute)
	cfg := &config.ScoutConfig{
		Leagues: []config.League{{ID: 39, Name: "Premier League", Country: "England"}},
		Season:  2023,
	}
	client := &crossAssists{API: apifootball.NewMockClient(), fromLeague: 140}
	r := NewRefresher(cfg, client, store, nil, zerolog.Nop())

	if err := r.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	table, ok := store.Get(39, 2023)
	if !ok {
		t.Fatal("league 39 missing from store")
	}
	if _, ok := table.PlayerByID(140000); !ok {
		t.Error("assist provider absent from the scorer list was not merged")
	}
	if _, ok := table.PlayerByID(39000); !ok {
		t.Error("scorer lost during the assists merge")
	}
}

func TestRefreshAll_DuplicateAssistProvidersDeduped(t *testing.T) {
	// The mock answers both endpoints from the same player pool, so every
	// assist provider is already on the scorer list.
	store := stats.NewStore(time.Minute)
	r := NewRefresher(testScoutConfig(), apifootball.NewMockClient(), store, nil, zerolog.Nop())

	if err := r.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	table, _ := store.Get(39, 2023)
	seen := make(map[int]int)
	for _, row := range table.Rows {
		seen[row.PlayerID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("player %d appears %d times after the assists merge", id, n)
		}
	}
}

func TestRefreshAll_AssistsFailureKeepsScorers(t *testing.T) {
	store := stats.NewStore(time.Minute)
	client := &failingAssists{API: apifootball.NewMockClient()}
	r := NewRefresher(testScoutConfig(), client, store, nil, zerolog.Nop())

	if err := r.RefreshAll(context.Background()); err != nil {
		t.Fatalf("assists failure should not fail the refresh: %v", err)
	}
	for _, leagueID := range []int{39, 140} {
		table, ok := store.Get(leagueID, 2023)
		if !ok || table.Len() == 0 {
			t.Errorf("league %d missing after assists degradation", leagueID)
		}
	}
}

func TestRefreshAll_PartialFailure(t *testing.T) {
	store := stats.NewStore(time.Minute)
	client := &flakyClient{API: apifootball.NewMockClient(), failLeague: 39}
	r := NewRefresher(testScoutConfig(), client, store, nil, zerolog.Nop())

	err := r.RefreshAll(context.Background())
	if err == nil {
		t.Fatal("expected error when a league fails")
	}

	// The healthy league still lands in the store.
	if _, ok := store.Get(140, 2023); !ok {
		t.Error("healthy league missing from store")
	}
	if _, ok := store.Get(39, 2023); ok {
		t.Error("failed league should not be in the store")
	}

	status := r.Status()
	if status.LastError == "" {
		t.Error("last error not recorded")
	}
	if status.LastSuccess != (time.Time{}) {
		t.Error("partial failure should not count as success")
	}
}

func TestRefreshAll_RejectsConcurrent(t *testing.T) {
	store := stats.NewStore(time.Minute)
	client := &blockingClient{
		API:      apifootball.NewMockClient(),
		entered:  make(chan struct{}),
		released: make(chan struct{}),
	}
	r := NewRefresher(testScoutConfig(), client, store, nil, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		done <- r.RefreshAll(context.Background())
	}()

	<-client.entered
	if err := r.RefreshAll(context.Background()); !errors.Is(err, ErrRefreshInProgress) {
		t.Errorf("expected ErrRefreshInProgress, got: %v", err)
	}

	close(client.released)
	// Second league fetch also passes through the block.
	<-client.entered
	if err := <-done; err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
}

func TestRefreshAll_ContextCancelled(t *testing.T) {
	store := stats.NewStore(time.Minute)
	r := NewRefresher(testScoutConfig(), apifootball.NewMockClient(), store, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.RefreshAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if store.Loaded() {
		t.Error("canceled refresh should not populate the store")
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testScoutConfig()
	cfg.RefreshOnStartup = false
	cfg.RefreshInterval = 0

	r := NewRefresher(cfg, apifootball.NewMockClient(), stats.NewStore(time.Minute), nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Serve(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}

func TestServe_StartupRefresh(t *testing.T) {
	cfg := testScoutConfig()
	cfg.RefreshOnStartup = true
	cfg.RefreshInterval = 0

	store := stats.NewStore(time.Minute)
	r := NewRefresher(cfg, apifootball.NewMockClient(), store, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Serve(ctx)
	}()

	deadline := time.After(5 * time.Second)
	for !store.Loaded() {
		select {
		case <-deadline:
			t.Fatal("startup refresh never populated the store")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
