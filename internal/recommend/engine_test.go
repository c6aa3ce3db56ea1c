// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/stats"
)

func newTestEngine(minFeatures int) *Engine {
	return NewEngine(&config.RecommendConfig{
		DefaultK:    5,
		MaxK:        50,
		MinFeatures: minFeatures,
		Metric:      "euclidean",
		CacheTTL:    time.Minute,
	}, zerolog.Nop())
}

func player(id int, name, position string, vals map[string]float64) stats.PlayerRecord {
	rec := stats.PlayerRecord{
		PlayerID:  id,
		Name:      name,
		Position:  position,
		Stats:     make(map[string]float64, len(vals)),
		Populated: make(map[string]struct{}, len(vals)),
	}
	for k, v := range vals {
		rec.Stats[k] = v
		rec.Populated[k] = struct{}{}
	}
	return rec
}

func testTable(rows ...stats.PlayerRecord) *stats.PlayerTable {
	counts := make(map[string]int)
	for _, row := range rows {
		for col := range row.Populated {
			counts[col]++
		}
	}
	var cols []string
	for col, n := range counts {
		if n == len(rows) {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return &stats.PlayerTable{Rows: rows, Columns: cols}
}

var testFeatures = []string{stats.ColGoals, stats.ColAssists, stats.ColRating}

func scoutingPool() *stats.PlayerTable {
	return testTable(
		player(10, "A. Striker", "Attacker", map[string]float64{
			stats.ColGoals: 30, stats.ColAssists: 10, stats.ColRating: 8.0,
		}),
		player(11, "B. Forward", "Attacker", map[string]float64{
			stats.ColGoals: 28, stats.ColAssists: 9, stats.ColRating: 7.8,
		}),
		player(12, "C. Winger", "Attacker", map[string]float64{
			stats.ColGoals: 5, stats.ColAssists: 2, stats.ColRating: 6.5,
		}),
		player(13, "D. Playmaker", "Midfielder", map[string]float64{
			stats.ColGoals: 8, stats.ColAssists: 15, stats.ColRating: 7.5,
		}),
		player(14, "E. Anchor", "Midfielder", map[string]float64{
			stats.ColGoals: 2, stats.ColAssists: 4, stats.ColRating: 6.8,
		}),
		player(15, "F. Clone", "Attacker", map[string]float64{
			stats.ColGoals: 30, stats.ColAssists: 10, stats.ColRating: 8.0,
		}),
	)
}

func TestFindSimilar_ReferenceNeverInOwnResult(t *testing.T) {
	engine := newTestEngine(3)

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Features: testFeatures,
		K:        50,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.Players) == 0 {
		t.Fatal("expected non-empty result")
	}
	for _, p := range result.Players {
		if p.Player.PlayerID == 10 {
			t.Fatal("reference player appeared in its own result")
		}
	}
	if result.Metadata.Mode != ModeSimilar {
		t.Errorf("mode = %q, want %q", result.Metadata.Mode, ModeSimilar)
	}
}

func TestFindSimilar_MultiRowReferenceFullyExcluded(t *testing.T) {
	engine := newTestEngine(3)

	// A player with league and cup statistics holds one row per block.
	// Neither row may surface in that player's own result.
	pool := scoutingPool()
	pool.Rows = append(pool.Rows, player(10, "A. Striker", "Attacker", map[string]float64{
		stats.ColGoals: 29, stats.ColAssists: 11, stats.ColRating: 7.9,
	}))

	result, err := engine.FindSimilar(context.Background(), pool, Query{
		PlayerID: 10,
		Features: testFeatures,
		K:        50,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.Players) == 0 {
		t.Fatal("expected non-empty result")
	}
	for _, p := range result.Players {
		if p.Player.PlayerID == 10 {
			t.Fatalf("reference row %q appeared in its own result", p.Player.Name)
		}
	}
	// 7 rows total, two of them belong to the reference.
	if result.Metadata.Candidates != 5 {
		t.Errorf("candidates = %d, want 5", result.Metadata.Candidates)
	}
}

func TestFindSimilar_OrderingNonIncreasing(t *testing.T) {
	engine := newTestEngine(3)

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Features: testFeatures,
		K:        50,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	for i := 1; i < len(result.Players); i++ {
		if result.Players[i].Similarity > result.Players[i-1].Similarity {
			t.Fatalf("similarity increased at rank %d: %v > %v",
				i, result.Players[i].Similarity, result.Players[i-1].Similarity)
		}
	}
}

func TestFindSimilar_IdenticalPlayerRanksFirst(t *testing.T) {
	engine := newTestEngine(3)

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Features: testFeatures,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}

	top := result.Players[0]
	if top.Player.PlayerID != 15 {
		t.Fatalf("top match = %d, want identical player 15", top.Player.PlayerID)
	}
	if top.Distance != 0 {
		t.Errorf("identical player distance = %v, want 0", top.Distance)
	}
	if math.Abs(top.Similarity-1) > 1e-12 {
		t.Errorf("identical player similarity = %v, want 1", top.Similarity)
	}
}

func TestFindSimilar_EmptyFeatureSet(t *testing.T) {
	engine := newTestEngine(3)

	_, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
	})
	if !errors.Is(err, ErrEmptyFeatureSet) {
		t.Fatalf("expected ErrEmptyFeatureSet, got: %v", err)
	}
}

func TestFindSimilar_InsufficientFeatures(t *testing.T) {
	engine := newTestEngine(5)

	// Only three of the requested columns exist in the table.
	_, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Features: []string{stats.ColGoals, stats.ColAssists, stats.ColRating, stats.ColTackles, stats.ColBlocks},
	})
	if !errors.Is(err, ErrInsufficientFeatures) {
		t.Fatalf("expected ErrInsufficientFeatures, got: %v", err)
	}
}

func TestFindSimilar_PlayerNotFound(t *testing.T) {
	engine := newTestEngine(3)

	_, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 9999,
		Features: testFeatures,
	})
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got: %v", err)
	}
}

func TestFindSimilar_PositionFilter(t *testing.T) {
	engine := newTestEngine(3)

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Position: "Midfielder",
		Features: testFeatures,
		K:        50,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.Players) != 2 {
		t.Fatalf("expected the 2 midfielders, got %d players", len(result.Players))
	}
	for _, p := range result.Players {
		if p.Player.Position != "Midfielder" {
			t.Errorf("player %d has position %q", p.Player.PlayerID, p.Player.Position)
		}
		if p.Player.PlayerID == 10 {
			t.Error("out-of-filter reference leaked into the result")
		}
	}
}

func TestFindSimilar_NumericFilters(t *testing.T) {
	engine := newTestEngine(3)

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		MinRating: 7.0,
		Features:  testFeatures,
		Toggles:   Toggles{},
		K:         50,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	// Players 10, 11, 13, 15 carry a rating of at least 7.0.
	if result.Metadata.Candidates != 4 {
		t.Errorf("candidates = %d, want 4", result.Metadata.Candidates)
	}
	for _, p := range result.Players {
		if r, _ := p.Player.Stat(stats.ColRating); r < 7.0 {
			t.Errorf("player %d rating %v below filter", p.Player.PlayerID, r)
		}
	}
}

func TestFindSimilar_CriteriaModeUsesCentroid(t *testing.T) {
	engine := newTestEngine(3)

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		Features: testFeatures,
		K:        50,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if result.Metadata.Mode != ModeCriteria {
		t.Errorf("mode = %q, want %q", result.Metadata.Mode, ModeCriteria)
	}
	if result.Metadata.Candidates != 6 {
		t.Errorf("candidates = %d, want 6", result.Metadata.Candidates)
	}
	if len(result.Players) != 6 {
		t.Errorf("players = %d, want 6 (no reference to exclude)", len(result.Players))
	}
	for i := 1; i < len(result.Players); i++ {
		if result.Players[i].Distance < result.Players[i-1].Distance {
			t.Fatalf("distance decreased at rank %d", i)
		}
	}
}

func TestFindSimilar_KDefaultsAndBounds(t *testing.T) {
	engine := newTestEngine(3)
	engine.cfg.DefaultK = 2
	engine.cfg.MaxK = 3

	result, err := engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Features: testFeatures,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.Players) != 2 {
		t.Errorf("default K: got %d players, want 2", len(result.Players))
	}

	result, err = engine.FindSimilar(context.Background(), scoutingPool(), Query{
		PlayerID: 10,
		Features: testFeatures,
		K:        100,
	})
	if err != nil {
		t.Fatalf("FindSimilar failed: %v", err)
	}
	if len(result.Players) != 3 {
		t.Errorf("clamped K: got %d players, want 3", len(result.Players))
	}
}

func TestFindSimilar_CachesResults(t *testing.T) {
	engine := newTestEngine(3)
	table := scoutingPool()
	query := Query{PlayerID: 10, Features: testFeatures, K: 3}

	first, err := engine.FindSimilar(context.Background(), table, query)
	if err != nil {
		t.Fatalf("first query failed: %v", err)
	}
	if first.Metadata.CacheHit {
		t.Error("first query should miss the cache")
	}

	second, err := engine.FindSimilar(context.Background(), table, query)
	if err != nil {
		t.Fatalf("second query failed: %v", err)
	}
	if !second.Metadata.CacheHit {
		t.Error("second identical query should hit the cache")
	}
	if len(second.Players) != len(first.Players) {
		t.Errorf("cached result differs: %d vs %d players", len(second.Players), len(first.Players))
	}

	engine.ClearCache()
	third, err := engine.FindSimilar(context.Background(), table, query)
	if err != nil {
		t.Fatalf("third query failed: %v", err)
	}
	if third.Metadata.CacheHit {
		t.Error("query after ClearCache should miss")
	}
}

func TestFindSimilar_ContextCancelled(t *testing.T) {
	engine := newTestEngine(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.FindSimilar(ctx, scoutingPool(), Query{
		PlayerID: 10,
		Features: testFeatures,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}
