// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Package recommend ranks players by statistical similarity. The engine
// standardizes a selected feature subset over a filtered candidate pool and
// scores candidates by distance to a reference player's vector, or to the
// pool centroid when the query gives criteria only.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scoutlens/scoutlens/internal/cache"
	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/metrics"
	"github.com/scoutlens/scoutlens/internal/stats"
)

// Engine runs similarity queries over player tables. It is safe for
// concurrent use; the table is passed per call so the engine never holds a
// reference to data the store has replaced.
type Engine struct {
	cfg     *config.RecommendConfig
	logger  zerolog.Logger
	results *cache.Cache
}

// NewEngine creates a similarity engine.
func NewEngine(cfg *config.RecommendConfig, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		results: cache.New(cfg.CacheTTL),
	}
}

// ClearCache drops memoized results. The sync loop calls this after a
// table refresh so stale rankings never outlive their data.
func (e *Engine) ClearCache() {
	e.results.Clear()
}

// FindSimilar executes a similarity query against a table and returns up
// to K scored players ordered by non-increasing similarity. The reference
// player, when given, is never part of its own result.
func (e *Engine) FindSimilar(ctx context.Context, table *stats.PlayerTable, q Query) (*Result, error) {
	start := time.Now()

	q = e.prepare(q)
	mode := ModeCriteria
	if q.PlayerID > 0 {
		mode = ModeSimilar
	}
	logger := e.logger.With().
		Str("request_id", q.RequestID).
		Str("mode", mode).
		Int("player_id", q.PlayerID).
		Logger()

	result, err := e.findSimilar(ctx, table, q, mode, start, logger)
	candidates := 0
	if result != nil {
		candidates = result.Metadata.Candidates
	}
	metrics.RecordRecommendation(mode, time.Since(start), candidates, err)
	if err != nil {
		logger.Warn().Err(err).Msg("recommendation failed")
		return nil, err
	}

	logger.Debug().
		Int("candidates", result.Metadata.Candidates).
		Int("returned", len(result.Players)).
		Int64("latency_ms", result.Metadata.LatencyMS).
		Msg("recommendation complete")
	return result, nil
}

// prepare applies K defaults and bounds and assigns a request ID.
func (e *Engine) prepare(q Query) Query {
	if q.RequestID == "" {
		q.RequestID = uuid.New().String()
	}
	if q.K <= 0 {
		q.K = e.cfg.DefaultK
	}
	if q.K > e.cfg.MaxK {
		q.K = e.cfg.MaxK
	}
	return q
}

func (e *Engine) findSimilar(ctx context.Context, table *stats.PlayerTable, q Query, mode string, start time.Time, logger zerolog.Logger) (*Result, error) {
	cacheKey := cache.GenerateKey("recommend", q)
	if v, ok := e.results.Get(cacheKey); ok {
		metrics.CacheHits.WithLabelValues("recommend").Inc()
		cached := v.(Result)
		cached.Metadata.RequestID = q.RequestID
		cached.Metadata.CacheHit = true
		cached.Metadata.LatencyMS = time.Since(start).Milliseconds()
		logger.Debug().Msg("cache hit")
		return &cached, nil
	}
	metrics.CacheMisses.WithLabelValues("recommend").Inc()

	// Resolve the reference before filtering so a reference outside the
	// filter window is still a valid anchor.
	var ref *stats.PlayerRecord
	if mode == ModeSimilar {
		row, ok := table.PlayerByID(q.PlayerID)
		if !ok {
			return nil, fmt.Errorf("%w: player %d", ErrPlayerNotFound, q.PlayerID)
		}
		ref = row
	}

	rows := filterCandidates(table, &q)

	cols, err := resolveColumns(table, &q, e.cfg.MinFeatures)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The reference joins the scaling pool so its vector is standardized
	// with the same means and deviations as the candidates.
	refIdx := -1
	if ref != nil {
		for i := range rows {
			if rows[i].PlayerID == ref.PlayerID {
				refIdx = i
				break
			}
		}
		if refIdx == -1 {
			rows = append(rows, *ref)
			refIdx = len(rows) - 1
		}
	}

	// A player can span several rows (one per statistics block); none of
	// the reference's rows count as candidates.
	candidates := len(rows)
	if ref != nil {
		candidates = 0
		for i := range rows {
			if rows[i].PlayerID != ref.PlayerID {
				candidates++
			}
		}
	}
	result := &Result{
		Metadata: ResultMetadata{
			RequestID:  q.RequestID,
			Mode:       mode,
			Candidates: candidates,
			Columns:    cols,
		},
	}

	if len(rows) > 0 {
		matrix := buildMatrix(rows, cols)

		var anchor []float64
		if refIdx >= 0 {
			anchor = matrix[refIdx]
		} else {
			anchor = centroid(matrix)
		}

		refID := 0
		if ref != nil {
			refID = ref.PlayerID
		}
		result.Players = scoreAgainst(rows, matrix, anchor, refID, e.cfg.Metric, q.K)
	}

	result.Metadata.LatencyMS = time.Since(start).Milliseconds()
	e.results.Set(cacheKey, *result)
	return result, nil
}
