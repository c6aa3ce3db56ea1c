// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Package sync refreshes league player tables from API-Football in the
// background. The refresher runs as a supervised service: an optional
// startup refresh, then a fixed interval loop. Handlers can trigger a
// refresh on demand; concurrent refreshes are rejected rather than queued.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scoutlens/scoutlens/internal/apifootball"
	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/metrics"
	"github.com/scoutlens/scoutlens/internal/stats"
)

// ErrRefreshInProgress is returned when a refresh is requested while one
// is already running.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// CacheInvalidator lets the refresher drop memoized recommendation
// results after a table replacement.
type CacheInvalidator interface {
	ClearCache()
}

// LeagueResult records the outcome of one league's refresh.
type LeagueResult struct {
	LeagueID int    `json:"league_id"`
	Name     string `json:"name"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Status is a snapshot of the refresher's state.
type Status struct {
	Season      int            `json:"season"`
	Leagues     []int          `json:"leagues"`
	InProgress  bool           `json:"in_progress"`
	Runs        int            `json:"runs"`
	LastRun     time.Time      `json:"last_run,omitempty"`
	LastSuccess time.Time      `json:"last_success,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	LastResults []LeagueResult `json:"last_results,omitempty"`
}

// Refresher fetches top-scorer tables for the configured leagues,
// normalizes and derives them, and publishes the result to the store.
type Refresher struct {
	cfg    *config.ScoutConfig
	client apifootball.API
	store  *stats.Store
	engine CacheInvalidator
	logger zerolog.Logger

	mu         stdsync.Mutex
	inProgress bool
	status     Status
}

// NewRefresher creates a refresher. engine may be nil when no result
// cache needs invalidation.
func NewRefresher(cfg *config.ScoutConfig, client apifootball.API, store *stats.Store, engine CacheInvalidator, logger zerolog.Logger) *Refresher {
	leagues := make([]int, 0, len(cfg.Leagues))
	for _, lg := range cfg.Leagues {
		leagues = append(leagues, lg.ID)
	}
	return &Refresher{
		cfg:    cfg,
		client: client,
		store:  store,
		engine: engine,
		logger: logger.With().Str("component", "sync").Logger(),
		status: Status{
			Season:  cfg.Season,
			Leagues: leagues,
		},
	}
}

// Serve implements suture.Service. It optionally refreshes at startup,
// then ticks at the configured interval until the context is canceled.
// Refresh failures are logged and retried on the next tick rather than
// crashing the service.
func (r *Refresher) Serve(ctx context.Context) error {
	if r.cfg.RefreshOnStartup {
		if err := r.RefreshAll(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error().Err(err).Msg("startup refresh failed")
		}
	}

	if r.cfg.RefreshInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(r.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.RefreshAll(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error().Err(err).Msg("scheduled refresh failed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (r *Refresher) String() string {
	return "league-refresher"
}

// RefreshAll fetches, normalizes, and stores every configured league.
// One league failing does not stop the others; the first error is
// returned after all leagues were attempted. A refresh already running
// returns ErrRefreshInProgress.
func (r *Refresher) RefreshAll(ctx context.Context) error {
	r.mu.Lock()
	if r.inProgress {
		r.mu.Unlock()
		return ErrRefreshInProgress
	}
	r.inProgress = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inProgress = false
		r.mu.Unlock()
	}()

	start := time.Now()
	results := make([]LeagueResult, 0, len(r.cfg.Leagues))
	var firstErr error
	total := 0

	for _, lg := range r.cfg.Leagues {
		if err := ctx.Err(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}

		res := r.refreshLeague(ctx, lg)
		results = append(results, res)
		total += res.Rows
		if res.Error != "" && firstErr == nil {
			firstErr = fmt.Errorf("league %d: %s", res.LeagueID, res.Error)
		}
	}

	metrics.RecordSyncOperation(time.Since(start), total, firstErr)

	if total > 0 && r.engine != nil {
		r.engine.ClearCache()
	}

	r.mu.Lock()
	r.status.Runs++
	r.status.LastRun = start
	r.status.LastResults = results
	if firstErr != nil {
		r.status.LastError = firstErr.Error()
	} else {
		r.status.LastError = ""
		r.status.LastSuccess = start
	}
	r.mu.Unlock()

	r.logger.Info().
		Int("leagues", len(results)).
		Int("rows", total).
		Dur("duration", time.Since(start)).
		Err(firstErr).
		Msg("refresh complete")
	return firstErr
}

// refreshLeague fetches and publishes one league's table.
func (r *Refresher) refreshLeague(ctx context.Context, lg config.League) LeagueResult {
	res := LeagueResult{LeagueID: lg.ID, Name: lg.Name}

	raw, err := r.client.TopScorers(ctx, lg.ID, r.cfg.Season)
	if err != nil {
		res.Error = fmt.Sprintf("fetch: %v", err)
		r.logger.Warn().Int("league_id", lg.ID).Err(err).Msg("league fetch failed")
		return res
	}

	table, err := stats.Normalize(raw)
	if err != nil {
		res.Error = fmt.Sprintf("normalize: %v", err)
		r.logger.Warn().Int("league_id", lg.ID).Err(err).Msg("league normalize failed")
		return res
	}

	// Top assist providers enrich the table with playmakers the scorer
	// list misses. A failure here degrades to scorers only.
	if assistsRaw, err := r.client.TopAssists(ctx, lg.ID, r.cfg.Season); err != nil {
		r.logger.Warn().Int("league_id", lg.ID).Err(err).Msg("assists fetch failed, keeping scorers only")
	} else if assists, err := stats.Normalize(assistsRaw); err != nil {
		r.logger.Warn().Int("league_id", lg.ID).Err(err).Msg("assists normalize failed, keeping scorers only")
	} else {
		table = mergeUnseen(table, assists)
	}

	table = stats.DeriveMetrics(table)

	r.store.Put(lg.ID, r.cfg.Season, table)
	res.Rows = table.Len()
	res.Skipped = table.Skipped

	r.logger.Debug().
		Int("league_id", lg.ID).
		Int("rows", res.Rows).
		Int("skipped", res.Skipped).
		Msg("league refreshed")
	return res
}

// mergeUnseen appends the rows of extra whose players are absent from
// base. Players on both lists keep their base rows.
func mergeUnseen(base, extra stats.PlayerTable) stats.PlayerTable {
	seen := make(map[int]bool, len(base.Rows))
	for i := range base.Rows {
		seen[base.Rows[i].PlayerID] = true
	}
	fresh := extra.Filter(func(p *stats.PlayerRecord) bool { return !seen[p.PlayerID] })
	fresh.Skipped = extra.Skipped
	return stats.Merge(&base, &fresh)
}

// Status returns a snapshot of refresh state.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.status
	s.InProgress = r.inProgress
	s.Leagues = append([]int(nil), r.status.Leagues...)
	s.LastResults = append([]LeagueResult(nil), r.status.LastResults...)
	return s
}
