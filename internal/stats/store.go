// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package stats

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/scoutlens/scoutlens/internal/cache"
	"github.com/scoutlens/scoutlens/internal/metrics"
)

// TableKey identifies a stored table.
type TableKey struct {
	LeagueID int
	Season   int
}

// Store holds the latest normalized and derived table per league/season.
// The sync loop writes, handlers read snapshots. Expensive aggregate
// results are memoized in a TTL cache that empties whenever any table is
// replaced, so readers never see aggregates of a table that is gone.
type Store struct {
	mu        sync.RWMutex
	tables    map[TableKey]*PlayerTable
	updatedAt map[TableKey]time.Time

	results *cache.Cache
}

// NewStore creates an empty store. resultTTL bounds how long memoized
// aggregates may serve between table refreshes.
func NewStore(resultTTL time.Duration) *Store {
	return &Store{
		tables:    make(map[TableKey]*PlayerTable),
		updatedAt: make(map[TableKey]time.Time),
		results:   cache.New(resultTTL),
	}
}

// Put replaces the table for a league/season and invalidates memoized
// results.
func (s *Store) Put(leagueID, season int, table PlayerTable) {
	key := TableKey{LeagueID: leagueID, Season: season}

	s.mu.Lock()
	s.tables[key] = &table
	s.updatedAt[key] = time.Now()
	s.mu.Unlock()

	s.results.Clear()
	metrics.RecordLeagueRows(leagueID, len(table.Rows))
}

// Get returns the table for a league/season, if loaded.
func (s *Store) Get(leagueID, season int) (*PlayerTable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[TableKey{LeagueID: leagueID, Season: season}]
	return t, ok
}

// Merged returns all loaded tables combined into one, the candidate pool
// for cross-league queries.
func (s *Store) Merged() PlayerTable {
	s.mu.RLock()
	keys := make([]TableKey, 0, len(s.tables))
	for k := range s.tables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LeagueID != keys[j].LeagueID {
			return keys[i].LeagueID < keys[j].LeagueID
		}
		return keys[i].Season < keys[j].Season
	})
	tables := make([]*PlayerTable, 0, len(keys))
	for _, k := range keys {
		tables = append(tables, s.tables[k])
	}
	s.mu.RUnlock()

	return Merge(tables...)
}

// Keys returns the loaded league/season pairs in deterministic order.
func (s *Store) Keys() []TableKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]TableKey, 0, len(s.tables))
	for k := range s.tables {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].LeagueID != keys[j].LeagueID {
			return keys[i].LeagueID < keys[j].LeagueID
		}
		return keys[i].Season < keys[j].Season
	})
	return keys
}

// Loaded reports whether at least one table is present. The readiness
// probe gates on this.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables) > 0
}

// UpdatedAt returns when a table was last replaced.
func (s *Store) UpdatedAt(leagueID, season int) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.updatedAt[TableKey{LeagueID: leagueID, Season: season}]
	return t, ok
}

// Aggregated returns the groupBy summary of the merged pool, memoized in
// the result cache.
func (s *Store) Aggregated(groupBy string) (PlayerTable, error) {
	key := fmt.Sprintf("aggregate:%s", groupBy)

	if v, ok := s.results.Get(key); ok {
		metrics.CacheHits.WithLabelValues("result").Inc()
		return v.(PlayerTable), nil
	}
	metrics.CacheMisses.WithLabelValues("result").Inc()

	merged := s.Merged()
	agg, err := Aggregate(merged, groupBy)
	if err != nil {
		return PlayerTable{}, err
	}

	s.results.Set(key, agg)
	return agg, nil
}
