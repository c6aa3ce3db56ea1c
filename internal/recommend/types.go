// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package recommend

import (
	"errors"

	"github.com/scoutlens/scoutlens/internal/stats"
)

// Query modes reported in result metadata and metrics.
const (
	ModeSimilar  = "similar"
	ModeCriteria = "criteria"
)

var (
	// ErrEmptyFeatureSet indicates a query that enables no feature toggles
	// and names no explicit feature columns.
	ErrEmptyFeatureSet = errors.New("no features selected")

	// ErrInsufficientFeatures indicates the query resolved to fewer usable
	// feature columns than the configured minimum.
	ErrInsufficientFeatures = errors.New("insufficient features for similarity scoring")

	// ErrPlayerNotFound indicates the reference player is not in the
	// candidate table.
	ErrPlayerNotFound = errors.New("player not found")
)

// Toggles enables groups of statistical columns for similarity scoring.
// Each toggle maps to a fixed column group; see featureGroups.
type Toggles struct {
	General    bool `json:"general"`
	Attack     bool `json:"attack"`
	Passing    bool `json:"passing"`
	Defense    bool `json:"defense"`
	Duels      bool `json:"duels"`
	Dribbling  bool `json:"dribbling"`
	Discipline bool `json:"discipline"`
}

// AllToggles returns a toggle set with every group enabled.
func AllToggles() Toggles {
	return Toggles{
		General:    true,
		Attack:     true,
		Passing:    true,
		Defense:    true,
		Duels:      true,
		Dribbling:  true,
		Discipline: true,
	}
}

// Query describes one similarity request. A positive PlayerID selects the
// reference-player path; zero selects the criteria path, which ranks by
// distance to the filtered pool's centroid.
type Query struct {
	PlayerID int `json:"player_id,omitempty"`

	// Candidate filters.
	Position   string  `json:"position,omitempty"`
	MinRating  float64 `json:"min_rating,omitempty"`
	MaxAge     int     `json:"max_age,omitempty"`
	MinMinutes float64 `json:"min_minutes,omitempty"`

	// Features names explicit columns; when non-empty it overrides Toggles.
	Features []string `json:"features,omitempty"`
	Toggles  Toggles  `json:"toggles"`

	K int `json:"k,omitempty"`

	RequestID string `json:"-"`
}

// ScoredPlayer pairs a candidate with its similarity to the reference.
type ScoredPlayer struct {
	Player     stats.PlayerRecord `json:"player"`
	Similarity float64            `json:"similarity"`
	Distance   float64            `json:"distance"`
}

// ResultMetadata describes how a result was produced.
type ResultMetadata struct {
	RequestID  string   `json:"request_id"`
	Mode       string   `json:"mode"`
	Candidates int      `json:"candidates"`
	Columns    []string `json:"columns"`
	CacheHit   bool     `json:"cache_hit"`
	LatencyMS  int64    `json:"latency_ms"`
}

// Result is an ordered recommendation result, non-increasing in similarity.
type Result struct {
	Players  []ScoredPlayer `json:"players"`
	Metadata ResultMetadata `json:"metadata"`
}

// featureGroups maps each toggle to its stat columns. Derived columns are
// listed with their group so a toggle covers a skill, not a storage detail.
var featureGroups = map[string][]string{
	"general": {
		stats.ColAge,
		stats.ColAppearances,
		stats.ColLineups,
		stats.ColMinutes,
		stats.ColRating,
		stats.ColMinutesPerApp,
	},
	"attack": {
		stats.ColGoals,
		stats.ColShotsTotal,
		stats.ColShotsOnTarget,
		stats.ColGoalsPer90,
		stats.ColGoalContributions,
		stats.ColShotConversion,
		stats.ColMinutesPerGoal,
	},
	"passing": {
		stats.ColAssists,
		stats.ColPassesTotal,
		stats.ColKeyPasses,
		stats.ColPassAccuracy,
		stats.ColAssistsPer90,
	},
	"defense": {
		stats.ColTackles,
		stats.ColBlocks,
		stats.ColInterceptions,
	},
	"duels": {
		stats.ColDuelsTotal,
		stats.ColDuelsWon,
		stats.ColDuelWinRate,
	},
	"dribbling": {
		stats.ColDribbleAtt,
		stats.ColDribbleSucc,
	},
	"discipline": {
		stats.ColYellowCards,
		stats.ColRedCards,
	},
}

// enabledGroups returns the enabled toggle groups in a fixed order so
// column resolution is deterministic.
func (t Toggles) enabledGroups() []string {
	var groups []string
	for _, g := range []struct {
		name string
		on   bool
	}{
		{"general", t.General},
		{"attack", t.Attack},
		{"passing", t.Passing},
		{"defense", t.Defense},
		{"duels", t.Duels},
		{"dribbling", t.Dribbling},
		{"discipline", t.Discipline},
	} {
		if g.on {
			groups = append(groups, g.name)
		}
	}
	return groups
}

// requestedColumns expands a query's explicit features or enabled toggles
// into a deduplicated column list. An empty result means the query selected
// nothing.
func (q *Query) requestedColumns() []string {
	if len(q.Features) > 0 {
		seen := make(map[string]struct{}, len(q.Features))
		cols := make([]string, 0, len(q.Features))
		for _, f := range q.Features {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			cols = append(cols, f)
		}
		return cols
	}

	var cols []string
	seen := make(map[string]struct{})
	for _, g := range q.Toggles.enabledGroups() {
		for _, col := range featureGroups[g] {
			if _, dup := seen[col]; dup {
				continue
			}
			seen[col] = struct{}{}
			cols = append(cols, col)
		}
	}
	return cols
}
