// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Package stats normalizes raw API-Football payloads into flat player
// tables, derives per-90 and efficiency metrics, and aggregates them for
// the analytics endpoints. Tables are immutable after construction; a
// refresh replaces the whole table in the Store.
package stats

import (
	"errors"
	"fmt"
	"sort"
)

// Canonical numeric column names. Normalize fills these from the wire
// payload; derive.go adds the Col*Per90 family.
const (
	ColAge           = "age"
	ColAppearances   = "appearances"
	ColLineups       = "lineups"
	ColMinutes       = "minutes"
	ColRating        = "rating"
	ColGoals         = "goals"
	ColAssists       = "assists"
	ColShotsTotal    = "shots_total"
	ColShotsOnTarget = "shots_on_target"
	ColPassesTotal   = "passes_total"
	ColKeyPasses     = "key_passes"
	ColPassAccuracy  = "pass_accuracy"
	ColTackles       = "tackles"
	ColBlocks        = "blocks"
	ColInterceptions = "interceptions"
	ColDuelsTotal    = "duels_total"
	ColDuelsWon      = "duels_won"
	ColDribbleAtt    = "dribble_attempts"
	ColDribbleSucc   = "dribble_success"
	ColYellowCards   = "yellow_cards"
	ColRedCards      = "red_cards"

	// Derived columns.
	ColMinutesPerApp     = "minutes_per_appearance"
	ColGoalsPer90        = "goals_per_90"
	ColAssistsPer90      = "assists_per_90"
	ColGoalContributions = "goal_contributions"
	ColShotConversion    = "shot_conversion"
	ColDuelWinRate       = "duel_win_rate"
	ColMinutesPerGoal    = "minutes_per_goal"

	// Synthetic column on aggregate rows: players in the group.
	ColPlayers = "players"
)

// ErrNoData indicates an operation ran against an empty table or a payload
// with no usable rows.
var ErrNoData = errors.New("no player data available")

// SchemaError reports a raw entry that could not be normalized into a
// player record.
type SchemaError struct {
	Index    int    // position in the raw response array
	PlayerID int    // 0 when the ID itself is missing
	Reason   string
}

func (e *SchemaError) Error() string {
	if e.PlayerID > 0 {
		return fmt.Sprintf("entry %d (player %d): %s", e.Index, e.PlayerID, e.Reason)
	}
	return fmt.Sprintf("entry %d: %s", e.Index, e.Reason)
}

// PlayerRecord is one flattened row: a player's identity plus the numeric
// statistics from a single team/competition block. Build records through
// Normalize; mutating a shared record after it entered a table is a bug.
type PlayerRecord struct {
	PlayerID    int    `json:"player_id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Nationality string `json:"nationality"`
	Height      string `json:"height"`
	Weight      string `json:"weight"`
	Position    string `json:"position"`
	Photo       string `json:"photo,omitempty"`

	TeamID     int    `json:"team_id"`
	TeamName   string `json:"team_name"`
	LeagueID   int    `json:"league_id"`
	LeagueName string `json:"league_name"`
	Season     int    `json:"season"`

	// Stats maps column name to value. Missing upstream values are filled
	// with zero; Populated records which columns actually carried data.
	Stats     map[string]float64  `json:"stats"`
	Populated map[string]struct{} `json:"-"`
}

// Stat returns the value of a column and whether the upstream actually
// populated it (a zero can mean either "0" or "absent").
func (r *PlayerRecord) Stat(name string) (float64, bool) {
	v := r.Stats[name]
	_, ok := r.Populated[name]
	return v, ok
}

// setStat records a populated column value.
func (r *PlayerRecord) setStat(name string, v float64) {
	r.Stats[name] = v
	r.Populated[name] = struct{}{}
}

// setMissing fills an absent column with zero without marking it populated.
func (r *PlayerRecord) setMissing(name string) {
	r.Stats[name] = 0
}

// clone returns a deep copy of the record.
func (r PlayerRecord) clone() PlayerRecord {
	stats := make(map[string]float64, len(r.Stats))
	for k, v := range r.Stats {
		stats[k] = v
	}
	populated := make(map[string]struct{}, len(r.Populated))
	for k := range r.Populated {
		populated[k] = struct{}{}
	}
	r.Stats = stats
	r.Populated = populated
	return r
}

// PlayerTable is an ordered collection of player records sharing a column
// space. Columns holds the sorted intersection of populated numeric columns
// across all rows: the columns every row actually carries, which is what
// numeric operations run over (goalkeepers lack shooting stats, so a mixed
// table's intersection excludes them).
type PlayerTable struct {
	Rows    []PlayerRecord `json:"rows"`
	Columns []string       `json:"columns"`

	// Skipped counts raw entries dropped by Normalize for schema reasons.
	Skipped int `json:"skipped,omitempty"`
}

// recomputeColumns rebuilds the populated-column intersection.
func (t *PlayerTable) recomputeColumns() {
	if len(t.Rows) == 0 {
		t.Columns = nil
		return
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		for col := range row.Populated {
			counts[col]++
		}
	}

	cols := make([]string, 0, len(counts))
	for col, n := range counts {
		if n == len(t.Rows) {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	t.Columns = cols
}

// HasColumn reports whether every row populates the named column.
func (t *PlayerTable) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t *PlayerTable) Len() int {
	return len(t.Rows)
}

// PlayerByID returns the first row for a player ID. Players on loan can
// appear in multiple stat blocks; the first block is the primary one.
func (t *PlayerTable) PlayerByID(playerID int) (*PlayerRecord, bool) {
	for i := range t.Rows {
		if t.Rows[i].PlayerID == playerID {
			return &t.Rows[i], true
		}
	}
	return nil, false
}

// FilterPosition returns a new table containing only rows whose position
// matches exactly. Row order is preserved.
func (t *PlayerTable) FilterPosition(position string) PlayerTable {
	out := PlayerTable{}
	for _, row := range t.Rows {
		if row.Position == position {
			out.Rows = append(out.Rows, row)
		}
	}
	out.recomputeColumns()
	return out
}

// Filter returns a new table containing the rows the predicate keeps.
// Row order is preserved.
func (t *PlayerTable) Filter(keep func(*PlayerRecord) bool) PlayerTable {
	out := PlayerTable{}
	for i := range t.Rows {
		if keep(&t.Rows[i]) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	out.recomputeColumns()
	return out
}

// TopByMetric returns up to n rows sorted by a column. Sorting is stable so
// ties keep their original order. Rows lacking the column sort last.
func (t *PlayerTable) TopByMetric(metric string, n int, ascending bool) PlayerTable {
	rows := make([]PlayerRecord, len(t.Rows))
	copy(rows, t.Rows)

	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := rows[i].Stat(metric)
		vj, okj := rows[j].Stat(metric)
		if oki != okj {
			return oki
		}
		if ascending {
			return vi < vj
		}
		return vi > vj
	})

	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}

	out := PlayerTable{Rows: rows}
	out.recomputeColumns()
	return out
}

// Merge combines tables into one. Used to build the cross-league candidate
// pool for the recommender.
func Merge(tables ...*PlayerTable) PlayerTable {
	out := PlayerTable{}
	for _, t := range tables {
		if t == nil {
			continue
		}
		out.Rows = append(out.Rows, t.Rows...)
		out.Skipped += t.Skipped
	}
	out.recomputeColumns()
	return out
}
