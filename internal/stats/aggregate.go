// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package stats

import (
	"fmt"
	"sort"
	"strconv"
)

// Group-by keys accepted by Aggregate.
const (
	GroupByLeague = "league"
	GroupBySeason = "season"
)

// Aggregate summarizes a table into one row per group: the mean of every
// column in the populated intersection plus a synthetic "players" count.
// groupBy must be GroupByLeague or GroupBySeason.
func Aggregate(table PlayerTable, groupBy string) (PlayerTable, error) {
	if len(table.Rows) == 0 {
		return PlayerTable{}, fmt.Errorf("aggregate: %w", ErrNoData)
	}

	type group struct {
		name   string
		league int
		season int
		rows   []PlayerRecord
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, row := range table.Rows {
		var key, name string
		switch groupBy {
		case GroupByLeague:
			key = strconv.Itoa(row.LeagueID)
			name = row.LeagueName
			if name == "" {
				name = "League " + key
			}
		case GroupBySeason:
			key = strconv.Itoa(row.Season)
			name = key
		default:
			return PlayerTable{}, fmt.Errorf("aggregate: unknown group key %q", groupBy)
		}

		g, ok := groups[key]
		if !ok {
			g = &group{name: name, league: row.LeagueID, season: row.Season}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	sort.Strings(order)

	out := PlayerTable{}
	for _, key := range order {
		g := groups[key]

		rec := PlayerRecord{
			Name:      g.name,
			Season:    g.season,
			Stats:     make(map[string]float64),
			Populated: make(map[string]struct{}),
		}
		if groupBy == GroupByLeague {
			rec.LeagueID = g.league
			rec.LeagueName = g.name
		}

		for _, col := range table.Columns {
			var sum float64
			for _, row := range g.rows {
				sum += row.Stats[col]
			}
			rec.setStat(col, sum/float64(len(g.rows)))
		}
		rec.setStat(ColPlayers, float64(len(g.rows)))

		out.Rows = append(out.Rows, rec)
	}

	out.recomputeColumns()
	return out, nil
}
