// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package stats

import "math"

// DeriveMetrics returns a copy of the table with efficiency and per-90
// columns added to every row. Every derivation guards its denominator;
// non-finite results become zero, so a derived column is always populated
// and never poisons the scaler downstream.
func DeriveMetrics(table PlayerTable) PlayerTable {
	out := PlayerTable{Rows: make([]PlayerRecord, 0, len(table.Rows)), Skipped: table.Skipped}

	for _, row := range table.Rows {
		rec := row.clone()

		minutes := rec.Stats[ColMinutes]
		apps := rec.Stats[ColAppearances]
		goals := rec.Stats[ColGoals]
		assists := rec.Stats[ColAssists]
		shots := rec.Stats[ColShotsTotal]
		duelsTotal := rec.Stats[ColDuelsTotal]
		duelsWon := rec.Stats[ColDuelsWon]

		rec.setStat(ColMinutesPerApp, safeDiv(minutes, apps))
		rec.setStat(ColGoalsPer90, safeDiv(goals*90, minutes))
		rec.setStat(ColAssistsPer90, safeDiv(assists*90, minutes))
		rec.setStat(ColGoalContributions, goals+assists)
		rec.setStat(ColShotConversion, safeDiv(goals*100, shots))
		rec.setStat(ColDuelWinRate, safeDiv(duelsWon*100, duelsTotal))
		rec.setStat(ColMinutesPerGoal, safeDiv(minutes, goals))

		out.Rows = append(out.Rows, rec)
	}

	out.recomputeColumns()
	return out
}

// safeDiv divides with a zero guard and flushes non-finite results to zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
