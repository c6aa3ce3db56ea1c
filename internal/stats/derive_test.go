// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package stats

import (
	"math"
	"testing"

	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

func deriveFixture(t *testing.T) PlayerTable {
	t.Helper()

	table, err := Normalize(&apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{
			fullEntry(1100, "E. Haaland", "Attacker", 27),
		},
	})
	if err != nil {
		t.Fatalf("fixture Normalize failed: %v", err)
	}
	return table
}

func TestDeriveMetrics(t *testing.T) {
	derived := DeriveMetrics(deriveFixture(t))
	row := derived.Rows[0]

	tests := []struct {
		col  string
		want float64
	}{
		{ColMinutesPerApp, 2700.0 / 30},
		{ColGoalsPer90, 27 * 90.0 / 2700},
		{ColAssistsPer90, 5 * 90.0 / 2700},
		{ColGoalContributions, 32},
		{ColShotConversion, 27 * 100.0 / 60},
		{ColDuelWinRate, 110 * 100.0 / 200},
		{ColMinutesPerGoal, 2700.0 / 27},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			got, ok := row.Stat(tt.col)
			if !ok {
				t.Fatalf("%s not populated", tt.col)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.col, got, tt.want)
			}
		})
	}
}

func TestDeriveMetrics_ZeroDenominators(t *testing.T) {
	entry := fullEntry(300, "Keeper", "Goalkeeper", 0)
	entry.Statistics[0].Games.Appearances = intPtr(0)
	entry.Statistics[0].Games.Minutes = intPtr(0)
	entry.Statistics[0].Shots = apifootball.Shots{Total: intPtr(0), On: intPtr(0)}
	entry.Statistics[0].Duels = apifootball.Duels{Total: intPtr(0), Won: intPtr(0)}

	table, err := Normalize(&apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{entry},
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	row := DeriveMetrics(table).Rows[0]
	for _, col := range []string{
		ColMinutesPerApp, ColGoalsPer90, ColAssistsPer90,
		ColShotConversion, ColDuelWinRate, ColMinutesPerGoal,
	} {
		got, ok := row.Stat(col)
		if !ok {
			t.Errorf("%s should be populated even with zero denominators", col)
		}
		if got != 0 {
			t.Errorf("%s = %v, want 0 with zero denominator", col, got)
		}
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("%s = %v, non-finite value leaked", col, got)
		}
	}
}

func TestDeriveMetrics_DoesNotMutateInput(t *testing.T) {
	table := deriveFixture(t)
	_ = DeriveMetrics(table)

	if _, ok := table.Rows[0].Stat(ColGoalsPer90); ok {
		t.Error("DeriveMetrics mutated its input table")
	}
}

func TestDeriveMetrics_ColumnsIncludeDerived(t *testing.T) {
	derived := DeriveMetrics(deriveFixture(t))
	for _, col := range []string{ColGoalsPer90, ColShotConversion, ColDuelWinRate} {
		if !derived.HasColumn(col) {
			t.Errorf("derived table should expose %s in its column intersection", col)
		}
	}
}

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     float64
	}{
		{"normal", 10, 4, 2.5},
		{"zero denominator", 5, 0, 0},
		{"zero numerator", 0, 7, 0},
		{"negative", -9, 3, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeDiv(tt.num, tt.den); got != tt.want {
				t.Errorf("safeDiv(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
			}
		})
	}
}
