// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package stats

import (
	"errors"
	"reflect"
	"testing"

	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

func intPtr(v int) *int { return &v }

func ratingPtr(v float64) *apifootball.FlexFloat {
	f := apifootball.FlexFloat(v)
	return &f
}

// fullEntry builds a complete raw entry for tests.
func fullEntry(id int, name, position string, goals int) apifootball.PlayerEntry {
	return apifootball.PlayerEntry{
		Player: apifootball.Player{
			ID:          id,
			Name:        name,
			Age:         intPtr(25),
			Nationality: "England",
		},
		Statistics: []apifootball.Statistics{
			{
				Team:   apifootball.Team{ID: 50, Name: "Manchester City"},
				League: apifootball.LeagueInfo{ID: 39, Name: "Premier League", Country: "England", Season: 2023},
				Games: apifootball.Games{
					Appearances: intPtr(30),
					Lineups:     intPtr(28),
					Minutes:     intPtr(2700),
					Position:    position,
					Rating:      ratingPtr(7.2),
				},
				Shots:    apifootball.Shots{Total: intPtr(60), On: intPtr(30)},
				Goals:    apifootball.Goals{Total: intPtr(goals), Assists: intPtr(5)},
				Passes:   apifootball.Passes{Total: intPtr(900), Key: intPtr(40), Accuracy: intPtr(82)},
				Tackles:  apifootball.Tackles{Total: intPtr(20), Blocks: intPtr(4), Interceptions: intPtr(12)},
				Duels:    apifootball.Duels{Total: intPtr(200), Won: intPtr(110)},
				Dribbles: apifootball.Dribbles{Attempts: intPtr(50), Success: intPtr(28)},
				Cards:    apifootball.Cards{Yellow: intPtr(3), Red: intPtr(0)},
			},
		},
	}
}

func TestNormalize(t *testing.T) {
	raw := &apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{
			fullEntry(1100, "E. Haaland", "Attacker", 27),
			fullEntry(629, "K. De Bruyne", "Midfielder", 7),
		},
	}

	table, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	if table.Skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", table.Skipped)
	}

	row := table.Rows[0]
	if row.PlayerID != 1100 || row.Name != "E. Haaland" {
		t.Errorf("unexpected identity: %+v", row)
	}
	if row.LeagueID != 39 || row.Season != 2023 {
		t.Errorf("unexpected league tags: league=%d season=%d", row.LeagueID, row.Season)
	}

	if v, ok := row.Stat(ColGoals); !ok || v != 27 {
		t.Errorf("goals = %v (populated=%v), want 27", v, ok)
	}
	if v, ok := row.Stat(ColRating); !ok || v != 7.2 {
		t.Errorf("rating = %v (populated=%v), want 7.2", v, ok)
	}
}

func TestNormalize_MissingValuesFillZero(t *testing.T) {
	entry := fullEntry(1100, "E. Haaland", "Attacker", 27)
	entry.Statistics[0].Shots = apifootball.Shots{} // nil pointers
	entry.Statistics[0].Games.Rating = nil

	table, err := Normalize(&apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{entry},
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	row := table.Rows[0]
	if v, ok := row.Stat(ColShotsTotal); ok || v != 0 {
		t.Errorf("missing shots should be zero and unpopulated, got %v populated=%v", v, ok)
	}
	if v, ok := row.Stat(ColRating); ok || v != 0 {
		t.Errorf("missing rating should be zero and unpopulated, got %v populated=%v", v, ok)
	}

	// Unpopulated columns drop out of the table intersection.
	if table.HasColumn(ColShotsTotal) {
		t.Error("shots_total should not be in the column intersection")
	}
	if !table.HasColumn(ColGoals) {
		t.Error("goals should remain in the column intersection")
	}
}

func TestNormalize_SkipsMalformedEntries(t *testing.T) {
	noID := fullEntry(0, "Ghost", "Attacker", 3)
	noName := fullEntry(77, "", "Defender", 1)
	noStats := apifootball.PlayerEntry{Player: apifootball.Player{ID: 88, Name: "Benchwarmer"}}

	table, err := Normalize(&apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{
			noID,
			fullEntry(1100, "E. Haaland", "Attacker", 27),
			noName,
			noStats,
		},
	})
	if err != nil {
		t.Fatalf("Normalize should tolerate partial failures: %v", err)
	}

	if table.Len() != 1 {
		t.Errorf("expected 1 valid row, got %d", table.Len())
	}
	if table.Skipped != 3 {
		t.Errorf("expected 3 skipped entries, got %d", table.Skipped)
	}
}

func TestNormalize_AllMalformedFails(t *testing.T) {
	_, err := Normalize(&apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{
			{Player: apifootball.Player{}},
			{Player: apifootball.Player{ID: -1}},
		},
	})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got: %v", err)
	}
}

func TestNormalize_EmptyInputFails(t *testing.T) {
	if _, err := Normalize(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("nil input: expected ErrNoData, got %v", err)
	}
	if _, err := Normalize(&apifootball.PlayersResponse{}); !errors.Is(err, ErrNoData) {
		t.Errorf("empty input: expected ErrNoData, got %v", err)
	}
}

func TestNormalize_OneRowPerStatisticsBlock(t *testing.T) {
	entry := fullEntry(521, "R. Lewandowski", "Attacker", 19)
	second := entry.Statistics[0]
	second.League = apifootball.LeagueInfo{ID: 140, Name: "La Liga", Country: "Spain", Season: 2023}
	entry.Statistics = append(entry.Statistics, second)

	table, err := Normalize(&apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{entry},
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows (one per block), got %d", table.Len())
	}
	if table.Rows[0].LeagueID == table.Rows[1].LeagueID {
		t.Error("rows should keep their per-block league tags")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := &apifootball.PlayersResponse{
		Response: []apifootball.PlayerEntry{
			fullEntry(1100, "E. Haaland", "Attacker", 27),
			fullEntry(629, "K. De Bruyne", "Midfielder", 7),
		},
	}

	first, err := Normalize(raw)
	if err != nil {
		t.Fatalf("first Normalize failed: %v", err)
	}
	second, err := Normalize(raw)
	if err != nil {
		t.Fatalf("second Normalize failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Normalize is not idempotent: identical input produced different tables")
	}
}

func TestSchemaError_Message(t *testing.T) {
	withID := &SchemaError{Index: 3, PlayerID: 42, Reason: "no statistics blocks"}
	if withID.Error() != "entry 3 (player 42): no statistics blocks" {
		t.Errorf("unexpected message: %s", withID.Error())
	}

	withoutID := &SchemaError{Index: 0, Reason: "missing player id"}
	if withoutID.Error() != "entry 0: missing player id" {
		t.Errorf("unexpected message: %s", withoutID.Error())
	}
}
