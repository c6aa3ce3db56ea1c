// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package apifootball

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestPlayersResponse_JSONUnmarshal(t *testing.T) {
	t.Run("topscorers entry", func(t *testing.T) {
		jsonData := `{
			"get": "players/topscorers",
			"parameters": {"league": "39", "season": "2023"},
			"errors": [],
			"results": 1,
			"paging": {"current": 1, "total": 1},
			"response": [
				{
					"player": {
						"id": 1100,
						"name": "E. Haaland",
						"firstname": "Erling",
						"lastname": "Haaland",
						"age": 23,
						"birth": {"date": "2000-07-21", "place": "Leeds", "country": "England"},
						"nationality": "Norway",
						"height": "194 cm",
						"weight": "88 kg",
						"injured": false,
						"photo": "https://media.api-sports.io/football/players/1100.png"
					},
					"statistics": [
						{
							"team": {"id": 50, "name": "Manchester City", "logo": ""},
							"league": {"id": 39, "name": "Premier League", "country": "England", "season": 2023, "flag": ""},
							"games": {"appearences": 31, "lineups": 29, "minutes": 2552, "position": "Attacker", "rating": "7.25", "captain": false},
							"shots": {"total": 112, "on": 60},
							"goals": {"total": 27, "conceded": 0, "assists": 5, "saves": null},
							"passes": {"total": 480, "key": 32, "accuracy": 14},
							"tackles": {"total": 6, "blocks": 2, "interceptions": 1},
							"duels": {"total": 307, "won": 131},
							"cards": {"yellow": 2, "yellowred": 0, "red": 0}
						}
					]
				}
			]
		}`

		var resp PlayersResponse
		if err := json.Unmarshal([]byte(jsonData), &resp); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if resp.Get != "players/topscorers" {
			t.Errorf("expected get 'players/topscorers', got %q", resp.Get)
		}
		if resp.Errors.HasErrors() {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}
		if len(resp.Response) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(resp.Response))
		}

		entry := resp.Response[0]
		if entry.Player.ID != 1100 {
			t.Errorf("expected player id 1100, got %d", entry.Player.ID)
		}
		if entry.Player.Age == nil || *entry.Player.Age != 23 {
			t.Errorf("expected age 23, got %v", entry.Player.Age)
		}

		stats := entry.Statistics[0]
		if stats.Games.Position != "Attacker" {
			t.Errorf("expected position Attacker, got %q", stats.Games.Position)
		}
		if got := stats.Games.Rating.Float64(); got != 7.25 {
			t.Errorf("expected rating 7.25, got %v", got)
		}
		if stats.Goals.Total == nil || *stats.Goals.Total != 27 {
			t.Errorf("expected 27 goals, got %v", stats.Goals.Total)
		}
		if stats.Goals.Saves != nil {
			t.Errorf("expected nil saves, got %v", *stats.Goals.Saves)
		}
	})

	t.Run("null statistics fields", func(t *testing.T) {
		jsonData := `{
			"get": "players",
			"errors": [],
			"results": 1,
			"paging": {"current": 1, "total": 1},
			"response": [
				{
					"player": {"id": 5, "name": "Keeper", "age": null},
					"statistics": [
						{
							"team": {"id": 1, "name": "Club"},
							"league": {"id": 39, "name": "Premier League", "season": 2023},
							"games": {"appearences": null, "minutes": null, "position": "Goalkeeper", "rating": null},
							"shots": {"total": null, "on": null},
							"goals": {"total": 0, "conceded": 22, "assists": null, "saves": 61},
							"passes": {"total": 800, "key": null, "accuracy": 30},
							"tackles": {"total": null, "blocks": null, "interceptions": null},
							"duels": {"total": null, "won": null},
							"cards": {"yellow": 1, "yellowred": 0, "red": 0}
						}
					]
				}
			]
		}`

		var resp PlayersResponse
		if err := json.Unmarshal([]byte(jsonData), &resp); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		stats := resp.Response[0].Statistics[0]
		if stats.Games.Appearances != nil {
			t.Errorf("expected nil appearances, got %v", *stats.Games.Appearances)
		}
		if stats.Games.Rating != nil {
			t.Errorf("expected nil rating, got %v", stats.Games.Rating)
		}
		if stats.Goals.Saves == nil || *stats.Goals.Saves != 61 {
			t.Errorf("expected 61 saves, got %v", stats.Goals.Saves)
		}
	})
}

func TestAPIErrors_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErrs  bool
		wantCount int
	}{
		{"empty array", `[]`, false, 0},
		{"error object", `{"token": "Error/Missing application key."}`, true, 1},
		{"multiple errors", `{"league": "required", "season": "required"}`, true, 2},
		{"array with message", `["rate limit reached"]`, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e APIErrors
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if e.HasErrors() != tt.wantErrs {
				t.Errorf("HasErrors() = %v, want %v", e.HasErrors(), tt.wantErrs)
			}
			if len(e) != tt.wantCount {
				t.Errorf("expected %d errors, got %d", tt.wantCount, len(e))
			}
		})
	}

	t.Run("invalid shape", func(t *testing.T) {
		var e APIErrors
		if err := json.Unmarshal([]byte(`42`), &e); err == nil {
			t.Fatal("expected error for numeric errors field")
		}
	})
}

func TestFlexFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"quoted string", `"7.53"`, 7.53},
		{"plain number", `6.8`, 6.8},
		{"integer", `7`, 7},
		{"empty string", `""`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if float64(f) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, float64(f))
			}
		})
	}

	t.Run("invalid string", func(t *testing.T) {
		var f FlexFloat
		if err := json.Unmarshal([]byte(`"abc"`), &f); err == nil {
			t.Fatal("expected error for non-numeric string")
		}
	})
}

func TestStatusResponse_JSONUnmarshal(t *testing.T) {
	jsonData := `{
		"get": "status",
		"errors": [],
		"results": 1,
		"response": {
			"account": {"firstname": "Scout", "lastname": "Lens", "email": "scout@example.com"},
			"subscription": {"plan": "Free", "end": "2027-01-01T00:00:00+00:00", "active": true},
			"requests": {"current": 12, "limit_day": 100}
		}
	}`

	var resp StatusResponse
	if err := json.Unmarshal([]byte(jsonData), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !resp.Response.Subscription.Active {
		t.Error("expected active subscription")
	}
	if resp.Response.Requests.LimitDay != 100 {
		t.Errorf("expected daily limit 100, got %d", resp.Response.Requests.LimitDay)
	}
}
