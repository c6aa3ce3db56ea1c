// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package apifootball

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

// Name pools for generated players.
var (
	mockFirstNames = []string{
		"Lionel", "Cristiano", "Robert", "Kevin", "Mohamed",
		"Virgil", "Sergio", "Harry", "Kylian", "Erling",
	}
	mockLastNames = []string{
		"Messi", "Ronaldo", "Lewandowski", "De Bruyne", "Salah",
		"van Dijk", "Ramos", "Kane", "Mbappe", "Haaland",
	}
	mockTeams = []string{
		"Manchester United", "Barcelona", "Real Madrid", "Bayern Munich",
		"Liverpool", "Paris Saint-Germain", "Manchester City", "Chelsea",
		"Juventus", "Borussia Dortmund",
	}
)

const mockPlayersPerLeague = 20

// MockClient implements API with generated data, used when no API key is
// configured and in tests. Generation is seeded from league and season so
// repeated calls return identical data, mirroring what a cached upstream
// would serve.
type MockClient struct {
	leagues map[int]config.League
}

// NewMockClient creates a mock data source. League names are resolved from
// the default league set; unknown IDs get a generated name.
func NewMockClient() *MockClient {
	leagues := make(map[int]config.League)
	for _, l := range config.DefaultLeagues() {
		leagues[l.ID] = l
	}
	return &MockClient{leagues: leagues}
}

// Status reports a healthy mock account.
func (m *MockClient) Status(_ context.Context) (*apifootball.StatusResponse, error) {
	return &apifootball.StatusResponse{
		Get: "status",
		Response: apifootball.StatusData{
			Account: apifootball.Account{
				FirstName: "Mock",
				LastName:  "Account",
				Email:     "mock@scoutlens.local",
			},
			Subscription: apifootball.Subscription{
				Plan:   "Mock",
				Active: true,
			},
			Requests: apifootball.Requests{
				Current:  0,
				LimitDay: 100,
			},
		},
	}, nil
}

// TopScorers generates a deterministic set of players for the league,
// ordered by goals descending as the real endpoint returns them.
func (m *MockClient) TopScorers(_ context.Context, leagueID, season int) (*apifootball.PlayersResponse, error) {
	return m.generate(leagueID, season, "players/topscorers"), nil
}

// TopAssists generates the same player pool reordered by assists.
func (m *MockClient) TopAssists(_ context.Context, leagueID, season int) (*apifootball.PlayersResponse, error) {
	resp := m.generate(leagueID, season, "players/topassists")
	entries := resp.Response
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if mockAssists(entries[j]) > mockAssists(entries[i]) {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}
	return resp, nil
}

func mockAssists(e apifootball.PlayerEntry) int {
	if len(e.Statistics) == 0 || e.Statistics[0].Goals.Assists == nil {
		return 0
	}
	return *e.Statistics[0].Goals.Assists
}

// PlayerByID searches the generated pools of all known leagues for the
// requested player ID.
func (m *MockClient) PlayerByID(_ context.Context, playerID, season int) (*apifootball.PlayersResponse, error) {
	for leagueID := range m.leagues {
		resp := m.generate(leagueID, season, "players")
		for _, entry := range resp.Response {
			if entry.Player.ID == playerID {
				return &apifootball.PlayersResponse{
					Get:        "players",
					Parameters: map[string]string{"id": strconv.Itoa(playerID), "season": strconv.Itoa(season)},
					Results:    1,
					Paging:     apifootball.Paging{Current: 1, Total: 1},
					Response:   []apifootball.PlayerEntry{entry},
				}, nil
			}
		}
	}

	return &apifootball.PlayersResponse{
		Get:        "players",
		Parameters: map[string]string{"id": strconv.Itoa(playerID), "season": strconv.Itoa(season)},
		Results:    0,
		Paging:     apifootball.Paging{Current: 1, Total: 1},
		Response:   []apifootball.PlayerEntry{},
	}, nil
}

// PlayerStatistics returns the generated statistics for a player, identical
// to PlayerByID for the mock source.
func (m *MockClient) PlayerStatistics(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error) {
	return m.PlayerByID(ctx, playerID, season)
}

// ClearCache is a no-op for the mock source.
func (m *MockClient) ClearCache(_ context.Context) error {
	return nil
}

// generate builds the deterministic player pool for a league and season.
// Player IDs are leagueID*1000+index so pools never collide across leagues.
func (m *MockClient) generate(leagueID, season int, get string) *apifootball.PlayersResponse {
	rng := rand.New(rand.NewSource(int64(leagueID)<<16 | int64(season)))

	league := m.leagues[leagueID]
	if league.Name == "" {
		league = config.League{ID: leagueID, Name: fmt.Sprintf("League %d", leagueID)}
	}

	entries := make([]apifootball.PlayerEntry, 0, mockPlayersPerLeague)
	for i := 0; i < mockPlayersPerLeague; i++ {
		entries = append(entries, m.generatePlayer(rng, league, leagueID*1000+i, i, season))
	}

	// Order by goals descending, matching the topscorers endpoint.
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if *entries[j].Statistics[0].Goals.Total > *entries[i].Statistics[0].Goals.Total {
				entries[i], entries[j] = entries[j], entries[i]
			}
		}
	}

	return &apifootball.PlayersResponse{
		Get:        get,
		Parameters: map[string]string{"league": strconv.Itoa(leagueID), "season": strconv.Itoa(season)},
		Results:    len(entries),
		Paging:     apifootball.Paging{Current: 1, Total: 1},
		Response:   entries,
	}
}

func (m *MockClient) generatePlayer(rng *rand.Rand, league config.League, playerID, idx, season int) apifootball.PlayerEntry {
	position := rollPosition(rng)

	var goals, assists, accuracy, tackles int
	switch position {
	case "Attacker":
		goals = 10 + rng.Intn(21)
		assists = 2 + rng.Intn(14)
		accuracy = 70 + rng.Intn(16)
		tackles = 5 + rng.Intn(16)
	case "Midfielder":
		goals = 3 + rng.Intn(10)
		assists = 5 + rng.Intn(16)
		accuracy = 80 + rng.Intn(13)
		tackles = 30 + rng.Intn(41)
	case "Defender":
		goals = 1 + rng.Intn(5)
		assists = 1 + rng.Intn(8)
		accuracy = 75 + rng.Intn(16)
		tackles = 50 + rng.Intn(71)
	default: // Goalkeeper
		goals = 0
		assists = rng.Intn(3)
		accuracy = 70 + rng.Intn(16)
		tackles = rng.Intn(6)
	}

	appearances := 20 + rng.Intn(19)
	minutes := 1800 + rng.Intn(1601)
	age := 20 + rng.Intn(17)
	rating := apifootball.FlexFloat(6.5 + rng.Float64()*2.4)
	shotsTotal := 20 + rng.Intn(81)
	shotsOn := 10 + rng.Intn(41)
	passesTotal := 500 + rng.Intn(1501)
	keyPasses := 10 + rng.Intn(61)
	blocks := 5 + rng.Intn(26)
	interceptions := 10 + rng.Intn(41)
	duelsTotal := 100 + rng.Intn(201)
	duelsWon := 50 + rng.Intn(min(duelsTotal-50, 151))
	dribbleAttempts := 10 + rng.Intn(91)
	dribbleSuccess := rng.Intn(dribbleAttempts + 1)
	yellow := rng.Intn(9)
	red := rng.Intn(2)
	lineups := appearances - rng.Intn(5)

	first := mockFirstNames[rng.Intn(len(mockFirstNames))]
	last := mockLastNames[rng.Intn(len(mockLastNames))]

	return apifootball.PlayerEntry{
		Player: apifootball.Player{
			ID:          playerID,
			Name:        first + " " + last,
			FirstName:   first,
			LastName:    last,
			Age:         &age,
			Nationality: "Mockland",
			Height:      fmt.Sprintf("%d cm", 170+rng.Intn(26)),
			Weight:      fmt.Sprintf("%d kg", 65+rng.Intn(26)),
			Photo:       fmt.Sprintf("https://media.api-sports.io/football/players/%d.png", playerID),
		},
		Statistics: []apifootball.Statistics{
			{
				Team: apifootball.Team{
					ID:   1000 + idx%len(mockTeams),
					Name: mockTeams[idx%len(mockTeams)],
				},
				League: apifootball.LeagueInfo{
					ID:      league.ID,
					Name:    league.Name,
					Country: league.Country,
					Season:  season,
				},
				Games: apifootball.Games{
					Appearances: &appearances,
					Lineups:     &lineups,
					Minutes:     &minutes,
					Position:    position,
					Rating:      &rating,
				},
				Shots: apifootball.Shots{
					Total: &shotsTotal,
					On:    &shotsOn,
				},
				Goals: apifootball.Goals{
					Total:   &goals,
					Assists: &assists,
				},
				Passes: apifootball.Passes{
					Total:    &passesTotal,
					Key:      &keyPasses,
					Accuracy: &accuracy,
				},
				Tackles: apifootball.Tackles{
					Total:         &tackles,
					Blocks:        &blocks,
					Interceptions: &interceptions,
				},
				Duels: apifootball.Duels{
					Total: &duelsTotal,
					Won:   &duelsWon,
				},
				Dribbles: apifootball.Dribbles{
					Attempts: &dribbleAttempts,
					Success:  &dribbleSuccess,
				},
				Cards: apifootball.Cards{
					Yellow: &yellow,
					Red:    &red,
				},
			},
		},
	}
}

// rollPosition picks a position with the rough frequency the scouting data
// shows: attackers dominate topscorers lists.
func rollPosition(rng *rand.Rand) string {
	r := rng.Float64()
	switch {
	case r < 0.4:
		return "Attacker"
	case r < 0.7:
		return "Midfielder"
	case r < 0.9:
		return "Defender"
	default:
		return "Goalkeeper"
	}
}
