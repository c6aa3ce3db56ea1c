// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Package apifootball holds the wire types for the API-Football v3 REST API
// (api-sports.io). Numeric statistics are frequently null upstream, so they
// are modeled as pointers and resolved during normalization.
package apifootball

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// PlayersResponse is the envelope returned by the /players family of
// endpoints (topscorers, players, players/statistics).
type PlayersResponse struct {
	Get        string            `json:"get"`
	Parameters map[string]string `json:"parameters"`
	Errors     APIErrors         `json:"errors"`
	Results    int               `json:"results"`
	Paging     Paging            `json:"paging"`
	Response   []PlayerEntry     `json:"response"`
}

// Paging reports upstream pagination position.
type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// APIErrors handles API-Football's inconsistent errors field: an empty
// array on success, a {name: message} object on failure.
type APIErrors map[string]string

// UnmarshalJSON accepts both the empty-array and object forms.
func (e *APIErrors) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) > 0 {
			m := make(map[string]string, len(arr))
			for i, msg := range arr {
				m[fmt.Sprintf("error_%d", i)] = msg
			}
			*e = m
		}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("errors field is neither array nor object: %w", err)
	}
	*e = m
	return nil
}

// HasErrors reports whether the upstream response carries errors.
func (e APIErrors) HasErrors() bool {
	return len(e) > 0
}

// String joins the error entries into a single semicolon-separated message,
// with keys sorted for deterministic output.
func (e APIErrors) String() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// PlayerEntry is one element of the response array: a player and the
// statistics blocks for each team/competition they appeared in.
type PlayerEntry struct {
	Player     Player       `json:"player"`
	Statistics []Statistics `json:"statistics"`
}

// Player holds player identity fields.
type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Age         *int   `json:"age"`
	Birth       Birth  `json:"birth"`
	Nationality string `json:"nationality"`
	Height      string `json:"height"` // e.g. "180 cm"
	Weight      string `json:"weight"` // e.g. "75 kg"
	Injured     bool   `json:"injured"`
	Photo       string `json:"photo"`
}

// Birth holds player birth details.
type Birth struct {
	Date    string `json:"date"`
	Place   string `json:"place"`
	Country string `json:"country"`
}

// Statistics is one per-team, per-competition stat block.
type Statistics struct {
	Team     Team       `json:"team"`
	League   LeagueInfo `json:"league"`
	Games    Games      `json:"games"`
	Shots    Shots      `json:"shots"`
	Goals    Goals      `json:"goals"`
	Passes   Passes     `json:"passes"`
	Tackles  Tackles    `json:"tackles"`
	Duels    Duels      `json:"duels"`
	Dribbles Dribbles   `json:"dribbles"`
	Cards    Cards      `json:"cards"`
}

// Team identifies the team a stat block belongs to.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// LeagueInfo identifies the competition and season of a stat block.
type LeagueInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
	Flag    string `json:"flag"`
}

// Games holds appearance data. The upstream field is spelled
// "appearences"; that is not a typo here.
type Games struct {
	Appearances *int       `json:"appearences"`
	Lineups     *int       `json:"lineups"`
	Minutes     *int       `json:"minutes"`
	Position    string     `json:"position"`
	Rating      *FlexFloat `json:"rating"` // delivered as a string, e.g. "7.53"
	Captain     bool       `json:"captain"`
}

// Shots holds shooting stats.
type Shots struct {
	Total *int `json:"total"`
	On    *int `json:"on"`
}

// Goals holds scoring stats.
type Goals struct {
	Total    *int `json:"total"`
	Conceded *int `json:"conceded"`
	Assists  *int `json:"assists"`
	Saves    *int `json:"saves"`
}

// Passes holds passing stats. Accuracy is a percentage.
type Passes struct {
	Total    *int `json:"total"`
	Key      *int `json:"key"`
	Accuracy *int `json:"accuracy"`
}

// Tackles holds defensive stats.
type Tackles struct {
	Total         *int `json:"total"`
	Blocks        *int `json:"blocks"`
	Interceptions *int `json:"interceptions"`
}

// Duels holds duel stats.
type Duels struct {
	Total *int `json:"total"`
	Won   *int `json:"won"`
}

// Dribbles holds take-on stats.
type Dribbles struct {
	Attempts *int `json:"attempts"`
	Success  *int `json:"success"`
	Past     *int `json:"past"`
}

// Cards holds discipline stats.
type Cards struct {
	Yellow    *int `json:"yellow"`
	YellowRed *int `json:"yellowred"`
	Red       *int `json:"red"`
}

// FlexFloat unmarshals a number that the API may deliver as either a JSON
// number or a quoted string ("7.53").
type FlexFloat float64

// UnmarshalJSON accepts both forms.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		var v float64
		if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// Float64 returns the underlying value, 0 when nil.
func (f *FlexFloat) Float64() float64 {
	if f == nil {
		return 0
	}
	return float64(*f)
}
