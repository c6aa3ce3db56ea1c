// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package apifootball

// StatusResponse is the envelope returned by the /status endpoint. It
// reports the account and daily request quota and doubles as the
// readiness probe target.
type StatusResponse struct {
	Get      string     `json:"get"`
	Errors   APIErrors  `json:"errors"`
	Results  int        `json:"results"`
	Response StatusData `json:"response"`
}

// StatusData holds account, subscription, and quota details.
type StatusData struct {
	Account      Account      `json:"account"`
	Subscription Subscription `json:"subscription"`
	Requests     Requests     `json:"requests"`
}

// Account identifies the API-Football account.
type Account struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
}

// Subscription describes the active plan.
type Subscription struct {
	Plan   string `json:"plan"`
	End    string `json:"end"`
	Active bool   `json:"active"`
}

// Requests reports daily quota consumption.
type Requests struct {
	Current  int `json:"current"`
	LimitDay int `json:"limit_day"`
}
