// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package stats

import (
	"fmt"

	"github.com/scoutlens/scoutlens/internal/logging"
	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

// Normalize flattens a raw players payload into a table, one row per
// player x statistics block. Entries missing their identity (player ID or
// name) are dropped and counted in the table's Skipped field; an input
// with no usable rows at all is an error.
//
// Missing numeric values fill with zero and are excluded from the table's
// populated-column intersection. Missing strings fill with "".
//
// Normalize is deterministic: identical input yields an identical table.
func Normalize(raw *apifootball.PlayersResponse) (PlayerTable, error) {
	if raw == nil || len(raw.Response) == 0 {
		return PlayerTable{}, fmt.Errorf("normalize: %w", ErrNoData)
	}

	table := PlayerTable{}
	var schemaErrs []*SchemaError

	for i, entry := range raw.Response {
		if err := checkIdentity(i, entry); err != nil {
			schemaErrs = append(schemaErrs, err)
			continue
		}

		if len(entry.Statistics) == 0 {
			schemaErrs = append(schemaErrs, &SchemaError{
				Index:    i,
				PlayerID: entry.Player.ID,
				Reason:   "no statistics blocks",
			})
			continue
		}

		for _, block := range entry.Statistics {
			table.Rows = append(table.Rows, normalizeRow(entry.Player, block))
		}
	}

	table.Skipped = len(schemaErrs)
	for _, se := range schemaErrs {
		logging.Warn().Str("component", "stats").Err(se).Msg("Dropped malformed player entry")
	}

	if len(table.Rows) == 0 {
		return PlayerTable{}, fmt.Errorf("normalize: all %d entries malformed: %w", len(raw.Response), ErrNoData)
	}

	table.recomputeColumns()
	return table, nil
}

// checkIdentity validates the fields a record cannot exist without.
func checkIdentity(index int, entry apifootball.PlayerEntry) *SchemaError {
	if entry.Player.ID <= 0 {
		return &SchemaError{Index: index, Reason: "missing player id"}
	}
	if entry.Player.Name == "" && entry.Player.LastName == "" {
		return &SchemaError{Index: index, PlayerID: entry.Player.ID, Reason: "missing player name"}
	}
	return nil
}

// normalizeRow flattens one player x statistics block pair.
func normalizeRow(player apifootball.Player, block apifootball.Statistics) PlayerRecord {
	name := player.Name
	if name == "" {
		name = player.LastName
	}

	rec := PlayerRecord{
		PlayerID:    player.ID,
		Name:        name,
		FirstName:   player.FirstName,
		LastName:    player.LastName,
		Nationality: player.Nationality,
		Height:      player.Height,
		Weight:      player.Weight,
		Position:    block.Games.Position,
		Photo:       player.Photo,
		TeamID:      block.Team.ID,
		TeamName:    block.Team.Name,
		LeagueID:    block.League.ID,
		LeagueName:  block.League.Name,
		Season:      block.League.Season,
		Stats:       make(map[string]float64),
		Populated:   make(map[string]struct{}),
	}

	fillInt(&rec, ColAge, player.Age)
	fillInt(&rec, ColAppearances, block.Games.Appearances)
	fillInt(&rec, ColLineups, block.Games.Lineups)
	fillInt(&rec, ColMinutes, block.Games.Minutes)
	if block.Games.Rating != nil {
		rec.setStat(ColRating, float64(*block.Games.Rating))
	} else {
		rec.setMissing(ColRating)
	}
	fillInt(&rec, ColGoals, block.Goals.Total)
	fillInt(&rec, ColAssists, block.Goals.Assists)
	fillInt(&rec, ColShotsTotal, block.Shots.Total)
	fillInt(&rec, ColShotsOnTarget, block.Shots.On)
	fillInt(&rec, ColPassesTotal, block.Passes.Total)
	fillInt(&rec, ColKeyPasses, block.Passes.Key)
	fillInt(&rec, ColPassAccuracy, block.Passes.Accuracy)
	fillInt(&rec, ColTackles, block.Tackles.Total)
	fillInt(&rec, ColBlocks, block.Tackles.Blocks)
	fillInt(&rec, ColInterceptions, block.Tackles.Interceptions)
	fillInt(&rec, ColDuelsTotal, block.Duels.Total)
	fillInt(&rec, ColDuelsWon, block.Duels.Won)
	fillInt(&rec, ColDribbleAtt, block.Dribbles.Attempts)
	fillInt(&rec, ColDribbleSucc, block.Dribbles.Success)
	fillInt(&rec, ColYellowCards, block.Cards.Yellow)
	fillInt(&rec, ColRedCards, block.Cards.Red)

	return rec
}

func fillInt(rec *PlayerRecord, col string, v *int) {
	if v == nil {
		rec.setMissing(col)
		return
	}
	rec.setStat(col, float64(*v))
}
