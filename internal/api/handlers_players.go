// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/scoutlens/scoutlens/internal/models"
	"github.com/scoutlens/scoutlens/internal/stats"
)

// topPlayersRequest bounds the dashboard table query.
type topPlayersRequest struct {
	League int    `validate:"required,gt=0"`
	Season int    `validate:"required,gte=2000,lte=2100"`
	Metric string `validate:"omitempty,statfeature"`
	Limit  int    `validate:"min=1,max=100"`
	Offset int    `validate:"min=0"`
}

// TopPlayers serves the per-league dashboard table, paginated and
// optionally re-sorted by a metric.
func (h *Handler) TopPlayers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := topPlayersRequest{
		League: getIntParam(r, "league", h.defaultLeagueID()),
		Season: getIntParam(r, "season", h.cfg.Scout.Season),
		Metric: r.URL.Query().Get("metric"),
		Limit:  getIntParam(r, "limit", h.cfg.API.DefaultPageSize),
		Offset: getIntParam(r, "offset", 0),
	}
	if req.Limit > h.cfg.API.MaxPageSize {
		req.Limit = h.cfg.API.MaxPageSize
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	table, ok := h.store.Get(req.League, req.Season)
	if !ok {
		respondError(w, http.StatusNotFound, codeNoData,
			"League table not loaded; check /api/v1/leagues", nil)
		return
	}

	sorted := *table
	if req.Metric != "" {
		sorted = table.TopByMetric(req.Metric, 0, false)
	}

	total := sorted.Len()
	rows := sorted.Rows
	if req.Offset < len(rows) {
		rows = rows[req.Offset:]
	} else {
		rows = nil
	}
	if len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}

	respondSuccess(w, map[string]interface{}{
		"league":  req.League,
		"season":  req.Season,
		"columns": sorted.Columns,
		"players": rows,
		"pagination": models.PaginationInfo{
			Limit:      req.Limit,
			Offset:     req.Offset,
			HasMore:    req.Offset+len(rows) < total,
			TotalCount: total,
		},
	}, start)
}

// PlayerByID serves one player's profile row with derived metrics. A
// player missing from the loaded tables is fetched upstream, normalized
// on the fly, and served without being stored.
func (h *Handler) PlayerByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil || playerID <= 0 {
		respondError(w, http.StatusBadRequest, codeValidation,
			"playerID must be a positive integer", nil)
		return
	}
	season := getIntParam(r, "season", h.cfg.Scout.Season)

	merged := h.store.Merged()
	if row, ok := merged.PlayerByID(playerID); ok {
		respondSuccess(w, row, start)
		return
	}

	raw, err := h.client.PlayerByID(r.Context(), playerID, season)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	table, err := stats.Normalize(raw)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	table = stats.DeriveMetrics(table)

	row, ok := table.PlayerByID(playerID)
	if !ok {
		respondError(w, http.StatusNotFound, codeNotFound, "Player not found", nil)
		return
	}
	respondSuccess(w, row, start)
}

// PlayerStatistics passes the upstream per-player statistics payload
// through, served from the response cache when warm.
func (h *Handler) PlayerStatistics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil || playerID <= 0 {
		respondError(w, http.StatusBadRequest, codeValidation,
			"playerID must be a positive integer", nil)
		return
	}
	season := getIntParam(r, "season", h.cfg.Scout.Season)

	raw, err := h.client.PlayerStatistics(r.Context(), playerID, season)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if len(raw.Response) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "Player not found", nil)
		return
	}
	respondSuccess(w, raw.Response, start)
}

// searchRequest bounds the advanced player search.
type searchRequest struct {
	Position  string  `validate:"omitempty,position"`
	MinRating float64 `validate:"omitempty,gte=0,lte=10"`
	MaxAge    int     `validate:"omitempty,gt=0,lte=50"`
	Metric    string  `validate:"omitempty,statfeature"`
	Order     string  `validate:"omitempty,oneof=asc desc"`
	Limit     int     `validate:"min=1,max=100"`
}

// SearchPlayers runs the advanced search over the merged candidate pool.
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := searchRequest{
		Position:  r.URL.Query().Get("position"),
		MinRating: getFloatParam(r, "min_rating", 0),
		MaxAge:    getIntParam(r, "max_age", 0),
		Metric:    r.URL.Query().Get("metric"),
		Order:     r.URL.Query().Get("order"),
		Limit:     getIntParam(r, "limit", h.cfg.API.DefaultPageSize),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	table := h.store.Merged()
	if table.Len() == 0 {
		respondError(w, http.StatusNotFound, codeNoData,
			"No player data loaded yet; try again after a sync", nil)
		return
	}

	if req.Position != "" {
		table = table.FilterPosition(req.Position)
	}
	table = filterNumeric(table, req.MinRating, req.MaxAge)

	metric := req.Metric
	if metric == "" {
		metric = stats.ColRating
	}
	table = table.TopByMetric(metric, req.Limit, req.Order == "asc")

	respondSuccess(w, map[string]interface{}{
		"total":   table.Len(),
		"metric":  metric,
		"columns": table.Columns,
		"players": table.Rows,
	}, start)
}

// filterNumeric drops rows below a minimum rating or above a maximum age.
func filterNumeric(table stats.PlayerTable, minRating float64, maxAge int) stats.PlayerTable {
	if minRating <= 0 && maxAge <= 0 {
		return table
	}

	return table.Filter(func(row *stats.PlayerRecord) bool {
		if minRating > 0 {
			if v, ok := row.Stat(stats.ColRating); !ok || v < minRating {
				return false
			}
		}
		if maxAge > 0 {
			if v, ok := row.Stat(stats.ColAge); !ok || v > float64(maxAge) {
				return false
			}
		}
		return true
	})
}

func (h *Handler) defaultLeagueID() int {
	if len(h.cfg.Scout.Leagues) > 0 {
		return h.cfg.Scout.Leagues[0].ID
	}
	return 0
}
