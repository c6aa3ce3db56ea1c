// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package api

import (
	"net/http"
	"time"

	"github.com/scoutlens/scoutlens/internal/stats"
)

// analyticsSummaryRequest bounds the aggregate query.
type analyticsSummaryRequest struct {
	GroupBy string `validate:"required,oneof=league season"`
}

// AnalyticsSummary serves per-league or per-season mean aggregates, the
// dashboard chart feed.
func (h *Handler) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := analyticsSummaryRequest{
		GroupBy: r.URL.Query().Get("group_by"),
	}
	if req.GroupBy == "" {
		req.GroupBy = stats.GroupByLeague
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	agg, err := h.store.Aggregated(req.GroupBy)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, map[string]interface{}{
		"group_by": req.GroupBy,
		"columns":  agg.Columns,
		"groups":   agg.Rows,
	}, start)
}

// analyticsTopRequest bounds the top-N chart query.
type analyticsTopRequest struct {
	Metric   string `validate:"required,statfeature"`
	N        int    `validate:"min=1,max=100"`
	Position string `validate:"omitempty,position"`
}

// AnalyticsTop serves the top-N players for one metric across all loaded
// leagues.
func (h *Handler) AnalyticsTop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := analyticsTopRequest{
		Metric:   r.URL.Query().Get("metric"),
		N:        getIntParam(r, "n", 10),
		Position: r.URL.Query().Get("position"),
	}
	if req.Metric == "" {
		req.Metric = stats.ColGoals
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
	top := table.TopByMetric(req.Metric, req.N, false)

	respondSuccess(w, map[string]interface{}{
		"metric":  req.Metric,
		"players": top.Rows,
	}, start)
}
