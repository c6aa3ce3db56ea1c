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
	"github.com/goccy/go-json"

	"github.com/scoutlens/scoutlens/internal/logging"
	"github.com/scoutlens/scoutlens/internal/models"
	"github.com/scoutlens/scoutlens/internal/recommend"
)

// recommendQueryRequest is the POST body for criteria and reference
// recommendations.
type recommendQueryRequest struct {
	PlayerID   int               `json:"player_id" validate:"omitempty,gt=0"`
	Position   string            `json:"position" validate:"omitempty,position"`
	MinRating  float64           `json:"min_rating" validate:"omitempty,gte=0,lte=10"`
	MaxAge     int               `json:"max_age" validate:"omitempty,gt=0,lte=50"`
	MinMinutes float64           `json:"min_minutes" validate:"omitempty,gte=0"`
	Features   []string          `json:"features" validate:"omitempty,dive,statfeature"`
	Toggles    recommend.Toggles `json:"toggles"`
	K          int               `json:"k" validate:"omitempty,min=1,max=50"`
}

// RecommendQuery runs a recommendation from a JSON query body.
func (h *Handler) RecommendQuery(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommendQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation,
			"Request body must be valid JSON", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	h.runRecommendation(w, r, recommend.Query{
		PlayerID:   req.PlayerID,
		Position:   req.Position,
		MinRating:  req.MinRating,
		MaxAge:     req.MaxAge,
		MinMinutes: req.MinMinutes,
		Features:   req.Features,
		Toggles:    req.Toggles,
		K:          req.K,
	}, start)
}

// similarRequest bounds the GET similarity endpoint parameters.
type similarRequest struct {
	PlayerID int      `validate:"required,gt=0"`
	K        int      `validate:"omitempty,min=1,max=50"`
	Features []string `validate:"omitempty,dive,statfeature"`
	Position string   `validate:"omitempty,position"`
}

// RecommendSimilar finds players similar to a reference player. Without
// explicit features, every feature group is enabled.
func (h *Handler) RecommendSimilar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil || playerID <= 0 {
		respondError(w, http.StatusBadRequest, codeValidation,
			"playerID must be a positive integer", nil)
		return
	}

	req := similarRequest{
		PlayerID: playerID,
		K:        getIntParam(r, "k", 0),
		Features: splitListParam(r, "features"),
		Position: r.URL.Query().Get("position"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	query := recommend.Query{
		PlayerID: req.PlayerID,
		Position: req.Position,
		Features: req.Features,
		K:        req.K,
	}
	if len(query.Features) == 0 {
		query.Toggles = recommend.AllToggles()
	}

	h.runRecommendation(w, r, query, start)
}

// runRecommendation executes a query against the merged pool and writes
// the result.
func (h *Handler) runRecommendation(w http.ResponseWriter, r *http.Request, query recommend.Query, start time.Time) {
	table := h.store.Merged()
	if table.Len() == 0 {
		respondError(w, http.StatusNotFound, codeNoData,
			"No player data loaded yet; try again after a sync", nil)
		return
	}

	query.RequestID = logging.RequestIDFromContext(r.Context())

	result, err := h.engine.FindSimilar(r.Context(), &table, query)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      result.Metadata.CacheHit,
		},
	})
}
