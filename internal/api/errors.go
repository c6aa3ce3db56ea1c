// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/scoutlens/scoutlens/internal/apifootball"
	"github.com/scoutlens/scoutlens/internal/recommend"
	"github.com/scoutlens/scoutlens/internal/stats"
	"github.com/scoutlens/scoutlens/internal/sync"
)

// Error codes returned in the response envelope.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeSchema         = "SCHEMA_ERROR"
	codeEmptyFeatures  = "EMPTY_FEATURE_SET"
	codeFewFeatures    = "INSUFFICIENT_FEATURES"
	codeNoData         = "NO_DATA"
	codeUpstream       = "UPSTREAM_ERROR"
	codeUnavailable    = "UPSTREAM_UNAVAILABLE"
	codeSyncInProgress = "SYNC_IN_PROGRESS"
	codeInternal       = "INTERNAL_ERROR"
)

// respondDomainError maps domain sentinels to HTTP status and envelope
// codes. Anything unrecognized becomes a 500 without leaking internals.
func respondDomainError(w http.ResponseWriter, err error) {
	var schemaErr *stats.SchemaError

	switch {
	case errors.Is(err, recommend.ErrEmptyFeatureSet):
		respondError(w, http.StatusBadRequest, codeEmptyFeatures,
			"Select at least one feature group or column", nil)
	case errors.Is(err, recommend.ErrInsufficientFeatures):
		respondError(w, http.StatusBadRequest, codeFewFeatures, err.Error(), nil)
	case errors.Is(err, recommend.ErrPlayerNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "Player not found", nil)
	case errors.As(err, &schemaErr):
		respondError(w, http.StatusUnprocessableEntity, codeSchema, err.Error(), nil)
	case errors.Is(err, stats.ErrNoData):
		respondError(w, http.StatusNotFound, codeNoData,
			"No player data loaded yet; try again after a sync", nil)
	case errors.Is(err, apifootball.ErrCircuitOpen):
		respondError(w, http.StatusServiceUnavailable, codeUnavailable,
			"Upstream temporarily unavailable", nil)
	case errors.Is(err, apifootball.ErrUpstreamStatus), errors.Is(err, apifootball.ErrAPIError):
		respondError(w, http.StatusBadGateway, codeUpstream,
			"Unable to fetch data from API-Football", err)
	case errors.Is(err, sync.ErrRefreshInProgress):
		respondError(w, http.StatusConflict, codeSyncInProgress,
			"A refresh is already running", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, codeUpstream, "Request timed out", nil)
	default:
		respondError(w, http.StatusInternalServerError, codeInternal,
			"An internal error occurred", err)
	}
}
