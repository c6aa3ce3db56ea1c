// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package api

import (
	"net/http"
	"time"
)

// SyncTrigger refreshes all tracked league tables now. Returns 409 if a
// refresh is already running. The refresh runs within the request
// context, so a client disconnect aborts it.
func (h *Handler) SyncTrigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.refresher.RefreshAll(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, h.refresher.Status(), start)
}

// SyncStatus reports the refresher's state and per-league load times.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	type tableInfo struct {
		LeagueID  int       `json:"league_id"`
		Season    int       `json:"season"`
		Rows      int       `json:"rows"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	keys := h.store.Keys()
	tables := make([]tableInfo, 0, len(keys))
	for _, key := range keys {
		info := tableInfo{LeagueID: key.LeagueID, Season: key.Season}
		if table, ok := h.store.Get(key.LeagueID, key.Season); ok {
			info.Rows = table.Len()
		}
		if ts, ok := h.store.UpdatedAt(key.LeagueID, key.Season); ok {
			info.UpdatedAt = ts
		}
		tables = append(tables, info)
	}

	cachedResponses, err := h.responses.Len(r.Context())
	if err != nil {
		cachedResponses = -1
	}

	respondSuccess(w, map[string]interface{}{
		"refresher":        h.refresher.Status(),
		"tables":           tables,
		"cached_responses": cachedResponses,
	}, start)
}

// CacheClear drops the upstream response cache. The next data fetch goes
// to the network.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.client.ClearCache(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, map[string]string{"status": "cleared"}, start)
}
