// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Package api exposes the scouting data over HTTP: league tables, player
// profiles, analytics aggregates, and the similarity recommender. All
// responses use the models.APIResponse envelope.
package api

import (
	"net/http"
	"time"

	"github.com/scoutlens/scoutlens/internal/apifootball"
	"github.com/scoutlens/scoutlens/internal/cache"
	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/recommend"
	"github.com/scoutlens/scoutlens/internal/stats"
	"github.com/scoutlens/scoutlens/internal/sync"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	cfg       *config.Config
	client    apifootball.API
	store     *stats.Store
	engine    *recommend.Engine
	refresher *sync.Refresher
	responses *cache.ResponseCache
	startTime time.Time
}

// NewHandler creates the API handler set.
func NewHandler(cfg *config.Config, client apifootball.API, store *stats.Store, engine *recommend.Engine, refresher *sync.Refresher, responses *cache.ResponseCache) *Handler {
	return &Handler{
		cfg:       cfg,
		client:    client,
		store:     store,
		engine:    engine,
		refresher: refresher,
		responses: responses,
		startTime: time.Now(),
	}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	Version       string     `json:"version"`
	DataLoaded    bool       `json:"data_loaded"`
	LeaguesLoaded int        `json:"leagues_loaded"`
	LastRefresh   *time.Time `json:"last_refresh,omitempty"`
	LastSyncError string     `json:"last_sync_error,omitempty"`
	UptimeSeconds float64    `json:"uptime_seconds"`
}

// Health reports overall service health: degraded while no data is
// loaded or the last refresh failed.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	loaded := h.store.Loaded()
	syncStatus := h.refresher.Status()

	status := "healthy"
	if !loaded || syncStatus.LastError != "" {
		status = "degraded"
	}

	var lastRefresh *time.Time
	if !syncStatus.LastSuccess.IsZero() {
		t := syncStatus.LastSuccess
		lastRefresh = &t
	}

	respondSuccess(w, HealthStatus{
		Status:        status,
		Source:        h.cfg.Upstream.Source,
		Version:       config.Version,
		DataLoaded:    loaded,
		LeaguesLoaded: len(h.store.Keys()),
		LastRefresh:   lastRefresh,
		LastSyncError: syncStatus.LastError,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady is the readiness probe: at least one league table is
// loaded and the upstream API answers, so data endpoints can serve.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.store.Loaded() {
		respondError(w, http.StatusServiceUnavailable, codeNoData,
			"No league tables loaded yet", nil)
		return
	}
	if _, err := h.client.Status(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, codeUnavailable,
			"Upstream API unreachable", nil)
		return
	}
	respondSuccess(w, map[string]string{"status": "ready"}, time.Now())
}

// LeagueInfo describes one tracked league and its load state.
type LeagueInfo struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Country   string     `json:"country"`
	Season    int        `json:"season"`
	Loaded    bool       `json:"loaded"`
	Rows      int        `json:"rows"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Leagues lists the tracked leagues with per-league table state.
func (h *Handler) Leagues(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	season := h.cfg.Scout.Season

	leagues := make([]LeagueInfo, 0, len(h.cfg.Scout.Leagues))
	for _, lg := range h.cfg.Scout.Leagues {
		info := LeagueInfo{
			ID:      lg.ID,
			Name:    lg.Name,
			Country: lg.Country,
			Season:  season,
		}
		if table, ok := h.store.Get(lg.ID, season); ok {
			info.Loaded = true
			info.Rows = table.Len()
		}
		if ts, ok := h.store.UpdatedAt(lg.ID, season); ok {
			info.UpdatedAt = &ts
		}
		leagues = append(leagues, info)
	}

	respondSuccess(w, map[string]interface{}{
		"season":  season,
		"leagues": leagues,
	}, start)
}
