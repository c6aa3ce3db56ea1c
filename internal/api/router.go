// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/middleware"
)

// Router wires handlers into the HTTP surface.
type Router struct {
	cfg     *config.Config
	handler *Handler
}

// NewRouter creates the router for the given handler set.
func NewRouter(cfg *config.Config, handler *Handler) *Router {
	return &Router{cfg: cfg, handler: handler}
}

// Setup builds the chi routing tree with the full middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"ETag", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints get a permissive rate limit for monitoring.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.rateLimit(1000, time.Minute))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Data endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit(router.cfg.RateLimit.Requests, router.cfg.RateLimit.Window))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/leagues", router.handler.Leagues)

		r.Get("/players", router.handler.SearchPlayers)
		r.Get("/players/top", router.handler.TopPlayers)
		r.Get("/players/{playerID}", router.handler.PlayerByID)
		r.Get("/players/{playerID}/statistics", router.handler.PlayerStatistics)

		r.Get("/analytics/summary", router.handler.AnalyticsSummary)
		r.Get("/analytics/top", router.handler.AnalyticsTop)

		r.Post("/recommendations/query", router.handler.RecommendQuery)
		r.Get("/recommendations/similar/{playerID}", router.handler.RecommendSimilar)

		r.Post("/sync", router.handler.SyncTrigger)
		r.Get("/sync/status", router.handler.SyncStatus)
		r.Post("/cache/clear", router.handler.CacheClear)
	})

	// Prometheus scrape endpoint, outside the API rate limits.
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, codeNotFound, "Endpoint not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}

// rateLimit builds an IP-keyed limiter, or a no-op when disabled.
func (router *Router) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if router.cfg.RateLimit.Disabled || requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests", nil)
		}),
	)
}
