// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Command server runs the ScoutLens API server.
//
// # Initialization Order
//
//  1. Configuration (koanf: defaults, optional YAML file, SCOUTLENS_* env vars)
//  2. Logging (zerolog, level/format from config)
//  3. Response cache (BadgerDB, on-disk or in-memory)
//  4. Upstream client (API-Football via api-sports.io or RapidAPI, or the
//     deterministic mock source) wrapped in a circuit breaker
//  5. Stat store, recommendation engine, league refresher
//  6. HTTP router (chi) and server
//  7. Supervisor tree (suture): data layer (refresher, cache GC) and API layer
//  8. Signal handling and graceful shutdown
//
// # Example Usage
//
// Development against the mock data source (no network, no API key):
//
//	export SCOUTLENS_UPSTREAM_SOURCE=mock
//	./scoutlens
//
// Production with an api-sports.io account:
//
//	export SCOUTLENS_UPSTREAM_SOURCE=apisports
//	export SCOUTLENS_UPSTREAM_KEY=your-api-key
//	export SCOUTLENS_CACHE_PATH=/data/cache
//	./scoutlens
//
// Via RapidAPI:
//
//	export SCOUTLENS_UPSTREAM_SOURCE=rapidapi
//	export SCOUTLENS_UPSTREAM_KEY=your-rapidapi-key
//	./scoutlens
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scoutlens/scoutlens/internal/api"
	"github.com/scoutlens/scoutlens/internal/apifootball"
	"github.com/scoutlens/scoutlens/internal/cache"
	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/logging"
	"github.com/scoutlens/scoutlens/internal/recommend"
	"github.com/scoutlens/scoutlens/internal/stats"
	"github.com/scoutlens/scoutlens/internal/supervisor"
	"github.com/scoutlens/scoutlens/internal/sync"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", config.Version).
		Str("source", cfg.Upstream.Source).
		Int("leagues", len(cfg.Scout.Leagues)).
		Int("season", cfg.Scout.Season).
		Msg("Starting ScoutLens")

	// Response cache for upstream API payloads. An empty path runs Badger
	// in-memory, which is what the mock source and tests use.
	responses, err := cache.OpenResponseCache(cfg.Cache.Path, cfg.Cache.TTL)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Cache.Path).Msg("Failed to open response cache")
	}
	defer func() {
		if err := responses.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing response cache")
		}
	}()

	var client apifootball.API
	if cfg.Upstream.Source == config.SourceMock {
		client = apifootball.NewMockClient()
		logging.Warn().Msg("Upstream source is 'mock': serving deterministic generated data, no network calls")
	} else {
		// Circuit breaker prevents hammering API-Football when it is
		// down or the quota is exhausted.
		client = apifootball.NewBreaker(apifootball.NewClient(&cfg.Upstream, responses))
	}

	store := stats.NewStore(cfg.Cache.ResultTTL)
	engine := recommend.NewEngine(&cfg.Recommend, logging.Logger())
	refresher := sync.NewRefresher(&cfg.Scout, client, store, engine, logging.Logger())

	handler := api.NewHandler(cfg, client, store, engine, refresher, responses)
	router := api.NewRouter(cfg, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(refresher)
	if cfg.Cache.Path != "" {
		// Value log GC only applies to the on-disk cache.
		tree.AddDataService(supervisor.NewCacheGCService(responses, 0))
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, treeConfig.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("ScoutLens stopped gracefully")
}
