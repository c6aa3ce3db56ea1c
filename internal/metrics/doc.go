// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

/*
Package metrics provides Prometheus metrics collection and export for observability.

All metrics are registered with the default registry via promauto and exposed at
the /metrics endpoint in Prometheus text format.

# Available Metrics

HTTP Metrics:
  - scoutlens_api_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status
  - scoutlens_api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - scoutlens_api_active_requests: In-flight requests (gauge)
  - scoutlens_api_rate_limit_hits_total: Requests rejected by the rate limiter (counter)

Upstream Metrics:
  - scoutlens_upstream_requests_total: API-Football requests (counter)
    Labels: endpoint, status
  - scoutlens_upstream_request_duration_seconds: Upstream latency (histogram)
    Labels: endpoint
  - scoutlens_upstream_retries_total: Retried upstream requests (counter)
    Labels: endpoint

Cache Metrics:
  - scoutlens_cache_hits_total / scoutlens_cache_misses_total /
    scoutlens_cache_evictions_total: Cache activity (counters)
    Labels: cache_type (response, result, recommend)
  - scoutlens_cache_size: Entries currently cached (gauge)
    Labels: cache_type

Sync Metrics:
  - scoutlens_sync_duration_seconds: League refresh duration (histogram)
  - scoutlens_sync_players_processed_total: Player rows ingested (counter)
  - scoutlens_sync_errors_total: Failed refreshes (counter)
    Labels: error_type (upstream, schema, other)
  - scoutlens_sync_last_success_timestamp: Unix time of last successful refresh (gauge)
  - scoutlens_sync_league_rows: Rows held per league after the last swap (gauge)
    Labels: league

Recommendation Metrics:
  - scoutlens_recommend_requests_total: Similarity queries (counter)
    Labels: mode (similar, criteria), status
  - scoutlens_recommend_duration_seconds: Query latency (histogram)
    Labels: mode
  - scoutlens_recommend_candidates: Candidate pool size distribution (histogram)

Circuit Breaker Metrics:
  - scoutlens_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
    Labels: name
  - scoutlens_circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, state
  - scoutlens_circuit_breaker_transitions_total: State changes (counter)
    Labels: name, from, to

# Usage

	import "github.com/scoutlens/scoutlens/internal/metrics"

	metrics.RecordUpstreamRequest("players/topscorers", elapsed, err)
	metrics.RecordSyncOperation(elapsed, processed, err)
	metrics.RecordRecommendation("similar", elapsed, candidates, err)

All recording functions are safe for concurrent use. Endpoint labels are chi
route patterns rather than raw URLs to keep cardinality bounded.

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/sync: League refresh metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
