// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

/*
client.go - Core API-Football v3 Client

This file provides the core Client struct and HTTP communication layer for
the API-Football REST API (api-sports.io direct plan or the RapidAPI relay).

Client Features:
  - HTTP client with configurable timeout
  - API key authentication (x-apisports-key or x-rapidapi-key headers)
  - Transparent response caching backed by Badger (24h default TTL)
  - Client-side rate limiting via golang.org/x/time/rate
  - Automatic HTTP 429 handling with exponential backoff and Retry-After
  - JSON response parsing with envelope error detection
  - Context support for cancellation and timeouts

Related Files:
  - breaker.go: Circuit breaker wrapper around this client
  - mock.go: Deterministic offline data source implementing the same interface
*/
package apifootball

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/scoutlens/scoutlens/internal/cache"
	"github.com/scoutlens/scoutlens/internal/config"
	"github.com/scoutlens/scoutlens/internal/logging"
	"github.com/scoutlens/scoutlens/internal/metrics"
	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

// Base URLs for the two supported API plans.
const (
	apiSportsBaseURL = "https://v3.football.api-sports.io"
	rapidAPIBaseURL  = "https://api-football-v1.p.rapidapi.com/v3"
	rapidAPIHost     = "api-football-v1.p.rapidapi.com"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// ErrUpstreamStatus indicates the upstream returned a non-200 HTTP status.
var ErrUpstreamStatus = errors.New("upstream returned non-200 status")

// ErrAPIError indicates the upstream returned a 200 response whose envelope
// carries an errors object (bad parameters, exhausted quota, invalid key).
var ErrAPIError = errors.New("upstream reported an API error")

// API defines the operations ScoutLens needs from the football data source.
//
// It is implemented by Client for production use, by Breaker for
// circuit-breaker protection, and by MockClient for offline operation and
// testing. All methods are safe for concurrent use and honor context
// cancellation.
type API interface {
	// Status checks connectivity and returns account/quota information.
	Status(ctx context.Context) (*apifootball.StatusResponse, error)

	// TopScorers returns the league's top scorers for a season, ordered by
	// goals descending as the upstream returns them.
	TopScorers(ctx context.Context, leagueID, season int) (*apifootball.PlayersResponse, error)

	// TopAssists returns the league's top assist providers for a season.
	TopAssists(ctx context.Context, leagueID, season int) (*apifootball.PlayersResponse, error)

	// PlayerByID returns a single player's profile and per-team statistics
	// for a season.
	PlayerByID(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error)

	// PlayerStatistics returns the full per-competition statistics blocks
	// for a player and season.
	PlayerStatistics(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error)

	// ClearCache drops all cached upstream responses.
	ClearCache(ctx context.Context) error
}

// Client handles communication with the API-Football HTTP API.
//
// Every request first consults the response cache; only misses reach the
// network. Raw response bodies are cached so a change in parsing logic never
// requires refetching. The client applies its own rate limit below the plan
// quota so a burst of internal callers cannot exhaust the daily allowance.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	source         string
	client         *http.Client
	limiter        *rate.Limiter
	responses      *cache.ResponseCache
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates an API-Football client from the upstream configuration.
// The responses cache may be nil, in which case every call reaches the
// network.
func NewClient(cfg *config.UpstreamConfig, responses *cache.ResponseCache) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Source == config.SourceRapidAPI {
			baseURL = rapidAPIBaseURL
		} else {
			baseURL = apiSportsBaseURL
		}
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 10
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    cfg.APIKey,
		source:    cfg.Source,
		responses: responses,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
		maxRetries:     cfg.RetryAttempts,
		retryBaseDelay: time.Second,
	}
}

// Status checks connectivity to the upstream and returns account information.
// Status responses are never cached: the point is a live probe.
func (c *Client) Status(ctx context.Context) (*apifootball.StatusResponse, error) {
	body, err := c.fetch(ctx, "status", nil)
	if err != nil {
		return nil, err
	}

	var result apifootball.StatusResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	if result.Errors.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, result.Errors)
	}
	return &result, nil
}

// TopScorers returns the league's top scorers for a season.
func (c *Client) TopScorers(ctx context.Context, leagueID, season int) (*apifootball.PlayersResponse, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))
	return c.players(ctx, "players/topscorers", params)
}

// TopAssists returns the league's top assist providers for a season.
func (c *Client) TopAssists(ctx context.Context, leagueID, season int) (*apifootball.PlayersResponse, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))
	return c.players(ctx, "players/topassists", params)
}

// PlayerByID returns a single player's profile and statistics for a season.
func (c *Client) PlayerByID(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(playerID))
	params.Set("season", strconv.Itoa(season))
	return c.players(ctx, "players", params)
}

// PlayerStatistics returns the full per-competition statistics blocks for a
// player and season. The v3 API delivers these on the players endpoint; the
// dedicated method exists so callers ask for what they mean.
func (c *Client) PlayerStatistics(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(playerID))
	params.Set("season", strconv.Itoa(season))
	return c.players(ctx, "players", params)
}

// ClearCache drops all cached upstream responses.
func (c *Client) ClearCache(ctx context.Context) error {
	if c.responses == nil {
		return nil
	}
	return c.responses.Clear(ctx)
}

// players fetches an endpoint returning the players envelope, going through
// the response cache, and validates the envelope.
func (c *Client) players(ctx context.Context, endpoint string, params url.Values) (*apifootball.PlayersResponse, error) {
	return c.playersFetch(ctx, endpoint, params, false)
}

func (c *Client) playersFetch(ctx context.Context, endpoint string, params url.Values, retried bool) (*apifootball.PlayersResponse, error) {
	body, hit, err := c.fetchCached(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var result apifootball.PlayersResponse
	if err := json.Unmarshal(body, &result); err != nil {
		if hit && !retried {
			// A cached body that no longer parses is stale garbage,
			// drop it and refetch exactly once. The retried flag
			// bounds the recursion even if the delete fails.
			c.dropCached(ctx, endpoint, params)
			return c.playersFetch(ctx, endpoint, params, true)
		}
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	if result.Errors.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, result.Errors)
	}

	return &result, nil
}

// fetchCached returns the raw body for an endpoint, consulting the response
// cache first. The bool reports whether the body came from cache.
func (c *Client) fetchCached(ctx context.Context, endpoint string, params url.Values) ([]byte, bool, error) {
	key := c.cacheKey(endpoint, params)

	if c.responses != nil {
		if body, err := c.responses.Get(ctx, key); err == nil {
			metrics.CacheHits.WithLabelValues("response").Inc()
			logging.Ctx(ctx).Debug().Str("endpoint", endpoint).Msg("Upstream response served from cache")
			return body, true, nil
		}
		metrics.CacheMisses.WithLabelValues("response").Inc()
	}

	body, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, false, err
	}

	if c.responses != nil {
		if err := c.responses.Set(ctx, key, body); err != nil {
			logging.CtxErr(ctx, err).Str("endpoint", endpoint).Msg("Failed to cache upstream response")
		}
	}

	return body, false, nil
}

func (c *Client) dropCached(ctx context.Context, endpoint string, params url.Values) {
	if c.responses == nil {
		return
	}
	if err := c.responses.Delete(ctx, c.cacheKey(endpoint, params)); err != nil {
		logging.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to drop stale cached response")
	}
}

// cacheKey builds a stable cache key from the endpoint and its parameters.
func (c *Client) cacheKey(endpoint string, params url.Values) string {
	flat := make(map[string]interface{}, len(params))
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		flat[k] = params.Get(k)
	}
	return cache.GenerateKey(endpoint, flat)
}

// fetch performs a single upstream GET with rate limiting, retries, and
// metrics, and returns the raw response body.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait canceled: %w", err)
	}

	start := time.Now()
	resp, err := c.doRequestWithRateLimit(ctx, reqURL, endpoint)
	metrics.RecordUpstreamRequest(endpoint, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("upstream %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUpstreamStatus, endpoint, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response body: %w", endpoint, err)
	}

	return body, nil
}

// doRequestWithRateLimit performs an HTTP request with automatic HTTP 429
// handling. Backoff doubles each attempt (1s, 2s, 4s, ...) unless the
// upstream supplies a Retry-After header. The context cancels backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL, endpoint string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		c.setAuthHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited, close body and retry with backoff.
		_ = resp.Body.Close()
		metrics.UpstreamRetries.WithLabelValues(endpoint).Inc()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		logging.Ctx(ctx).Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("Upstream rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// setAuthHeaders applies the authentication scheme for the configured plan.
func (c *Client) setAuthHeaders(req *http.Request) {
	if c.source == config.SourceRapidAPI {
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", rapidAPIHost)
		return
	}
	req.Header.Set("x-apisports-key", c.apiKey)
}

// readBodyForError reads at most maxErrorBodySize of a response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
