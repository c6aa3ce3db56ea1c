// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

// Package config holds all ScoutLens configuration, loaded with Koanf v2 in
// three layers: built-in defaults, an optional YAML config file, and
// environment variables (highest priority).
package config

import (
	"time"
)

// Version is the application version reported by the health endpoint.
// Overridden at build time via -ldflags.
var Version = "1.0.0"

// Config holds all application configuration.
// Immutable after Load() and safe for concurrent reads.
type Config struct {
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Cache     CacheConfig     `koanf:"cache"`
	Scout     ScoutConfig     `koanf:"scout"`
	Recommend RecommendConfig `koanf:"recommend"`
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	CORS      CORSConfig      `koanf:"cors"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// Upstream API sources.
const (
	SourceAPISports = "apisports" // direct api-sports.io account
	SourceRapidAPI  = "rapidapi"  // API-Football via RapidAPI
	SourceMock      = "mock"      // deterministic generated data, no network
)

// UpstreamConfig holds the API-Football connection settings.
//
// Environment Variables:
//   - API_FOOTBALL_SOURCE: apisports, rapidapi, or mock (default: mock)
//   - API_FOOTBALL_KEY: API key (required unless source is mock)
//   - API_FOOTBALL_URL: base URL override
type UpstreamConfig struct {
	Source  string        `koanf:"source"`
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"` // empty = derive from Source
	Timeout time.Duration `koanf:"timeout"`

	// RetryAttempts bounds the HTTP 429 retry loop.
	RetryAttempts int `koanf:"retry_attempts"`

	// RequestsPerMinute is the client-side token bucket budget.
	// The free API-Football tier allows 10 requests/min.
	RequestsPerMinute int `koanf:"requests_per_minute"`
}

// CacheConfig holds the upstream response cache settings.
type CacheConfig struct {
	// Path is the BadgerDB directory for the response cache.
	// Empty switches Badger to in-memory mode (used in tests).
	Path string `koanf:"path"`

	// TTL is how long cached upstream responses stay valid.
	TTL time.Duration `koanf:"ttl"`

	// ResultTTL is the in-memory TTL for computed results
	// (aggregates, recommendations).
	ResultTTL time.Duration `koanf:"result_ttl"`
}

// League identifies a tracked competition.
type League struct {
	ID      int    `koanf:"id"`
	Name    string `koanf:"name"`
	Country string `koanf:"country"`
}

// ScoutConfig holds which competitions and season to track and how often
// the background sync refreshes them.
type ScoutConfig struct {
	Leagues          []League      `koanf:"leagues"`
	Season           int           `koanf:"season"`
	RefreshInterval  time.Duration `koanf:"refresh_interval"`
	RefreshOnStartup bool          `koanf:"refresh_on_startup"`
}

// RecommendConfig holds the similarity engine settings.
type RecommendConfig struct {
	DefaultK int `koanf:"default_k"`
	MaxK     int `koanf:"max_k"`

	// MinFeatures is the minimum number of usable feature columns a
	// query must resolve to before scoring runs.
	MinFeatures int `koanf:"min_features"`

	// Metric is the distance metric: euclidean or cosine.
	Metric string `koanf:"metric"`

	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds pagination limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// RateLimitConfig holds server-side request rate limiting.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Disabled bool          `koanf:"disabled"`
}

// CORSConfig holds cross-origin settings for the API.
type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// LeagueByID returns the tracked league with the given ID.
func (c *ScoutConfig) LeagueByID(id int) (League, bool) {
	for _, l := range c.Leagues {
		if l.ID == id {
			return l, true
		}
	}
	return League{}, false
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return joinHostPort(c.Host, c.Port)
}
