// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/scoutlens/config.yaml",
	"/etc/scoutlens/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultLeagues are the competitions tracked when none are configured:
// the top five European leagues.
func DefaultLeagues() []League {
	return []League{
		{ID: 39, Name: "Premier League", Country: "England"},
		{ID: 140, Name: "La Liga", Country: "Spain"},
		{ID: 78, Name: "Bundesliga", Country: "Germany"},
		{ID: 135, Name: "Serie A", Country: "Italy"},
		{ID: 61, Name: "Ligue 1", Country: "France"},
	}
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			Source:            SourceMock, // no key required out of the box
			APIKey:            "",
			BaseURL:           "",
			Timeout:           30 * time.Second,
			RetryAttempts:     5,
			RequestsPerMinute: 10,
		},
		Cache: CacheConfig{
			Path:      "/data/scoutlens/cache",
			TTL:       24 * time.Hour,
			ResultTTL: 5 * time.Minute,
		},
		Scout: ScoutConfig{
			Leagues:          DefaultLeagues(),
			Season:           2023,
			RefreshInterval:  6 * time.Hour,
			RefreshOnStartup: true,
		},
		Recommend: RecommendConfig{
			DefaultK:    5,
			MaxK:        50,
			MinFeatures: 5,
			Metric:      "euclidean",
			CacheTTL:    5 * time.Minute,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8642,
			Timeout: 30 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   1 * time.Minute,
			Disabled: false,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (if found)
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SCOUT_LEAGUES=39,140 etc. arrive as strings and need splitting
	// before unmarshal.
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := applyLeagueIDs(k, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches CONFIG_PATH, then the default paths.
// Returns empty string if no file exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when they arrive from the environment.
var sliceConfigPaths = []string{
	"cors.origins",
	"scout.league_ids",
}

// processSliceFields converts comma-separated env strings to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML): nothing to do.
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// applyLeagueIDs narrows the tracked leagues to the IDs named in
// SCOUT_LEAGUES, when set. Unknown IDs are tracked without a name so the
// sync loop still fetches them.
func applyLeagueIDs(k *koanf.Koanf, cfg *Config) error {
	raw := k.Strings("scout.league_ids")
	if len(raw) == 0 {
		return nil
	}

	known := cfg.Scout.Leagues
	leagues := make([]League, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("SCOUT_LEAGUES contains invalid league id %q: %w", s, err)
		}
		found := false
		for _, l := range known {
			if l.ID == id {
				leagues = append(leagues, l)
				found = true
				break
			}
		}
		if !found {
			leagues = append(leagues, League{ID: id})
		}
	}
	cfg.Scout.Leagues = leagues
	return nil
}

// envSections lists the top-level config sections recognized in
// SCOUTLENS_* variable names.
var envSections = []string{
	"upstream", "cache", "scout", "recommend", "server",
	"api", "ratelimit", "cors", "logging",
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Canonical names carry the SCOUTLENS_ prefix followed by the section and
// field (SCOUTLENS_UPSTREAM_SOURCE -> upstream.source). The short legacy
// names below keep working.
//
// Examples:
//   - SCOUTLENS_UPSTREAM_KEY -> upstream.api_key
//   - API_FOOTBALL_KEY -> upstream.api_key
//   - SCOUT_SEASON -> scout.season
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if rest, ok := strings.CutPrefix(key, "scoutlens_"); ok {
		for _, section := range envSections {
			field, ok := strings.CutPrefix(rest, section+"_")
			if !ok {
				continue
			}
			switch {
			case section == "upstream" && field == "key":
				field = "api_key"
			case section == "scout" && field == "leagues":
				// Comma-separated IDs, resolved by applyLeagueIDs.
				field = "league_ids"
			}
			return section + "." + field
		}
		return ""
	}

	envMappings := map[string]string{
		// Upstream API mappings
		"api_football_source":  "upstream.source",
		"api_football_key":     "upstream.api_key",
		"api_football_url":     "upstream.base_url",
		"api_football_timeout": "upstream.timeout",
		"api_football_retries": "upstream.retry_attempts",
		"api_football_rpm":     "upstream.requests_per_minute",

		// Cache mappings
		"cache_path":       "cache.path",
		"cache_ttl":        "cache.ttl",
		"cache_result_ttl": "cache.result_ttl",

		// Scout mappings
		"scout_leagues":            "scout.league_ids",
		"scout_season":             "scout.season",
		"scout_refresh_interval":   "scout.refresh_interval",
		"scout_refresh_on_startup": "scout.refresh_on_startup",

		// Recommend mappings
		"recommend_default_k":    "recommend.default_k",
		"recommend_max_k":        "recommend.max_k",
		"recommend_min_features": "recommend.min_features",
		"recommend_metric":       "recommend.metric",
		"recommend_cache_ttl":    "recommend.cache_ttl",

		// Server mappings
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Rate limit mappings
		"rate_limit_requests": "ratelimit.requests",
		"rate_limit_window":   "ratelimit.window",
		"disable_rate_limit":  "ratelimit.disabled",

		// CORS mappings
		"cors_origins": "cors.origins",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables do not
	// pollute the config.
	return ""
}

// WatchConfigFile sets up a file watcher for hot-reload. The caller is
// responsible for mutex protection when swapping configuration.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
