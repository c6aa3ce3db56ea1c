// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateScout(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateUpstream() error {
	switch c.Upstream.Source {
	case SourceAPISports, SourceRapidAPI, SourceMock:
	default:
		return fmt.Errorf("API_FOOTBALL_SOURCE must be %s, %s, or %s, got: %q",
			SourceAPISports, SourceRapidAPI, SourceMock, c.Upstream.Source)
	}

	if c.Upstream.Source != SourceMock && c.Upstream.APIKey == "" {
		return fmt.Errorf("API_FOOTBALL_KEY is required when API_FOOTBALL_SOURCE=%s", c.Upstream.Source)
	}

	if c.Upstream.BaseURL != "" {
		if err := validateHTTPURL(c.Upstream.BaseURL, "API_FOOTBALL_URL"); err != nil {
			return err
		}
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("API_FOOTBALL_TIMEOUT must be positive, got: %v", c.Upstream.Timeout)
	}
	if c.Upstream.RetryAttempts < 0 {
		return fmt.Errorf("API_FOOTBALL_RETRIES must not be negative, got: %d", c.Upstream.RetryAttempts)
	}
	if c.Upstream.RequestsPerMinute <= 0 {
		return fmt.Errorf("API_FOOTBALL_RPM must be positive, got: %d", c.Upstream.RequestsPerMinute)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got: %v", c.Cache.TTL)
	}
	if c.Cache.ResultTTL <= 0 {
		return fmt.Errorf("CACHE_RESULT_TTL must be positive, got: %v", c.Cache.ResultTTL)
	}
	return nil
}

func (c *Config) validateScout() error {
	if len(c.Scout.Leagues) == 0 {
		return fmt.Errorf("at least one league must be tracked")
	}
	seen := make(map[int]bool, len(c.Scout.Leagues))
	for _, l := range c.Scout.Leagues {
		if l.ID <= 0 {
			return fmt.Errorf("league id must be positive, got: %d", l.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate league id: %d", l.ID)
		}
		seen[l.ID] = true
	}
	// API-Football coverage starts at the 2008 season.
	if c.Scout.Season < 2008 {
		return fmt.Errorf("SCOUT_SEASON must be 2008 or later, got: %d", c.Scout.Season)
	}
	if c.Scout.RefreshInterval <= 0 {
		return fmt.Errorf("SCOUT_REFRESH_INTERVAL must be positive, got: %v", c.Scout.RefreshInterval)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK <= 0 {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be positive, got: %d", c.Recommend.DefaultK)
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("RECOMMEND_MAX_K (%d) must be >= RECOMMEND_DEFAULT_K (%d)",
			c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	if c.Recommend.MinFeatures <= 0 {
		return fmt.Errorf("RECOMMEND_MIN_FEATURES must be positive, got: %d", c.Recommend.MinFeatures)
	}
	switch strings.ToLower(c.Recommend.Metric) {
	case "euclidean", "cosine":
	default:
		return fmt.Errorf("RECOMMEND_METRIC must be euclidean or cosine, got: %q", c.Recommend.Metric)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %v", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize <= 0 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be positive, got: %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be a valid level, got: %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL validates that a URL is a bare HTTP/HTTPS base URL:
// scheme, host, no path or query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
