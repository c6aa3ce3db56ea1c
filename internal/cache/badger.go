// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/scoutlens/scoutlens/internal/logging"
)

// ErrNotFound is returned when a key is absent or its TTL has elapsed.
var ErrNotFound = errors.New("cache: key not found")

// responseKeyPrefix namespaces upstream response entries within the DB.
const responseKeyPrefix = "response:"

// ResponseCache is a BadgerDB-backed cache for raw upstream API responses.
// Entries carry a TTL enforced by Badger itself; expired keys simply stop
// resolving, so no bespoke eviction runs here.
type ResponseCache struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenResponseCache opens (or creates) the Badger database at path and
// wraps it in a ResponseCache. An empty path opens Badger in-memory,
// which tests rely on.
func OpenResponseCache(path string, ttl time.Duration) (*ResponseCache, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}

	return NewResponseCache(db, ttl), nil
}

// NewResponseCache wraps an existing Badger database.
func NewResponseCache(db *badger.DB, ttl time.Duration) *ResponseCache {
	return &ResponseCache{db: db, ttl: ttl}
}

// Get returns the cached payload for key, or ErrNotFound.
func (c *ResponseCache) Get(_ context.Context, key string) ([]byte, error) {
	var data []byte

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(responseKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get response: %w", err)
		}

		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// Set stores a payload under key with the configured TTL.
func (c *ResponseCache) Set(_ context.Context, key string, data []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(responseKeyPrefix+key), data).WithTTL(c.ttl)
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("set response: %w", err)
		}
		return nil
	})
}

// Delete removes a single cached response. Missing keys are not an error.
func (c *ResponseCache) Delete(_ context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(responseKeyPrefix + key)); err != nil {
			return fmt.Errorf("delete response: %w", err)
		}
		return nil
	})
}

// Clear drops all cached responses.
func (c *ResponseCache) Clear(_ context.Context) error {
	if err := c.db.DropPrefix([]byte(responseKeyPrefix)); err != nil {
		return fmt.Errorf("clear response cache: %w", err)
	}
	return nil
}

// Len counts live entries. Used by the sync status endpoint.
func (c *ResponseCache) Len(_ context.Context) (int, error) {
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(responseKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Close closes the underlying database.
func (c *ResponseCache) Close() error {
	return c.db.Close()
}

// RunGC triggers Badger value-log garbage collection. Call periodically
// from a background service; badger.ErrNoRewrite is normal and swallowed.
func (c *ResponseCache) RunGC() error {
	err := c.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// badgerLogger routes Badger's internal logging through zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Trace().Str("component", "badger").Msgf(format, args...)
}
