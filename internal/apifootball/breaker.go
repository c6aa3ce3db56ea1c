// ScoutLens - Football Scouting Analytics and Player Similarity
// Copyright 2026 ScoutLens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scoutlens/scoutlens

package apifootball

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/scoutlens/scoutlens/internal/logging"
	"github.com/scoutlens/scoutlens/internal/metrics"
	"github.com/scoutlens/scoutlens/internal/models/apifootball"
)

// ErrCircuitOpen indicates the breaker rejected the call because the
// upstream has been failing. Callers should serve cached data or a 503.
var ErrCircuitOpen = errors.New("upstream circuit breaker is open")

// Breaker wraps an API implementation with the circuit breaker pattern,
// preventing request pile-up when API-Football is unavailable or slow.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout calculations. Tests should mock the wrapped client rather than
// the breaker.
type Breaker struct {
	api  API
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewBreaker wraps api with a circuit breaker.
//
// Configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
func NewBreaker(api API) *Breaker {
	cbName := "api-football"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("Opening upstream circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("Upstream circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &Breaker{
		api:  api,
		cb:   cb,
		name: cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Status checks upstream connectivity with circuit breaker protection.
func (b *Breaker) Status(ctx context.Context) (*apifootball.StatusResponse, error) {
	return castResult[apifootball.StatusResponse](b.execute(func() (interface{}, error) {
		return b.api.Status(ctx)
	}))
}

// TopScorers retrieves league top scorers with circuit breaker protection.
func (b *Breaker) TopScorers(ctx context.Context, leagueID, season int) (*apifootball.PlayersResponse, error) {
	return castResult[apifootball.PlayersResponse](b.execute(func() (interface{}, error) {
		return b.api.TopScorers(ctx, leagueID, season)
	}))
}

// TopAssists retrieves league top assist providers with circuit breaker protection.
func (b *Breaker) TopAssists(ctx context.Context, leagueID, season int) (*apifootball.PlayersResponse, error) {
	return castResult[apifootball.PlayersResponse](b.execute(func() (interface{}, error) {
		return b.api.TopAssists(ctx, leagueID, season)
	}))
}

// PlayerByID retrieves a single player's statistics with circuit breaker protection.
func (b *Breaker) PlayerByID(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error) {
	return castResult[apifootball.PlayersResponse](b.execute(func() (interface{}, error) {
		return b.api.PlayerByID(ctx, playerID, season)
	}))
}

// PlayerStatistics retrieves per-competition statistics with circuit breaker protection.
func (b *Breaker) PlayerStatistics(ctx context.Context, playerID, season int) (*apifootball.PlayersResponse, error) {
	return castResult[apifootball.PlayersResponse](b.execute(func() (interface{}, error) {
		return b.api.PlayerStatistics(ctx, playerID, season)
	}))
}

// ClearCache drops cached responses on the wrapped client. Cache operations
// are local and bypass the breaker.
func (b *Breaker) ClearCache(ctx context.Context) error {
	return b.api.ClearCache(ctx)
}
