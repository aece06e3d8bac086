// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package stash

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/filter"
	"github.com/tomtom215/stashplayer/internal/logging"
	"github.com/tomtom215/stashplayer/internal/metrics"
)

// CircuitBreakerClient wraps Client with the circuit breaker pattern so a
// down or slow Stash instance does not pile requests up behind it.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout windows. Unit tests should exercise the wrapped client directly
// or substitute a fake Finder rather than wait out the breaker.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

// NewCircuitBreakerClient creates a Stash client with circuit breaker
// protection:
//   - max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(cfg *config.StashConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "stash-graphql"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
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
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result any, err error) (*T, error) {
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

// FindScenes fetches scenes with circuit breaker protection.
func (cbc *CircuitBreakerClient) FindScenes(ctx context.Context, qd filter.QueryDescriptor) (*SceneResult, error) {
	return castResult[SceneResult](cbc.execute(func() (any, error) {
		return cbc.client.FindScenes(ctx, qd)
	}))
}

// FindPerformers fetches performers with circuit breaker protection.
func (cbc *CircuitBreakerClient) FindPerformers(ctx context.Context, qd filter.QueryDescriptor) (*PerformerResult, error) {
	return castResult[PerformerResult](cbc.execute(func() (any, error) {
		return cbc.client.FindPerformers(ctx, qd)
	}))
}

// FindStudios fetches studios with circuit breaker protection.
func (cbc *CircuitBreakerClient) FindStudios(ctx context.Context, qd filter.QueryDescriptor) (*StudioResult, error) {
	return castResult[StudioResult](cbc.execute(func() (any, error) {
		return cbc.client.FindStudios(ctx, qd)
	}))
}

// FindTags fetches tags with circuit breaker protection.
func (cbc *CircuitBreakerClient) FindTags(ctx context.Context, qd filter.QueryDescriptor) (*TagResult, error) {
	return castResult[TagResult](cbc.execute(func() (any, error) {
		return cbc.client.FindTags(ctx, qd)
	}))
}

// Ping verifies upstream connectivity with circuit breaker protection.
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	_, err := cbc.execute(func() (any, error) {
		return nil, cbc.client.Ping(ctx)
	})
	return err
}

// StreamURL returns the upstream stream URL for a scene. Stream proxying
// bypasses the breaker: it is a long-lived passthrough, not an API call.
func (cbc *CircuitBreakerClient) StreamURL(sceneID string) string {
	return cbc.client.StreamURL(sceneID)
}
