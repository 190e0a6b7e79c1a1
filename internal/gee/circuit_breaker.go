// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
circuit_breaker.go - Circuit Breaker Protection for Earth Engine Calls

Wraps the REST client with a circuit breaker so a failing upstream
sheds load instead of stacking timeouts.

States:
  - Closed: normal operation, requests pass through
  - Open: requests fail fast without reaching Earth Engine
  - Half-Open: a limited number of probes test recovery

The circuit opens when at least 10 requests in the rolling interval
fail at a 60% rate or higher, stays open for 2 minutes, then allows up
to 3 probes before closing again.
*/

package gee

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/chronoterra/internal/logging"
	"github.com/tomtom215/chronoterra/internal/metrics"
)

const breakerName = "earthengine"

// ProtectedClient guards an Engine behind a circuit breaker.
type ProtectedClient struct {
	engine Engine
	cb     *gobreaker.CircuitBreaker[interface{}]
}

var _ Engine = (*ProtectedClient)(nil)

// NewProtectedClient wraps an engine with the breaker policy, state
// metrics, and state change logging.
func NewProtectedClient(engine Engine) *ProtectedClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := counts.Requests >= 10 && failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Uint32("requests", counts.Requests).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_ratio", failureRatio).
					Msg("Earth Engine circuit breaker tripping")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("Circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	}

	return &ProtectedClient{
		engine: engine,
		cb:     gobreaker.NewCircuitBreaker[interface{}](settings),
	}
}

// CreateThumbnail renders a thumbnail through the breaker.
func (p *ProtectedClient) CreateThumbnail(ctx context.Context, expr *Node) (string, error) {
	result, err := p.execute(func() (interface{}, error) {
		return p.engine.CreateThumbnail(ctx, expr)
	})
	return castValue[string](result, err)
}

// CreateVideoThumbnail renders a video thumbnail through the breaker.
func (p *ProtectedClient) CreateVideoThumbnail(ctx context.Context, frames *Node, fps int) (string, error) {
	result, err := p.execute(func() (interface{}, error) {
		return p.engine.CreateVideoThumbnail(ctx, frames, fps)
	})
	return castValue[string](result, err)
}

// ComputeValue evaluates an expression through the breaker.
func (p *ProtectedClient) ComputeValue(ctx context.Context, expr *Node) (interface{}, error) {
	return p.execute(func() (interface{}, error) {
		return p.engine.ComputeValue(ctx, expr)
	})
}

// Ping probes the session through the breaker.
func (p *ProtectedClient) Ping(ctx context.Context) error {
	_, err := p.execute(func() (interface{}, error) {
		return nil, p.engine.Ping(ctx)
	})
	return err
}

// State reports the current breaker state for health reporting.
func (p *ProtectedClient) State() string {
	return stateToString(p.cb.State())
}

// execute runs fn through the breaker and keeps the request metrics in
// step with the outcome.
func (p *ProtectedClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := p.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(p.cb.Counts().ConsecutiveFailures))
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	}
	return result, err
}

// castValue narrows the breaker's interface{} result back to the
// operation's concrete type.
func castValue[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	v, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type %T", result)
	}
	return v, nil
}

// stateToFloat maps breaker states to the gauge encoding: 0=closed,
// 1=half-open, 2=open.
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
