// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/metrics"
)

// RateLimitConfig defines one per-IP rate limit tier.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RateLimitHealth is permissive so monitoring probes are never starved.
var RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}

// Limiter builds httprate middleware tiers from the security configuration.
type Limiter struct {
	standard RateLimitConfig
	disabled bool
}

// NewLimiter creates a limiter factory. The standard tier comes from the
// configuration; named tiers are fixed.
func NewLimiter(cfg *config.SecurityConfig) *Limiter {
	return &Limiter{
		standard: RateLimitConfig{Requests: cfg.RateLimitReqs, Window: cfg.RateLimitWindow},
		disabled: cfg.RateLimitDisabled,
	}
}

// Standard returns the config-driven tier guarding the API endpoints.
func (l *Limiter) Standard() func(http.Handler) http.Handler {
	return l.Custom(l.standard)
}

// Health returns the permissive tier for liveness and readiness probes.
func (l *Limiter) Health() func(http.Handler) http.Handler {
	return l.Custom(RateLimitHealth)
}

// Custom returns a per-IP limiter for the given tier. When limiting is
// disabled the middleware is a pass-through.
func (l *Limiter) Custom(tier RateLimitConfig) func(http.Handler) http.Handler {
	if l.disabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		tier.Requests,
		tier.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

// rateLimited counts the rejection and responds in the bare JSON error
// shape shared by all endpoints.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	//nolint:errcheck // response write errors are not recoverable
	w.Write([]byte(`{"error": "rate limit exceeded"}`))
}
