// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimiterStandard(t *testing.T) {
	t.Parallel()

	l := NewLimiter(&config.SecurityConfig{RateLimitReqs: 2, RateLimitWindow: time.Minute})
	h := l.Standard()(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/limited", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	before := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/limited"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/limited", nil))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), "rate limit exceeded") {
		t.Errorf("body = %q, want a rate limit error", rec.Body.String())
	}
	if delta := testutil.ToFloat64(metrics.APIRateLimitHits.WithLabelValues("/limited")) - before; delta != 1 {
		t.Errorf("rate limit hit delta = %v, want 1", delta)
	}

	// A different client IP has its own bucket.
	other := httptest.NewRequest("GET", "/limited", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("fresh IP status = %d, want 200", rec.Code)
	}
}

func TestLimiterDisabled(t *testing.T) {
	t.Parallel()

	l := NewLimiter(&config.SecurityConfig{RateLimitReqs: 1, RateLimitWindow: time.Minute, RateLimitDisabled: true})
	h := l.Standard()(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/limited", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200 with limiting disabled", i+1, rec.Code)
		}
	}
}

func TestLimiterHealthTier(t *testing.T) {
	t.Parallel()

	l := NewLimiter(&config.SecurityConfig{RateLimitReqs: 1, RateLimitWindow: time.Minute})
	h := l.Health()(okHandler())

	// The health tier is far looser than the standard tier.
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/health/live", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("probe %d status = %d, want 200", i+1, rec.Code)
		}
	}
}
