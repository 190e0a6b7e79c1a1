// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/chronoterra/internal/logging"
)

func TestRequestIDGenerated(t *testing.T) {
	t.Parallel()

	var ctxID, ctxCorr string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logging.RequestIDFromContext(r.Context())
		ctxCorr = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	headerID := rec.Header().Get("X-Request-ID")
	if headerID == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if ctxID != headerID {
		t.Errorf("context request ID = %q, header = %q", ctxID, headerID)
	}
	if ctxCorr == "" {
		t.Error("correlation ID not seeded into context")
	}
}

func TestRequestIDHonorsInbound(t *testing.T) {
	t.Parallel()

	var ctxID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "upstream-7f3a")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "upstream-7f3a" {
		t.Errorf("X-Request-ID = %q, want upstream-7f3a", got)
	}
	if ctxID != "upstream-7f3a" {
		t.Errorf("context request ID = %q, want upstream-7f3a", ctxID)
	}
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	t.Parallel()

	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest("GET", "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest("GET", "/", nil))

	a, b := first.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID")
	if a == "" || b == "" {
		t.Fatalf("missing request IDs: %q, %q", a, b)
	}
	if a == b {
		t.Errorf("request IDs not unique: %q", a)
	}
}
