// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/chronoterra/internal/metrics"
)

func TestPrometheusRecordsRoutePattern(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/things/42", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/things/{id}", "200"))
	if got != 1 {
		t.Errorf("pattern series = %v, want 1", got)
	}
	// The raw path must never become a label.
	if raw := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/things/42", "200")); raw != 0 {
		t.Errorf("raw path series = %v, want 0", raw)
	}
}

func TestPrometheusRecordsStatus(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.Get("/implicit", func(w http.ResponseWriter, _ *http.Request) {
		// Body write without an explicit WriteHeader.
		//nolint:errcheck
		w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Errorf("500 series = %v, want 1", got)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/implicit", nil))
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", "/implicit", "200")); got != 1 {
		t.Errorf("implicit 200 series = %v, want 1", got)
	}
}

// Outside a chi router the raw path is the fallback endpoint label.
func TestPrometheusOutsideRouter(t *testing.T) {
	t.Parallel()

	h := Prometheus(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/bare-path", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "/bare-path", "204")); got != 1 {
		t.Errorf("fallback series = %v, want 1", got)
	}
}
