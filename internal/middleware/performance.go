// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/chronoterra/internal/logging"
)

// SlowRequests warns about requests whose total latency exceeds threshold.
// Aggregate latency lives in the Prometheus histograms; this log line is
// for finding the individual outlier, so it carries the request ID from
// the context. An analysis request legitimately spends seconds fanning out
// to Earth Engine, so the threshold should sit well above a normal run.
func SlowRequests(threshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			if duration < threshold {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", duration).
				Dur("threshold", threshold).
				Msg("Slow request detected")
		})
	}
}
