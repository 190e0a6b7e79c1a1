// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS builds the cross-origin middleware from the configured origins.
// The browser-facing map client calls the API from a different origin,
// so this must be applied globally to handle OPTIONS preflight.
// X-Cache and X-Request-ID are exposed so browser callers can observe
// cache behavior and correlate traces.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-Cache"},
		MaxAge:         86400,
	})
}
