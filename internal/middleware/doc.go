// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package middleware provides the HTTP middleware stack for the API.

All middleware uses the chi-compatible func(http.Handler) http.Handler
form, backed by the chi ecosystem where it has a hardened implementation
(go-chi/cors for CORS, go-chi/httprate for rate limiting, chi's
WrapResponseWriter for status capture) and by small local handlers where
the behavior is specific to this service.

# Stack Order

The router applies middleware in this order:

	RequestID            trace IDs into headers and logging context
	RealIP               forwarded-header resolution behind trusted proxies
	Recoverer            panic recovery (chi builtin)
	CORS                 preflight handling, applied globally
	  per route group:
	Limiter tier         per-IP rate limiting (standard or health tier)
	SecurityHeaders      nosniff, frame denial, referrer policy, HSTS
	Prometheus           request counters, duration, active gauge
	SlowRequests         warn log for latency outliers

RealIP must run before any per-IP rate limiting so clients behind a
trusted proxy are limited by their own address rather than the proxy's.
Rate limit rejections respond 429 with the bare {"error": ...} JSON shape
and are counted in api_rate_limit_hits_total.

# Endpoint Labels

The Prometheus middleware labels series with the matched chi route
pattern, not the raw URL path, so unmatched or hostile paths cannot
explode metric cardinality.
*/
package middleware
