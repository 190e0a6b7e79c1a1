// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
router.go - HTTP Route Tree

Assembles the chi router: the global middleware stack, the rate-limited
route groups, and the observability endpoints.

Route surface:

	GET  /                    banner (frozen compatibility contract)
	POST /chat                analysis (frozen compatibility contract)
	POST /api/v1/analysis     analysis (versioned alias, same body)
	GET  /api/v1/classes      Dynamic World legend
	GET  /api/v1/health       health document
	GET  /health/live         liveness probe
	GET  /health/ready        readiness probe
	GET  /metrics             Prometheus exposition
	GET  /swagger/*           interactive API docs
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/middleware"
)

// slowRequestThreshold flags analysis requests worth a warning log. Renders
// of large regions legitimately take tens of seconds; anything past this is
// an outlier worth looking at.
const slowRequestThreshold = 30 * time.Second

// Router assembles the HTTP handler tree.
type Router struct {
	handler *Handler
	limiter *middleware.Limiter
	cfg     *config.Config
}

// NewRouter creates a router for the given handler.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		limiter: middleware.NewLimiter(&cfg.Security),
		cfg:     cfg,
	}
}

// Setup builds the complete route tree.
//
// Global stack order matters: RequestID first so every later log line is
// correlated, RealIP before the rate limiters so per-IP buckets key on the
// true client behind a trusted proxy, Recoverer before anything that could
// panic while writing a response.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP(rt.cfg.Security.TrustedProxies))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Security.CORSOrigins))
	r.Use(chimiddleware.Compress(5))

	// Analysis surface, standard rate tier.
	r.Group(func(r chi.Router) {
		r.Use(rt.limiter.Standard())
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)
		r.Use(middleware.SlowRequests(slowRequestThreshold))

		r.Get("/", rt.handler.Root)
		r.Post("/chat", rt.handler.Analyze)
		r.Post("/api/v1/analysis", rt.handler.Analyze)
		r.Get("/api/v1/classes", rt.handler.Classes)
	})

	// Health surface. Monitoring systems poll these hard, so they get a
	// far looser rate tier.
	r.Group(func(r chi.Router) {
		r.Use(rt.limiter.Health())
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.Prometheus)

		r.Get("/api/v1/health", rt.handler.Health)
		r.Get("/health/live", rt.handler.HealthLive)
		r.Get("/health/ready", rt.handler.HealthReady)
	})

	// Observability. Not instrumented: the metrics scrape should not count
	// itself, and swagger assets are static.
	r.Group(func(r chi.Router) {
		r.Use(rt.limiter.Health())
		r.Use(middleware.SecurityHeaders)

		r.Handle("/metrics", promhttp.Handler())
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
			httpSwagger.DeepLinking(true),
			httpSwagger.DocExpansion("list"),
			httpSwagger.DomID("swagger-ui"),
		))
	})

	r.NotFound(rt.handler.NotFound)
	r.MethodNotAllowed(rt.handler.MethodNotAllowed)

	return r
}

// NotFound is the enveloped 404 for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
}

// MethodNotAllowed is the enveloped 405 for known routes with wrong methods.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
}
