// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/chronoterra/internal/gee"
	"github.com/tomtom215/chronoterra/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns the health document: overall status, version, uptime, Earth Engine session state, and circuit breaker state. Makes no outbound calls so it answers fast even when the upstream is down.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	initialized := gee.Initialized()
	circuit := "unknown"
	if h.engine != nil {
		circuit = h.engine.State()
	}

	status := "healthy"
	if !initialized || circuit == "open" {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:        status,
		Version:       version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		EarthEngine: models.EarthEngineHealth{
			Initialized: initialized,
			Circuit:     circuit,
		},
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the service can reach Earth Engine (capability probe succeeds and the circuit breaker is not open). Returns 503 if not ready.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	// The readiness probe is the one health route that talks to the
	// upstream; the capability probe is cheap and goes through the same
	// breaker and politeness limiter as everything else.
	sessionUp := h.engine != nil && h.engine.Ping(r.Context()) == nil

	circuit := "unknown"
	if h.engine != nil {
		circuit = h.engine.State()
	}

	ready := sessionUp && circuit != "open"

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"session_up":     sessionUp,
			"circuit":        circuit,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
