// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by the
// versioned /api/v1 endpoints. It provides consistent structure for both
// successful and error responses, with metadata for observability and
// caching information. The compatibility routes (GET / and POST /chat) keep
// their historical bare shapes and never use this envelope.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"summary": "...", "urls": {...}},
//	  "metadata": {
//	    "timestamp": "2026-08-23T12:00:00Z",
//	    "elapsed_ms": 1840,
//	    "cached": false
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "UPSTREAM_ERROR",
//	    "message": "thumbnail render failed"
//	  },
//	  "metadata": {"timestamp": "2026-08-23T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: Server time when the response was generated (RFC3339)
//   - ElapsedMS: Wall time spent producing the payload, in milliseconds.
//     Zero for cached responses.
//   - Cached: Whether the payload was served from the result cache
//     (omitted when false)
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed_ms,omitempty"`
	Cached    bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - UPSTREAM_ERROR: Earth Engine call failed
//   - UPSTREAM_UNAVAILABLE: Circuit breaker open, calls short-circuited
//   - NOT_FOUND: Route doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected server-side failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the payload of GET /api/v1/health.
//
// Status is "healthy" when the Earth Engine session is initialized and the
// circuit breaker is closed, "degraded" otherwise. The process can serve
// its liveness route either way.
type HealthStatus struct {
	Status        string            `json:"status"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	EarthEngine   EarthEngineHealth `json:"earthengine"`
}

// EarthEngineHealth describes the state of the upstream session.
//
// Circuit is the breaker state name: "closed", "half-open", or "open".
type EarthEngineHealth struct {
	Initialized bool   `json:"initialized"`
	Circuit     string `json:"circuit"`
}
