// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Earth Engine REST call latency and errors
// - API endpoint latency and throughput
// - Change analysis pipeline outcomes
// - Result cache efficiency
// - Circuit breaker state

var (
	// Earth Engine Client Metrics
	EECallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "earthengine_call_duration_seconds",
			Help:    "Duration of Earth Engine REST calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // Server-side compute can take minutes
		},
		[]string{"operation"}, // "thumbnail", "video_thumbnail", "compute_value", "ping"
	)

	EECallErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earthengine_call_errors_total",
			Help: "Total number of Earth Engine call errors",
		},
		[]string{"operation", "error_type"}, // error_type: "unauthorized", "quota", "timeout", "circuit_open", "other"
	)

	EECallRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "earthengine_call_retries_total",
			Help: "Total number of Earth Engine call retries (429/5xx responses)",
		},
		[]string{"operation"},
	)

	EETokenRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "earthengine_token_refreshes_total",
			Help: "Total number of OAuth2 access token refreshes",
		},
	)

	EETokenRefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "earthengine_token_refresh_errors_total",
			Help: "Total number of failed OAuth2 access token refreshes",
		},
	)

	EESessionInitialized = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "earthengine_session_initialized",
			Help: "Whether the Earth Engine session is initialized (0=no, 1=yes)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}, // Analysis requests fan out to Earth Engine
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Analysis Pipeline Metrics
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "End-to-end duration of change analyses in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600}, // Five thumbnails plus a histogram reduction per analysis
		},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total number of change analyses",
		},
		[]string{"outcome"}, // "success", "error"
	)

	AnalysisErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_errors_total",
			Help: "Total number of failed change analyses",
		},
		[]string{"error_type"}, // "validation", "timeout", "earthengine", "other"
	)

	AnalysisLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_last_success_timestamp",
			Help: "Unix timestamp of last successful analysis",
		},
	)

	AnalysisThumbnails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_thumbnails_generated_total",
			Help: "Total number of thumbnail layers generated",
		},
		[]string{"layer"}, // "dw_a", "dw_b", "s2_a", "s2_b", "change"
	)

	HistogramDegradations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_histogram_degradations_total",
			Help: "Total number of analyses that completed with a failed class histogram",
		},
	)

	VideoDegradations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_video_degradations_total",
			Help: "Total number of analyses that completed with a failed timelapse render",
		},
	)

	// Result Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "analysis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordEECall records an Earth Engine call metric
func RecordEECall(operation string, duration time.Duration, err error) {
	EECallDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		EECallErrors.WithLabelValues(operation, classifyEEError(err)).Inc()
	}
}

// classifyEEError maps an Earth Engine error to a bounded label value.
// Label cardinality stays fixed regardless of upstream message content.
func classifyEEError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "circuit breaker"):
		return "circuit_open"
	case strings.Contains(msg, "deadline"), strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "quota"), strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"):
		return "quota"
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthenticated"), strings.Contains(msg, "permission"):
		return "unauthorized"
	default:
		return "other"
	}
}

// RecordEERetry records a retried Earth Engine call
func RecordEERetry(operation string) {
	EECallRetries.WithLabelValues(operation).Inc()
}

// RecordTokenRefresh records an OAuth2 access token refresh attempt
func RecordTokenRefresh(err error) {
	EETokenRefreshes.Inc()
	if err != nil {
		EETokenRefreshErrors.Inc()
	}
}

// SetSessionInitialized records whether the Earth Engine session is ready
func SetSessionInitialized(ready bool) {
	if ready {
		EESessionInitialized.Set(1)
	} else {
		EESessionInitialized.Set(0)
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAnalysis records a completed change analysis
func RecordAnalysis(duration time.Duration, err error) {
	AnalysisDuration.Observe(duration.Seconds())
	if err != nil {
		AnalysesTotal.WithLabelValues("error").Inc()
		errorType := "other"
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "validation"), strings.Contains(msg, "invalid"):
			errorType = "validation"
		case strings.Contains(msg, "deadline"), strings.Contains(msg, "timeout"):
			errorType = "timeout"
		case strings.Contains(msg, "earth engine"), strings.Contains(msg, "earthengine"):
			errorType = "earthengine"
		}
		AnalysisErrors.WithLabelValues(errorType).Inc()
	} else {
		AnalysesTotal.WithLabelValues("success").Inc()
		AnalysisLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordThumbnail records a generated thumbnail layer
func RecordThumbnail(layer string) {
	AnalysisThumbnails.WithLabelValues(layer).Inc()
}

// RecordHistogramDegradation records an analysis that lost its class histogram
func RecordHistogramDegradation() {
	HistogramDegradations.Inc()
}

// RecordVideoDegradation records an analysis that lost its timelapse render
func RecordVideoDegradation() {
	VideoDegradations.Inc()
}
