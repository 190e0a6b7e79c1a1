// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Earth Engine REST call latency, retries, and errors
  - HTTP request latency and throughput
  - Change analysis outcomes and degradations
  - Result cache hit/miss rates
  - Circuit breaker state transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:4326/metrics

# Available Metrics

Earth Engine Metrics:
  - earthengine_call_duration_seconds: Call latency (histogram)
    Labels: operation (thumbnail, video_thumbnail, compute_value, ping)
    Buckets: .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120
  - earthengine_call_errors_total: Failed calls (counter)
    Labels: operation, error_type (unauthorized, quota, timeout, circuit_open, other)
  - earthengine_call_retries_total: Retried calls (counter)
    Labels: operation
  - earthengine_token_refreshes_total: OAuth2 token refreshes (counter)
  - earthengine_session_initialized: Session readiness (gauge, 0 or 1)

API Metrics:
  - api_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Analysis Metrics:
  - analysis_duration_seconds: End-to-end analysis duration (histogram)
    Buckets: 1, 5, 10, 30, 60, 120, 300, 600
  - analyses_total: Completed analyses (counter)
    Labels: outcome (success, error)
  - analysis_errors_total: Failed analyses (counter)
    Labels: error_type (validation, timeout, earthengine, other)
  - analysis_thumbnails_generated_total: Thumbnail layers rendered (counter)
    Labels: layer (dw_a, dw_b, s2_a, s2_b, change)
  - analysis_histogram_degradations_total: Analyses that lost their histogram (counter)
  - analysis_video_degradations_total: Analyses that lost their timelapse (counter)

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_evictions_total (counters)
    Labels: cache_type
  - cache_entries: Current entry count (gauge)
    Labels: cache_type

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_state_transitions_total: State transitions (counter)
    Labels: name, from_state, to_state

# Usage Example

Recording Earth Engine call metrics:

	start := time.Now()
	resp, err := client.do(ctx, req)
	metrics.RecordEECall("thumbnail", time.Since(start), err)

Recording analysis outcomes:

	metrics.RecordAnalysis(time.Since(start), err)
	if result.HistogramYearA.IsError() {
	    metrics.RecordHistogramDegradation()
	}

# Prometheus Configuration

Example prometheus.yml configuration:

	scrape_configs:
	  - job_name: 'chronoterra'
	    static_configs:
	      - targets: ['localhost:4326']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

Example PromQL queries:

	# Analysis success rate
	sum(rate(analyses_total{outcome="success"}[5m])) / sum(rate(analyses_total[5m]))

	# Earth Engine p95 latency by operation
	histogram_quantile(0.95, rate(earthengine_call_duration_seconds_bucket[5m]))

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

# Thread Safety

All metric recording functions are safe for concurrent use from multiple
goroutines. The Prometheus client library handles synchronization internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use chi route patterns, never raw URLs
  - Earth Engine error types are classified into a fixed set of values
  - Request parameters (years, bounds) never appear as label values

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/gee: Earth Engine client metrics recording
  - internal/analysis: Analysis pipeline metrics
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics
