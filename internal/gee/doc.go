// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package gee is the Earth Engine integration layer: expression graph
construction, service account authentication, and the REST operations
behind thumbnails, animations, and computed statistics.

# Overview

Earth Engine evaluates expression graphs, not uploaded code. The
package therefore splits into two halves:

  - Graph construction (expression.go, images.go): builders that
    assemble the Dynamic World and Sentinel-2 composites as expression
    DAGs. Nothing here touches the network.

  - Execution (auth.go, client.go, circuit_breaker.go): a rate-limited
    REST client that serializes graphs, authenticates with a service
    account, and registers thumbnails, video thumbnails, and compute
    calls, all behind a circuit breaker.

# Session Lifecycle

The process holds one session. Initialize builds it from configuration
exactly once and is safe to call from any goroutine; Initialized
reports readiness for health checks. A missing or malformed service
account key fails initialization, and the server refuses to start
without it.

# Usage

	client, err := gee.Initialize(&cfg.GEE)
	if err != nil {
		return err
	}
	engine := gee.NewProtectedClient(client)

	roi := gee.RegionGeometry(region)
	labels := gee.DynamicWorldLabels(2024, roi)
	thumb := gee.PrepareThumbnail(gee.VisualizeLabels(labels), roi, 768)
	url, err := engine.CreateThumbnail(ctx, thumb)

# Failure Handling

Throttled (429) and transiently failing (5xx) requests retry with
exponential backoff, honoring Retry-After. Sustained failure opens the
circuit breaker and calls fail fast until the upstream recovers. Call
durations, retries, token refreshes, and breaker state are all
exported as Prometheus metrics.

# See Also

  - internal/analysis: the pipeline composing these builders per request
  - internal/metrics: the earthengine_* and circuit_breaker_* series
*/
package gee
