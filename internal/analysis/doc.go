// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package analysis orchestrates land cover change analyses.

A run compares Dynamic World label composites for two years over a region
of interest, rendering visual layers and computing a class histogram. The
Service sits between the HTTP handlers and the Earth Engine client: it
normalizes and validates the incoming request, assembles the expression
graphs from internal/gee, drives the render sequence, and shapes the final
response body.

# Pipeline

Every run follows the same fixed stage order:

 1. Normalize the request (defaults, year ordering, region fallback) and
    validate the resolved values.
 2. Render the five thumbnail layers sequentially: labels for year A,
    labels for year B, Sentinel-2 true color for both years, and the
    magenta changed-pixels overlay. Each layer is a separate Earth Engine
    render; any failure aborts the run.
 3. Reduce year A's labels to a class frequency histogram.
 4. When requested, render the year-by-year label timelapse.

Stages 3 and 4 degrade rather than fail: a histogram error is embedded in
the response as {"error": ...} and a timelapse error leaves video_url
null. Degradations are logged and counted but never turn a rendered
analysis into a 500.

# Caching

Identical normalized requests within the cache TTL are answered from
memory without touching Earth Engine. Analyze reports cache hits to the
caller so the transport layer can expose them (the X-Cache header).

# See Also

Package gee for graph construction and execution, package models for the
request and response shapes.
*/
package analysis
