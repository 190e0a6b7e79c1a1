// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

// Package main provides the Chronoterra HTTP server
//
// Chronoterra API provides land cover change analysis and visualization
// built on Google Earth Engine's Dynamic World dataset.
//
// @title Chronoterra API
// @version 1.0.0
// @description Land cover change analytics service built on Google Earth Engine
// @description
// @description ## Features
// @description
// @description - **Dynamic World composites**: Most-likely-class mosaics for any two years (2015+)
// @description - **Change detection**: Highlighted mask of pixels whose class changed between the years
// @description - **Sentinel-2 context**: Cloud-filtered true-color imagery for both years
// @description - **Class histograms**: Pixel counts per land cover class at configurable scale
// @description - **Timelapse video**: Optional animated year-by-year classification GIF
// @description - **Result caching**: In-memory TTL cache keyed by normalized request parameters
// @description
// @description ## Request Model
// @description
// @description Every analysis parameter is optional. Omitted fields take the configured
// @description defaults (years 2020/2024, an Abu Dhabi bounding box, 768px thumbnails).
// @description Malformed bounds fall back to the default region rather than failing.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Rate limit headers are included in responses: `X-RateLimit-Limit`, `X-RateLimit-Remaining`, `X-RateLimit-Reset`.
// @description
// @description ## Degraded Results
// @description
// @description A failed histogram computation returns an error object in `histogram_yearA`;
// @description a failed video render returns `video_url: null`. Neither fails the request.
// @description
// @description ## Error Responses
// @description
// @description Analysis endpoints return a flat error body:
// @description ```json
// @description {"error": "human-readable message"}
// @description ```
// @description Versioned endpoints under /api/v1 use the response envelope:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-23T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/chronoterra/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:4326
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Core API endpoints for the service banner, health checks, and the class legend
//
// @tag.name Analysis
// @tag.description Land cover change analysis endpoints rendering Dynamic World composites, change masks, and statistics
package main
