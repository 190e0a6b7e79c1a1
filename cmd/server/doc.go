// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package main is the entry point for the Chronoterra server application.

Chronoterra is a self-hosted land cover change analytics service built on
Google Earth Engine. It renders Dynamic World classification composites for
two years over a bounding box, computes the change mask between them, pulls
Sentinel-2 true-color context imagery, tallies class-frequency histograms,
and optionally produces an animated year-by-year timelapse.

# Application Architecture

The server initializes components in the following order:

 1. Configuration: Load settings from environment variables and config files (Koanf v2)
 2. Logging: zerolog with JSON/console output modes
 3. Earth Engine: Authenticate the shared session from a service account credential
 4. Circuit Breaker: Wrap the session so a failing upstream sheds load fast
 5. Result Cache: In-memory TTL cache for rendered analyses
 6. Analysis Service: The Dynamic World comparison pipeline
 7. Supervisor: Suture v4 process supervision
 8. HTTP Server: Chi router with middleware stack and Swagger documentation

The Earth Engine credential is mandatory. Startup aborts when
GEE_SERVICE_ACCOUNT_KEY is missing or unparseable; everything downstream
depends on that session.

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Earth Engine (required)
	GEE_SERVICE_ACCOUNT_KEY=<json>   # Service account credential JSON
	GEE_PROJECT=my-project           # Cloud project (falls back to key's project_id)
	GEE_ENDPOINT=https://earthengine.googleapis.com

	# Server
	HTTP_PORT=4326                   # HTTP server port (EPSG:4326 reference)
	HTTP_HOST=0.0.0.0
	LOG_LEVEL=info                   # trace, debug, info, warn, error
	LOG_FORMAT=json                  # json or console

	# Analysis defaults
	ANALYSIS_DEFAULT_YEAR_A=2020
	ANALYSIS_DEFAULT_YEAR_B=2024
	ANALYSIS_DEFAULT_BOUNDS=54.16,24.29,54.74,24.61   # west,south,east,north
	ANALYSIS_THUMB_DIMS=768
	ANALYSIS_VIDEO_FPS=1

	# Cache and limits
	CACHE_ENABLED=true
	CACHE_TTL=5m
	RATE_LIMIT_REQUESTS=100
	CORS_ORIGINS=*
	TRUSTED_PROXIES=

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete (10s timeout)
  - Stops the result cache janitor

# Example Usage

Local run with a credential file:

	export GEE_SERVICE_ACCOUNT_KEY="$(cat service-account.json)"
	export GEE_PROJECT=my-ee-project
	./chronoterra

Docker:

	docker run -d \
	  -e GEE_SERVICE_ACCOUNT_KEY="$(cat service-account.json)" \
	  -e GEE_PROJECT=my-ee-project \
	  -p 4326:4326 \
	  ghcr.io/tomtom215/chronoterra

# Port 4326

The default port 4326 references EPSG:4326 (WGS 84), the coordinate system
the analysis bounding boxes are expressed in.
*/
package main
