// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package api provides the HTTP layer for Chronoterra.

The surface is deliberately small and splits into two contracts:

1. Compatibility routes (frozen, bare JSON):

  - GET / returns the historical banner body and nothing else.
  - POST /chat runs a land cover change analysis. Success is the bare
    result object; any mandatory-step failure is 500 {"error": "<message>"}.
    Partial failures degrade inside the 200 body: the histogram field
    becomes {"error": "<message>"}, the video URL becomes null.

These shapes predate the envelope and must never change; clients of the
original service depend on them byte for byte.

2. Versioned surface (/api/v1, enveloped):

  - POST /api/v1/analysis is an alias for /chat with the same bare body,
    kept bare so the two routes stay interchangeable.
  - GET /api/v1/health, /health/live, /health/ready, and /api/v1/classes
    use the standard status/data/error/metadata envelope.

Plus /metrics (Prometheus exposition) and /swagger/* (interactive docs).

Responses from the analysis routes carry an X-Cache header: HIT when the
result came from the in-memory TTL cache, MISS otherwise.

Usage:

	cfg, _ := config.Load()
	engine, _ := gee.Initialize(&cfg.GEE)
	svc := analysis.NewService(engine, resultCache, cfg.Analysis)

	handler := api.NewHandler(svc, engine, cfg)
	router := api.NewRouter(handler, cfg)
	http.ListenAndServe(":4326", router.Setup())

Thread Safety:

All handlers are safe for concurrent requests. The only shared state is
the analysis service's cache and the Earth Engine session, each guarded by
its own synchronization.

See Also:

  - internal/analysis: the request pipeline behind POST /chat
  - internal/middleware: the middleware stack Setup wires in
  - internal/models: request/response data structures
*/
package api
