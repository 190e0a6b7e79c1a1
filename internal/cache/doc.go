// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package cache provides a thread-safe in-memory TTL cache for analysis results.

A change analysis costs five Earth Engine thumbnail renders plus a histogram
reduction, each a network round trip to Google's compute backend. Because the
composites are deterministic for a given (yearA, yearB, region, dims) tuple,
repeated requests within the TTL window can be answered from memory.

# Key Generation

Cache keys are derived from the normalized request, never the raw body, so
requests that differ only in field order, string-vs-number years, or swapped
year order share an entry:

	key := cache.GenerateKey("analysis", normalized)

Keys are "op:hex" where hex is the truncated SHA-256 of the canonical JSON
encoding of the parameters.

# Lifecycle

	c := cache.New("analysis", cfg.Cache.TTL)
	defer c.Close()

Close stops the background sweeper; entries are also expired lazily on Get,
so a cache remains correct even before the first sweep.

# Observability

Hits, misses, evictions, and entry counts are exported both through
GetStats/HitRate for the readiness endpoint and as Prometheus series
labelled with the cache name (cache_hits_total{cache_type="analysis"}, ...).
*/
package cache
