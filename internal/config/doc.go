// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package config provides centralized configuration management for Chronoterra.

This package handles loading, validation, and parsing of configuration for all
application components. Every setting has a built-in default and a documented
environment variable; a config file is never required.

# Configuration Sources

Configuration is loaded with Koanf v2 from three layered sources, in order of
increasing precedence:

 1. Built-in defaults
 2. Optional YAML config file (config.yaml, or the path in CONFIG_PATH)
 3. Environment variables

# Configuration Structure

The package organizes configuration into logical groups:

  - ServerConfig: HTTP server settings (host, port, timeouts)
  - GEEConfig: Google Earth Engine credentials, endpoint, and outbound limits
  - AnalysisConfig: Change-analysis defaults (years, bounds, render sizes)
  - CacheConfig: In-memory result cache parameters
  - SecurityConfig: Rate limiting and CORS
  - LoggingConfig: Log level and output format

# Required Settings

The only required setting is the Earth Engine service-account credential:

	GEE_SERVICE_ACCOUNT_KEY='{"type":"service_account",...}'

The value is the full credential JSON document, not a path to it. Loading
fails with a descriptive error when it is absent, so a misconfigured
deployment stops at startup rather than at the first analysis request.

# Example

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.Server.Port) // 4326 unless overridden
*/
package config
