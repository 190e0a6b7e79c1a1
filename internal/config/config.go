// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package config

import "time"

// Config is the root configuration for the Chronoterra server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	GEE      GEEConfig      `koanf:"gee"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 4326)
//   - HTTP_HOST: Listen address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 120s)
//   - ENVIRONMENT: Environment mode: "development", "staging", "production"
//
// The default timeout is generous because a single change-analysis request
// fans out into several Earth Engine render calls, each of which can take
// tens of seconds for large regions.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// GEEConfig holds Google Earth Engine connection settings.
//
// Environment Variables:
//   - GEE_SERVICE_ACCOUNT_KEY: Service-account credential JSON (required).
//     The full JSON document, not a file path.
//   - GEE_PROJECT: Cloud project for Earth Engine requests. Defaults to the
//     project_id embedded in the credential.
//   - GEE_ENDPOINT: API base URL (default: https://earthengine.googleapis.com)
//   - GEE_TIMEOUT: Per-call HTTP timeout (default: 60s)
//   - GEE_MAX_RETRIES: Retry budget for rate-limited calls (default: 5)
//   - GEE_RATE_PER_SECOND: Outbound request rate cap (default: 10)
//   - GEE_RATE_BURST: Outbound request burst allowance (default: 20)
//
// The rate settings bound what this process sends upstream so a burst of
// analysis requests cannot exhaust the project's Earth Engine quota.
type GEEConfig struct {
	ServiceAccountKey string        `koanf:"service_account_key"`
	Project           string        `koanf:"project"`
	Endpoint          string        `koanf:"endpoint"`
	Timeout           time.Duration `koanf:"timeout"`
	MaxRetries        int           `koanf:"max_retries"`
	RatePerSecond     float64       `koanf:"rate_per_second"`
	RateBurst         int           `koanf:"rate_burst"`
}

// AnalysisConfig holds the defaults and bounds for change-analysis requests.
//
// Environment Variables:
//   - ANALYSIS_DEFAULT_YEAR_A: First year when the request omits yearA (default: 2020)
//   - ANALYSIS_DEFAULT_YEAR_B: Second year when the request omits yearB (default: 2024)
//   - ANALYSIS_DEFAULT_BOUNDS: Fallback region as "west,south,east,north"
//     (default: 54.16,24.29,54.74,24.61 - the Abu Dhabi city block)
//   - ANALYSIS_THUMB_DIMS: Default thumbnail max dimension in pixels (default: 768)
//   - ANALYSIS_MAX_THUMB_DIMS: Upper bound accepted from requests (default: 2048)
//   - ANALYSIS_VIDEO_FPS: Default animation frame rate (default: 1)
//   - ANALYSIS_HISTOGRAM_SCALE: Statistics resolution in meters (default: 30)
//   - ANALYSIS_MAX_PIXELS: Pixel budget for region statistics (default: 1e9)
//   - ANALYSIS_CLOUD_PCT_MAX: Sentinel-2 cloud filter threshold (default: 30)
type AnalysisConfig struct {
	DefaultYearA   int           `koanf:"default_year_a"`
	DefaultYearB   int           `koanf:"default_year_b"`
	DefaultBounds  []float64     `koanf:"default_bounds"`
	ThumbDims      int           `koanf:"thumb_dims"`
	MaxThumbDims   int           `koanf:"max_thumb_dims"`
	VideoFPS       int           `koanf:"video_fps"`
	HistogramScale float64       `koanf:"histogram_scale"`
	MaxPixels      int64         `koanf:"max_pixels"`
	CloudPctMax    float64       `koanf:"cloud_pct_max"`
	Timeout        time.Duration `koanf:"timeout"`
}

// CacheConfig holds in-memory result cache settings.
//
// Environment Variables:
//   - CACHE_ENABLED: Serve repeated identical analyses from memory (default: true)
//   - CACHE_TTL: Entry lifetime (default: 5m)
//
// The cache is strictly in-memory; nothing is written to disk.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// SecurityConfig holds rate limiting and CORS settings.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS: Requests per window per IP (default: 100)
//   - RATE_LIMIT_WINDOW: Window duration (default: 1m)
//   - DISABLE_RATE_LIMIT: Disable rate limiting entirely (default: false)
//   - CORS_ORIGINS: Comma-separated allowed origins (default: *)
//   - TRUSTED_PROXIES: Comma-separated proxy CIDRs for client IP resolution
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration with layered precedence:
//
//  1. Built-in defaults
//  2. Config file (config.yaml if present, or the path in CONFIG_PATH)
//  3. Environment variables
//
// The returned configuration has passed Validate.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
