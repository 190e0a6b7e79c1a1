// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package config

import (
	"fmt"
	"net/url"
)

// Year sanity bounds for analysis defaults. Dynamic World coverage begins in
// 2015, but the bounds stay loose so future years need no code change.
const (
	minAnalysisYear = 1900
	maxAnalysisYear = 2100
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateGEE(); err != nil {
		return err
	}

	if err := c.validateAnalysis(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, or production, got %q", c.Server.Environment)
	}

	return nil
}

// validateGEE validates Earth Engine connection configuration.
//
// The credential JSON itself is parsed by the session initializer, not here;
// config only requires that the variable is set. A present-but-broken
// credential surfaces as a session initialization error instead.
func (c *Config) validateGEE() error {
	if c.GEE.ServiceAccountKey == "" {
		return fmt.Errorf("GEE_SERVICE_ACCOUNT_KEY is required (service-account credential JSON)")
	}

	if err := validateHTTPURL(c.GEE.Endpoint, "GEE_ENDPOINT"); err != nil {
		return err
	}

	if c.GEE.Timeout <= 0 {
		return fmt.Errorf("GEE_TIMEOUT must be positive")
	}
	if c.GEE.MaxRetries < 0 || c.GEE.MaxRetries > 10 {
		return fmt.Errorf("GEE_MAX_RETRIES must be between 0 and 10, got %d", c.GEE.MaxRetries)
	}
	if c.GEE.RatePerSecond <= 0 {
		return fmt.Errorf("GEE_RATE_PER_SECOND must be positive")
	}
	if c.GEE.RateBurst < 1 {
		return fmt.Errorf("GEE_RATE_BURST must be at least 1")
	}

	return nil
}

// validateAnalysis validates analysis defaults and limits.
func (c *Config) validateAnalysis() error {
	a := &c.Analysis

	for name, year := range map[string]int{
		"ANALYSIS_DEFAULT_YEAR_A": a.DefaultYearA,
		"ANALYSIS_DEFAULT_YEAR_B": a.DefaultYearB,
	} {
		if year < minAnalysisYear || year > maxAnalysisYear {
			return fmt.Errorf("%s must be between %d and %d, got %d", name, minAnalysisYear, maxAnalysisYear, year)
		}
	}

	if err := validateBounds(a.DefaultBounds); err != nil {
		return fmt.Errorf("ANALYSIS_DEFAULT_BOUNDS invalid: %w", err)
	}

	if a.ThumbDims < 16 {
		return fmt.Errorf("ANALYSIS_THUMB_DIMS must be at least 16, got %d", a.ThumbDims)
	}
	if a.MaxThumbDims < a.ThumbDims {
		return fmt.Errorf("ANALYSIS_MAX_THUMB_DIMS (%d) must be >= ANALYSIS_THUMB_DIMS (%d)", a.MaxThumbDims, a.ThumbDims)
	}
	if a.VideoFPS < 1 {
		return fmt.Errorf("ANALYSIS_VIDEO_FPS must be at least 1, got %d", a.VideoFPS)
	}
	if a.HistogramScale <= 0 {
		return fmt.Errorf("ANALYSIS_HISTOGRAM_SCALE must be positive")
	}
	if a.MaxPixels < 1 {
		return fmt.Errorf("ANALYSIS_MAX_PIXELS must be at least 1")
	}
	if a.CloudPctMax < 0 || a.CloudPctMax > 100 {
		return fmt.Errorf("ANALYSIS_CLOUD_PCT_MAX must be between 0 and 100, got %g", a.CloudPctMax)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("ANALYSIS_TIMEOUT must be positive")
	}

	return nil
}

// validateBounds checks a west,south,east,north rectangle in EPSG:4326.
func validateBounds(bounds []float64) error {
	if len(bounds) != 4 {
		return fmt.Errorf("expected 4 values (west,south,east,north), got %d", len(bounds))
	}

	west, south, east, north := bounds[0], bounds[1], bounds[2], bounds[3]

	if west < -180 || west > 180 || east < -180 || east > 180 {
		return fmt.Errorf("longitudes must be within [-180, 180]")
	}
	if south < -90 || south > 90 || north < -90 || north > 90 {
		return fmt.Errorf("latitudes must be within [-90, 90]")
	}
	if west >= east {
		return fmt.Errorf("west (%g) must be less than east (%g)", west, east)
	}
	if south >= north {
		return fmt.Errorf("south (%g) must be less than north (%g)", south, north)
	}

	return nil
}

// validateCache validates result cache configuration.
func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_ENABLED=true")
	}
	return nil
}

// validateSecurity validates rate limiting and CORS configuration.
func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}

	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must not be empty (use * to allow all)")
	}

	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, got %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// validateHTTPURL validates a base URL for an HTTP/HTTPS service:
// scheme http or https, host present, no path or query.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	// Allow a trailing slash but nothing else
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsedURL.Path)
	}

	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}

	return nil
}
