// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/chronoterra/config.yaml",
	"/etc/chronoterra/config.yml",
}

// ConfigPathEnvVar overrides the config file search entirely.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied. Defaults load
// first; the config file and environment override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4326,
			Host: "0.0.0.0",
			// A single analysis fans out into several Earth Engine renders
			Timeout:     120 * time.Second,
			Environment: "development",
		},
		GEE: GEEConfig{
			ServiceAccountKey: "",
			Project:           "",
			Endpoint:          "https://earthengine.googleapis.com",
			Timeout:           60 * time.Second,
			MaxRetries:        5,
			RatePerSecond:     10,
			RateBurst:         20,
		},
		Analysis: AnalysisConfig{
			DefaultYearA: 2020,
			DefaultYearB: 2024,
			// Abu Dhabi city block: west, south, east, north
			DefaultBounds:  []float64{54.16, 24.29, 54.74, 24.61},
			ThumbDims:      768,
			MaxThumbDims:   2048,
			VideoFPS:       1,
			HistogramScale: 30,
			MaxPixels:      1_000_000_000,
			CloudPctMax:    30,
			Timeout:        5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (if one exists)
//  3. Environment variables: override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority).
	// Names map through envTransformFunc: GEE_PROJECT -> gee.project.
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; rebuild the slice-typed fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file.
// Returns the first path found, or empty string if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// stringSlicePaths lists config paths parsed as comma-separated string slices.
var stringSlicePaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// floatSlicePaths lists config paths parsed as comma-separated float slices.
var floatSlicePaths = []string{
	"analysis.default_bounds",
}

// processSliceFields converts comma-separated env var strings into slices for
// the known slice-typed fields. YAML-sourced values are already slices and
// pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range stringSlicePaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := splitAndTrim(strVal)
		if len(parts) > 0 {
			if err := k.Set(path, parts); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}

	for _, path := range floatSlicePaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := splitAndTrim(strVal)
		floats := make([]float64, 0, len(parts))
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return fmt.Errorf("%s: %q is not a number", path, p)
			}
			floats = append(floats, f)
		}
		if len(floats) > 0 {
			if err := k.Set(path, floats); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}

	return nil
}

// splitAndTrim splits a comma-separated string, trimming whitespace and
// dropping empty elements.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return empty string and are skipped, which keeps
// unrelated process environment out of the configuration tree.
//
// Examples:
//   - GEE_SERVICE_ACCOUNT_KEY -> gee.service_account_key
//   - ANALYSIS_THUMB_DIMS -> analysis.thumb_dims
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Earth Engine mappings
		"gee_service_account_key": "gee.service_account_key",
		"gee_project":             "gee.project",
		"gee_endpoint":            "gee.endpoint",
		"gee_timeout":             "gee.timeout",
		"gee_max_retries":         "gee.max_retries",
		"gee_rate_per_second":     "gee.rate_per_second",
		"gee_rate_burst":          "gee.rate_burst",

		// Analysis mappings
		"analysis_default_year_a":  "analysis.default_year_a",
		"analysis_default_year_b":  "analysis.default_year_b",
		"analysis_default_bounds":  "analysis.default_bounds",
		"analysis_thumb_dims":      "analysis.thumb_dims",
		"analysis_max_thumb_dims":  "analysis.max_thumb_dims",
		"analysis_video_fps":       "analysis.video_fps",
		"analysis_histogram_scale": "analysis.histogram_scale",
		"analysis_max_pixels":      "analysis.max_pixels",
		"analysis_cloud_pct_max":   "analysis.cloud_pct_max",
		"analysis_timeout":         "analysis.timeout",

		// Cache mappings
		"cache_enabled": "cache.enabled",
		"cache_ttl":     "cache.ttl",

		// Security mappings
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"trusted_proxies":     "security.trusted_proxies",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
