// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

// Package validation provides struct validation using go-playground/validator v10.
//
// This package wraps the go-playground/validator library to provide a
// thread-safe singleton validator instance with user-friendly error messages.
// It integrates with the application's API error format for consistent error
// responses.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Domain rules for the change-analysis request (ValidateAnalysis)
//   - Comprehensive error translation to human-readable messages
//   - APIError conversion matching the application's error format
//
// # Quick Start
//
//	n := req.Normalize(defaults)
//	if verr := validation.ValidateAnalysis(n, cfg.Analysis.MaxThumbDims); verr != nil {
//	    // compatibility route: the combined message becomes {"error": msg}
//	    respondChatError(w, verr)
//	    return
//	}
//
// # Analysis Rules
//
// ValidateAnalysis checks the normalized request:
//
//   - years within 1900-2100, yearB >= yearA
//   - region coordinates within valid longitude/latitude ranges,
//     east > west and north > south
//   - thumbnail dimension at least 16 and at most the configured maximum
//   - video frame rate between 1 and 30 (the renderer's cap)
//
// # Error Message Translation
//
// Human-readable messages are generated for the validation tags in use:
//
//	min=1900        -> "YearA must be at least 1900"
//	gtfield=West    -> "East must be greater than West"
//	latitude        -> "South must be a valid latitude (-90 to 90)"
//	ltefield=MaxThumbDims -> "ThumbDims must be at most MaxThumbDims"
//
// # Thread Safety
//
// The singleton validator is initialized once and safe for concurrent use.
// The validator caches struct reflection information, so repeated
// validations of the same type cost microseconds.
package validation
