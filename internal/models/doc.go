// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
Package models defines the data structures shared across Chronoterra.

This package contains the wire types for the change-analysis request and
response, the Dynamic World land-cover legend, and the standardized API
response envelope used by the versioned endpoints. It has no dependencies on
other internal packages, so every layer (handlers, orchestration, Earth
Engine client, cache) can exchange these types freely.

# Request Coercion

POST /chat historically accepted loosely-typed JSON: years as numbers or
numeric strings, a bounds array that is silently replaced by the default
region when malformed. The FlexInt, FlexBool, and Bounds types reproduce
that tolerance at the type level so the rest of the codebase only ever sees
a NormalizedRequest with concrete values and documented defaults.

# Response Shapes

AnalysisResult matches the compatibility contract exactly: bare object, no
envelope, video_url explicitly null when absent. The versioned /api/v1
endpoints wrap their payloads in APIResponse instead.
*/
package models
