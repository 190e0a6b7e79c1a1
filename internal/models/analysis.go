// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FlexInt is an integer that unmarshals from a JSON number or a numeric
// string. Fractional numbers are truncated toward zero, matching how the
// historical API coerced its parameters.
//
// Accepted: 2020, 2020.9 (-> 2020), "2020", " 2020 ".
// Rejected: "2020.5", "twenty", true.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as an integer", s)
		}
		*f = FlexInt(n)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cannot parse %s as an integer", trimmed)
	}
	// Truncation of a float beyond int64 is implementation-defined, reject it
	if n >= math.MaxInt64 || n < math.MinInt64 {
		return fmt.Errorf("integer out of range: %s", trimmed)
	}
	*f = FlexInt(int(n))
	return nil
}

// Int returns the value as a plain int.
func (f FlexInt) Int() int {
	return int(f)
}

// FlexBool is a boolean that unmarshals from a JSON bool, a number (zero is
// false, anything else true), or a string accepted by strconv.ParseBool.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	switch trimmed[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = FlexBool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("cannot parse %q as a boolean", s)
		}
		*f = FlexBool(b)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("cannot parse %s as a boolean", trimmed)
		}
		*f = n != 0
		return nil
	}
}

// Bool returns the value as a plain bool.
func (f FlexBool) Bool() bool {
	return bool(f)
}

// Bounds is the caller-supplied bounding box [west, south, east, north].
//
// Unmarshaling is deliberately tolerant: anything other than a 4-element
// numeric array (wrong length, wrong element types, not an array at all)
// decodes to nil rather than erroring, and nil later resolves to the default
// region. That is the documented contract: a malformed bounds value never
// fails the request, it falls back.
type Bounds []float64

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bounds) UnmarshalJSON(data []byte) error {
	var vals []float64
	if err := json.Unmarshal(data, &vals); err != nil {
		*b = nil
		return nil
	}
	if len(vals) != 4 {
		*b = nil
		return nil
	}
	*b = vals
	return nil
}

// AnalysisRequest is the JSON body of POST /chat and POST /api/v1/analysis.
// Every field is optional; nil fields take the configured defaults during
// Normalize.
type AnalysisRequest struct {
	YearA     *FlexInt  `json:"yearA"`
	YearB     *FlexInt  `json:"yearB"`
	Bounds    Bounds    `json:"bounds"`
	ThumbDims *FlexInt  `json:"thumb_dims"`
	Video     *FlexBool `json:"video"`
	VideoFPS  *FlexInt  `json:"video_fps"`
}

// AnalysisDefaults carries the configured fallback values applied during
// normalization. It mirrors the analysis section of the configuration
// without importing it, keeping this package dependency-free.
type AnalysisDefaults struct {
	YearA     int
	YearB     int
	Bounds    []float64
	ThumbDims int
	VideoFPS  int
}

// Region is the resolved region of interest for one analysis.
// Custom records whether the caller supplied it; the fallback region
// produces different summary wording.
type Region struct {
	West   float64 `json:"west"`
	South  float64 `json:"south"`
	East   float64 `json:"east"`
	North  float64 `json:"north"`
	Custom bool    `json:"custom"`
}

// Coords returns the region as [west, south, east, north].
func (r Region) Coords() [4]float64 {
	return [4]float64{r.West, r.South, r.East, r.North}
}

// NormalizedRequest is an AnalysisRequest after coercion: defaults applied,
// years ordered, region resolved. Everything downstream of the HTTP boundary
// operates on this type, and its serialized form is the cache key for
// response caching, so the field set must stay deterministic.
type NormalizedRequest struct {
	YearA     int    `json:"year_a"`
	YearB     int    `json:"year_b"`
	Region    Region `json:"region"`
	ThumbDims int    `json:"thumb_dims"`
	Video     bool   `json:"video"`
	VideoFPS  int    `json:"video_fps"`
}

// Normalize resolves the request against the configured defaults.
//
// Rules, in order:
//   - nil years take the default years; yearA and yearB swap when out of order
//   - a well-formed 4-element bounds array becomes a custom region, anything
//     else resolves to the default region
//   - nil thumb_dims, video, and video_fps take their defaults
//
// Normalize never fails; range validation happens separately at the boundary.
func (r *AnalysisRequest) Normalize(def AnalysisDefaults) NormalizedRequest {
	n := NormalizedRequest{
		YearA:     def.YearA,
		YearB:     def.YearB,
		ThumbDims: def.ThumbDims,
		VideoFPS:  def.VideoFPS,
	}

	bounds := def.Bounds
	custom := false

	if r != nil {
		if r.YearA != nil {
			n.YearA = r.YearA.Int()
		}
		if r.YearB != nil {
			n.YearB = r.YearB.Int()
		}
		if r.ThumbDims != nil {
			n.ThumbDims = r.ThumbDims.Int()
		}
		if r.Video != nil {
			n.Video = r.Video.Bool()
		}
		if r.VideoFPS != nil {
			n.VideoFPS = r.VideoFPS.Int()
		}
		if len(r.Bounds) == 4 {
			bounds = r.Bounds
			custom = true
		}
	}

	if n.YearA > n.YearB {
		n.YearA, n.YearB = n.YearB, n.YearA
	}

	n.Region = Region{
		West:   bounds[0],
		South:  bounds[1],
		East:   bounds[2],
		North:  bounds[3],
		Custom: custom,
	}

	return n
}
