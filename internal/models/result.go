// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package models

// ResultURLs carries the five rendered thumbnail URLs of one analysis.
// The JSON field names are part of the compatibility contract and must not
// change: dw_* are the classified Dynamic World composites, s2_* the
// true-color Sentinel-2 composites, change_thumb the difference mask.
type ResultURLs struct {
	DWAThumb    string `json:"dw_A_thumb"`
	DWBThumb    string `json:"dw_B_thumb"`
	S2AThumb    string `json:"s2_A_thumb"`
	S2BThumb    string `json:"s2_B_thumb"`
	ChangeThumb string `json:"change_thumb"`
}

// Histogram is the class-frequency histogram payload for one year.
//
// On success it holds the reducer output keyed by band name, for example:
//
//	{"label": {"0": 10542, "6": 98021.5}}
//
// When the histogram sub-request fails the analysis still succeeds, and this
// field degrades to an error placeholder instead:
//
//	{"error": "computation timed out"}
type Histogram map[string]interface{}

// HistogramError builds the degraded histogram placeholder for a failed
// statistics request.
func HistogramError(err error) Histogram {
	return Histogram{"error": err.Error()}
}

// IsError reports whether the histogram is the degraded placeholder.
func (h Histogram) IsError() bool {
	_, ok := h["error"]
	return ok
}

// AnalysisResult is the 200 response body of POST /chat, returned bare with
// no envelope. VideoURL has no omitempty on purpose: the contract requires
// an explicit null both when video was not requested and when the animated
// render failed.
type AnalysisResult struct {
	Summary        string     `json:"summary"`
	YearA          int        `json:"yearA"`
	YearB          int        `json:"yearB"`
	URLs           ResultURLs `json:"urls"`
	HistogramYearA Histogram  `json:"histogram_yearA"`
	VideoURL       *string    `json:"video_url"`
}

// ErrorResponse is the bare error body used by the compatibility route:
// {"error": "<message>"} with a 500 status.
type ErrorResponse struct {
	Error string `json:"error"`
}
