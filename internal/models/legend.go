// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package models

// LandCoverClass describes one class of the Dynamic World taxonomy.
// ID is the pixel value in the 'label' band; Color is the bare hex value
// used by the rendered visualizations (no leading '#').
type LandCoverClass struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ChangeHighlightColor is the bare hex color of the change mask rendering.
const ChangeHighlightColor = "ff00ff"

// landCoverClasses is the Dynamic World V1 taxonomy: label band values 0-8
// with the dataset's published visualization palette. Order matters; the
// palette sent to the renderer is derived from this slice by index.
var landCoverClasses = []LandCoverClass{
	{ID: 0, Name: "water", Color: "419bdf"},
	{ID: 1, Name: "trees", Color: "397d49"},
	{ID: 2, Name: "grass", Color: "88b053"},
	{ID: 3, Name: "flooded_vegetation", Color: "7a87c6"},
	{ID: 4, Name: "crops", Color: "e49635"},
	{ID: 5, Name: "shrub_and_scrub", Color: "dfc35a"},
	{ID: 6, Name: "built", Color: "c4281b"},
	{ID: 7, Name: "bare", Color: "a59b8f"},
	{ID: 8, Name: "snow_and_ice", Color: "b39fe1"},
}

// LandCoverClasses returns the full Dynamic World legend. The returned slice
// is a copy; callers may modify it freely.
func LandCoverClasses() []LandCoverClass {
	out := make([]LandCoverClass, len(landCoverClasses))
	copy(out, landCoverClasses)
	return out
}

// ClassPalette returns the 9 palette colors in class order, the form the
// image renderer expects.
func ClassPalette() []string {
	out := make([]string, len(landCoverClasses))
	for i, c := range landCoverClasses {
		out[i] = c.Color
	}
	return out
}

// MaxClassID is the highest label value in the taxonomy, used as the
// visualization range maximum.
func MaxClassID() int {
	return len(landCoverClasses) - 1
}
