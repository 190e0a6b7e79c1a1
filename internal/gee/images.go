// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
images.go - Dynamic World and Sentinel-2 Expression Builders

Assembles the expression graphs behind every analysis layer: yearly
Dynamic World label composites, yearly Sentinel-2 true-color
composites, the change mask between two years, the timelapse frame
collection, and the per-class pixel histogram.

All builders take the region geometry as a node so that one geometry
instance can be shared across every layer of an analysis and serialize
to a single table entry.
*/

package gee

import (
	"fmt"

	"github.com/tomtom215/chronoterra/internal/models"
)

const (
	dynamicWorldCollection = "GOOGLE/DYNAMICWORLD/V1"
	sentinel2Collection    = "COPERNICUS/S2_HARMONIZED"

	labelBand      = "label"
	cloudCoverAttr = "CLOUDY_PIXEL_PERCENTAGE"

	trueColorMin = 0
	trueColorMax = 3000
)

var sentinelRGBBands = []string{"B4", "B3", "B2"}

// RegionGeometry builds the rectangle covering the analysis region
// from its low and high corners. Edges are planar, following parallels
// and meridians rather than great circles, so the geometry is exactly
// the rectangle the four bounds describe.
func RegionGeometry(r models.Region) *Node {
	corners := [][]float64{
		{r.West, r.South},
		{r.East, r.North},
	}
	return Invoke("GeometryConstructors.Rectangle", Args{
		"coordinates": Constant(corners),
		"geodesic":    Constant(false),
	})
}

// yearInterval returns the ISO dates bounding a calendar year, start
// inclusive and end exclusive.
func yearInterval(year int) (string, string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1)
}

// filteredCollection loads an image collection restricted to a single
// calendar year and to scenes intersecting the region of interest.
func filteredCollection(collection string, year int, roi *Node) *Node {
	start, end := yearInterval(year)
	loaded := Invoke("ImageCollection.load", Args{
		"id": Constant(collection),
	})
	inYear := Invoke("Collection.filter", Args{
		"collection": loaded,
		"filter": Invoke("Filter.dateRangeContains", Args{
			"leftValue": Invoke("DateRange", Args{
				"start": Constant(start),
				"end":   Constant(end),
			}),
			"rightField": Constant("system:time_start"),
		}),
	})
	return Invoke("Collection.filter", Args{
		"collection": inYear,
		"filter": Invoke("Filter.intersects", Args{
			"leftField":  Constant(".all"),
			"rightValue": Invoke("Feature", Args{"geometry": roi}),
		}),
	})
}

// composite reduces a filtered collection to a single image and
// restores the plain band names the reducer suffixed.
func composite(coll *Node, reducer string, bands, suffixed []string) *Node {
	reduced := Invoke("ImageCollection.reduce", Args{
		"collection": coll,
		"reducer":    Invoke(reducer, Args{}),
	})
	selected := Invoke("Image.select", Args{
		"input":         reduced,
		"bandSelectors": Constant(suffixed),
	})
	return Invoke("Image.rename", Args{
		"input": selected,
		"names": Constant(bands),
	})
}

// DynamicWorldLabels composes the Dynamic World classification for one
// calendar year: the per-pixel modal class across every scene touching
// the region, clipped to it, with masked pixels resolved to class 0.
// The composite carries a single band named "label", which is also the
// key the histogram reduction groups under.
func DynamicWorldLabels(year int, roi *Node) *Node {
	coll := filteredCollection(dynamicWorldCollection, year, roi)
	labels := composite(coll, "Reducer.mode", []string{labelBand}, []string{labelBand + "_mode"})
	clipped := Invoke("Image.clip", Args{"input": labels, "geometry": roi})
	return Invoke("Image.unmask", Args{
		"input": clipped,
		"value": Invoke("Image.constant", Args{"value": Constant(0)}),
	})
}

// SentinelTrueColor composes the Sentinel-2 median for one calendar
// year over the region, keeping only scenes below the cloud-cover
// ceiling. Only the visible 10m bands survive into the composite.
func SentinelTrueColor(year int, roi *Node, maxCloudPct float64) *Node {
	coll := filteredCollection(sentinel2Collection, year, roi)
	clearSky := Invoke("Collection.filter", Args{
		"collection": coll,
		"filter": Invoke("Filter.lessThan", Args{
			"leftField":  Constant(cloudCoverAttr),
			"rightValue": Constant(maxCloudPct),
		}),
	})
	suffixed := make([]string, len(sentinelRGBBands))
	for i, band := range sentinelRGBBands {
		suffixed[i] = band + "_median"
	}
	rgb := composite(clearSky, "Reducer.median", sentinelRGBBands, suffixed)
	return Invoke("Image.clip", Args{"input": rgb, "geometry": roi})
}

// ChangeMask marks every pixel whose class differs between two label
// composites. Unchanged pixels are masked out entirely rather than
// rendered as zero, so the overlay stays transparent where nothing
// changed.
func ChangeMask(labelsA, labelsB, roi *Node) *Node {
	diff := Invoke("Image.neq", Args{"image1": labelsA, "image2": labelsB})
	masked := Invoke("Image.updateMask", Args{"image": diff, "mask": diff})
	return Invoke("Image.clip", Args{"input": masked, "geometry": roi})
}

// VisualizeLabels renders a label composite with the fixed class
// palette, one color per Dynamic World class.
func VisualizeLabels(img *Node) *Node {
	return Invoke("Image.visualize", Args{
		"image":   img,
		"min":     Constant(0),
		"max":     Constant(models.MaxClassID()),
		"palette": Constant(models.ClassPalette()),
	})
}

// VisualizeTrueColor renders a Sentinel-2 composite as true color from
// the visible bands.
func VisualizeTrueColor(img *Node) *Node {
	return Invoke("Image.visualize", Args{
		"image": img,
		"bands": Constant(sentinelRGBBands),
		"min":   Constant(trueColorMin),
		"max":   Constant(trueColorMax),
	})
}

// VisualizeChange paints surviving change pixels in the highlight
// color.
func VisualizeChange(img *Node) *Node {
	return Invoke("Image.visualize", Args{
		"image":   img,
		"palette": Constant([]string{models.ChangeHighlightColor}),
	})
}

// PrepareThumbnail fits a visualized image to the region at the
// requested output size. Geometry and dimension travel inside the
// expression, which is how the thumbnail endpoints receive them.
func PrepareThumbnail(img, roi *Node, maxDim int) *Node {
	return Invoke("Image.clipToBoundsAndScale", Args{
		"input":        img,
		"geometry":     roi,
		"maxDimension": Constant(maxDim),
	})
}

// TimelapseFrames builds the animation collection: one visualized
// label composite per year from yearA through yearB inclusive, in
// ascending order. Callers pass normalized years, yearA <= yearB.
func TimelapseFrames(yearA, yearB int, roi *Node, maxDim int) *Node {
	frames := make([]*Node, 0, yearB-yearA+1)
	for year := yearA; year <= yearB; year++ {
		frame := PrepareThumbnail(VisualizeLabels(DynamicWorldLabels(year, roi)), roi, maxDim)
		frames = append(frames, frame)
	}
	return Invoke("ImageCollection.fromImages", Args{
		"images": Array(frames...),
	})
}

// ClassHistogram counts pixels per class over the region at the given
// sampling scale. The computed result groups class counts under the
// label band name.
func ClassHistogram(labels, roi *Node, scale float64, maxPixels int64) *Node {
	return Invoke("Image.reduceRegion", Args{
		"image":     labels,
		"reducer":   Invoke("Reducer.frequencyHistogram", Args{}),
		"geometry":  roi,
		"scale":     Constant(scale),
		"maxPixels": Constant(maxPixels),
	})
}
