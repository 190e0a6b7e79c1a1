// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/* service.go - Land Cover Change Analysis Service

Coordinates one full analysis run: request normalization and validation,
Earth Engine graph assembly, the five-layer thumbnail render sequence,
the degradable class histogram and timelapse stages, summary wording,
and response caching.

The thumbnail sequence is strictly sequential and fail-fast: a failure
on any layer aborts the whole run with an error. The histogram and
timelapse stages degrade instead of failing, the histogram to an inline
{"error": ...} object and the timelapse to a null URL, so partial
upstream trouble still yields a usable response.
*/

package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/chronoterra/internal/cache"
	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/gee"
	"github.com/tomtom215/chronoterra/internal/logging"
	"github.com/tomtom215/chronoterra/internal/metrics"
	"github.com/tomtom215/chronoterra/internal/models"
	"github.com/tomtom215/chronoterra/internal/validation"
)

// cacheOperation namespaces analysis entries in the result cache.
const cacheOperation = "analysis"

// Service runs land cover change analyses against Earth Engine.
// It is safe for concurrent use; all fields are read-only after construction.
type Service struct {
	engine gee.Engine
	cache  *cache.Cache
	cfg    config.AnalysisConfig
}

// NewService creates an analysis service. resultCache may be nil, which
// disables response caching.
func NewService(engine gee.Engine, resultCache *cache.Cache, cfg config.AnalysisConfig) *Service {
	return &Service{
		engine: engine,
		cache:  resultCache,
		cfg:    cfg,
	}
}

// Defaults returns the request defaults applied during normalization.
func (s *Service) Defaults() models.AnalysisDefaults {
	return models.AnalysisDefaults{
		YearA:     s.cfg.DefaultYearA,
		YearB:     s.cfg.DefaultYearB,
		Bounds:    s.cfg.DefaultBounds,
		ThumbDims: s.cfg.ThumbDims,
		VideoFPS:  s.cfg.VideoFPS,
	}
}

// Analyze runs one analysis. The second return value reports whether the
// result was served from the cache. req may be nil; an all-defaults run
// results.
func (s *Service) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, bool, error) {
	n := req.Normalize(s.Defaults())

	start := time.Now()

	if verr := validation.ValidateAnalysis(n, s.cfg.MaxThumbDims); verr != nil {
		err := fmt.Errorf("request validation: %w", verr)
		metrics.RecordAnalysis(time.Since(start), err)
		return nil, false, err
	}

	// Cache hits skip the analysis metrics; the cache tracks its own hit
	// rate and a hit would distort the duration histogram.
	var key string
	if s.cache != nil {
		key = cache.GenerateKey(cacheOperation, n)
		if v, ok := s.cache.Get(key); ok {
			if result, ok := v.(*models.AnalysisResult); ok {
				return result, true, nil
			}
		}
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	result, err := s.run(ctx, n)
	metrics.RecordAnalysis(time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		s.cache.Set(key, result)
	}

	return result, false, nil
}

// run executes the render sequence and the degradable stages for a
// normalized request.
func (s *Service) run(ctx context.Context, n models.NormalizedRequest) (*models.AnalysisResult, error) {
	log := logging.CtxWith(ctx).
		Str("component", "analysis").
		Int("year_a", n.YearA).
		Int("year_b", n.YearB).
		Bool("custom_region", n.Region.Custom).
		Logger()

	roi := gee.RegionGeometry(n.Region)
	labelsA := gee.DynamicWorldLabels(n.YearA, roi)
	labelsB := gee.DynamicWorldLabels(n.YearB, roi)

	urls, err := s.renderThumbnails(ctx, n, roi, labelsA, labelsB)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		return nil, err
	}

	result := &models.AnalysisResult{
		Summary:        summary(n),
		YearA:          n.YearA,
		YearB:          n.YearB,
		URLs:           urls,
		HistogramYearA: s.classHistogram(ctx, log, labelsA, roi),
	}

	if n.Video {
		result.VideoURL = s.renderTimelapse(ctx, log, n, roi)
	}

	log.Info().
		Bool("video", result.VideoURL != nil).
		Bool("histogram_degraded", result.HistogramYearA.IsError()).
		Msg("analysis complete")

	return result, nil
}

// renderThumbnails renders the five layers in their fixed order. Any
// failure aborts the analysis.
func (s *Service) renderThumbnails(ctx context.Context, n models.NormalizedRequest, roi, labelsA, labelsB *gee.Node) (models.ResultURLs, error) {
	var urls models.ResultURLs

	layers := []struct {
		label string
		image *gee.Node
		dest  *string
	}{
		{"dw_a", gee.VisualizeLabels(labelsA), &urls.DWAThumb},
		{"dw_b", gee.VisualizeLabels(labelsB), &urls.DWBThumb},
		{"s2_a", gee.VisualizeTrueColor(gee.SentinelTrueColor(n.YearA, roi, s.cfg.CloudPctMax)), &urls.S2AThumb},
		{"s2_b", gee.VisualizeTrueColor(gee.SentinelTrueColor(n.YearB, roi, s.cfg.CloudPctMax)), &urls.S2BThumb},
		{"change", gee.VisualizeChange(gee.ChangeMask(labelsA, labelsB, roi)), &urls.ChangeThumb},
	}

	for _, layer := range layers {
		url, err := s.engine.CreateThumbnail(ctx, gee.PrepareThumbnail(layer.image, roi, n.ThumbDims))
		if err != nil {
			return models.ResultURLs{}, fmt.Errorf("%s thumbnail: %w", layer.label, err)
		}
		*layer.dest = url
		metrics.RecordThumbnail(layer.label)
	}

	return urls, nil
}

// classHistogram computes the year A class histogram, degrading to an
// inline error object on failure.
func (s *Service) classHistogram(ctx context.Context, log zerolog.Logger, labels, roi *gee.Node) models.Histogram {
	value, err := s.engine.ComputeValue(ctx, gee.ClassHistogram(labels, roi, s.cfg.HistogramScale, s.cfg.MaxPixels))
	if err == nil {
		if hist, ok := value.(map[string]interface{}); ok {
			return models.Histogram(hist)
		}
		err = fmt.Errorf("unexpected histogram shape %T", value)
	}

	metrics.RecordHistogramDegradation()
	log.Warn().Err(err).Msg("class histogram degraded")
	return models.HistogramError(err)
}

// renderTimelapse renders the label timelapse, degrading to nil on failure.
func (s *Service) renderTimelapse(ctx context.Context, log zerolog.Logger, n models.NormalizedRequest, roi *gee.Node) *string {
	frames := gee.TimelapseFrames(n.YearA, n.YearB, roi, n.ThumbDims)
	url, err := s.engine.CreateVideoThumbnail(ctx, frames, n.VideoFPS)
	if err != nil {
		metrics.RecordVideoDegradation()
		log.Warn().Err(err).Msg("timelapse degraded")
		return nil
	}
	return &url
}

// summary wording distinguishes the default region from caller-supplied
// bounds.
func summary(n models.NormalizedRequest) string {
	region := "the Abu Dhabi city block"
	if n.Region.Custom {
		region = "the requested region"
	}
	return fmt.Sprintf("Dynamic World for years %d → %d over %s.", n.YearA, n.YearB, region)
}
