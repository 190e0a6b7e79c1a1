// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/chronoterra/internal/analysis"
	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/gee"
	"github.com/tomtom215/chronoterra/internal/logging"
	"github.com/tomtom215/chronoterra/internal/models"
)

// version reported by the health document.
const version = "1.0.0"

// maxRequestBody caps the analysis request body. The body is a JSON object
// of six optional scalars; anything larger is abuse.
const maxRequestBody = 1 << 20

// Handler contains dependencies for the API handlers.
//
// Handler methods are split across files by surface:
//   - handlers.go: Handler struct, constructor, compatibility routes (this file)
//   - handlers_health.go: health document and Kubernetes-style probes
//   - handlers_classes.go: the Dynamic World legend
//   - helpers.go: shared response helpers
type Handler struct {
	analysis  *analysis.Service
	engine    gee.Engine
	config    *config.Config
	startTime time.Time
}

// NewHandler creates the API handler.
//
// Dependencies:
//   - svc: the analysis orchestration service
//   - engine: the Earth Engine client, consulted by the health surface
//   - cfg: application configuration
func NewHandler(svc *analysis.Service, engine gee.Engine, cfg *config.Config) *Handler {
	return &Handler{
		analysis:  svc,
		engine:    engine,
		config:    cfg,
		startTime: time.Now(),
	}
}

// Root handles the legacy banner route.
//
// @Summary Service banner
// @Description Returns a fixed banner message proving the service is up. Answers independently of Earth Engine state.
// @Tags Core
// @Produce json
// @Success 200 {object} map[string]string "Banner message"
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeBare(w, http.StatusOK, map[string]string{
		"message": "GEE Dynamic World API is running",
	})
}

// Analyze runs the land cover change pipeline.
//
// The response body is bare on success and on failure; this route predates
// the envelope and its shapes are frozen. Partial upstream failures degrade
// inside the 200 body (histogram_yearA becomes an error object, video_url
// becomes null) rather than failing the request.
//
// @Summary Run a land cover change analysis
// @Description Renders Dynamic World classification composites for two years over a bounding
// @Description box, the change mask between them, Sentinel-2 true-color context imagery, a
// @Description class-frequency histogram, and optionally an animated year-by-year timelapse.
// @Description Every request field is optional; omitted fields take the configured defaults.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body models.AnalysisRequest false "Analysis parameters"
// @Success 200 {object} models.AnalysisResult "Rendered layer URLs and statistics"
// @Failure 500 {object} models.ErrorResponse "A mandatory pipeline step failed"
// @Header 200 {string} X-Cache "HIT when served from the result cache, MISS otherwise"
// @Router /chat [post]
// @Router /api/v1/analysis [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := decodeAnalysisRequest(w, r, &req); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("rejecting undecodable analysis request")
		writeBareError(w, http.StatusInternalServerError, err)
		return
	}

	result, cached, err := h.analysis.Analyze(r.Context(), &req)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("analysis failed")
		writeBareError(w, http.StatusInternalServerError, err)
		return
	}

	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeBare(w, http.StatusOK, result)
}

// decodeAnalysisRequest decodes the request body into req. An absent body is
// legal and means all defaults; a body that is present but not valid JSON is
// a request failure.
func decodeAnalysisRequest(w http.ResponseWriter, r *http.Request, req *models.AnalysisRequest) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	err := json.NewDecoder(r.Body).Decode(req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return nil
	default:
		return fmt.Errorf("request body: %w", err)
	}
}
