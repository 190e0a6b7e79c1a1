// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/chronoterra/internal/analysis"
	"github.com/tomtom215/chronoterra/internal/cache"
	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/gee"
	"github.com/tomtom215/chronoterra/internal/models"
)

// fakeEngine is a scriptable gee.Engine double.
type fakeEngine struct {
	thumbErr   error
	computeErr error
	videoErr   error
	pingErr    error
	state      string

	thumbCalls int
}

var _ gee.Engine = (*fakeEngine)(nil)

func (f *fakeEngine) CreateThumbnail(_ context.Context, _ *gee.Node) (string, error) {
	f.thumbCalls++
	if f.thumbErr != nil {
		return "", f.thumbErr
	}
	return fmt.Sprintf("https://earthengine.test/thumb/%d", f.thumbCalls), nil
}

func (f *fakeEngine) CreateVideoThumbnail(_ context.Context, _ *gee.Node, _ int) (string, error) {
	if f.videoErr != nil {
		return "", f.videoErr
	}
	return "https://earthengine.test/video", nil
}

func (f *fakeEngine) ComputeValue(_ context.Context, _ *gee.Node) (interface{}, error) {
	if f.computeErr != nil {
		return nil, f.computeErr
	}
	return map[string]interface{}{
		"label": map[string]interface{}{"0": 5120.0, "6": 998.0},
	}, nil
}

func (f *fakeEngine) Ping(_ context.Context) error {
	return f.pingErr
}

func (f *fakeEngine) State() string {
	if f.state == "" {
		return "closed"
	}
	return f.state
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:    4326,
			Host:    "127.0.0.1",
			Timeout: 30 * time.Second,
		},
		Analysis: config.AnalysisConfig{
			DefaultYearA:   2020,
			DefaultYearB:   2024,
			DefaultBounds:  []float64{54.16, 24.29, 54.74, 24.61},
			ThumbDims:      768,
			MaxThumbDims:   2048,
			VideoFPS:       1,
			HistogramScale: 30,
			MaxPixels:      1_000_000_000,
			CloudPctMax:    30,
			Timeout:        30 * time.Second,
		},
		Security: config.SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// newTestHandler wires a Handler over the fake engine with no result cache.
func newTestHandler(engine *fakeEngine) *Handler {
	cfg := testConfig()
	svc := analysis.NewService(engine, nil, cfg.Analysis)
	return NewHandler(svc, engine, cfg)
}

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/chat", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) models.AnalysisResult {
	t.Helper()

	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v (body %s)", err, rec.Body.String())
	}
	return result
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&fakeEngine{})

	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if h.startTime.IsZero() {
		t.Error("Expected start time to be set")
	}
	if h.analysis == nil {
		t.Error("Expected analysis service to be set")
	}
}

func TestRoot(t *testing.T) {
	t.Parallel()

	h := newTestHandler(&fakeEngine{})

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding banner: %v", err)
	}
	if got := body["message"]; got != "GEE Dynamic World API is running" {
		t.Errorf("message = %q, want the banner text", got)
	}
	if len(body) != 1 {
		t.Errorf("banner body has %d fields, want exactly 1", len(body))
	}
}

func TestAnalyzeDefaults(t *testing.T) {
	t.Parallel()

	rec := postChat(t, newTestHandler(&fakeEngine{}), `{}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", got)
	}

	result := decodeResult(t, rec)
	if result.YearA != 2020 || result.YearB != 2024 {
		t.Errorf("years = %d/%d, want 2020/2024", result.YearA, result.YearB)
	}
	if result.URLs.DWAThumb == "" || result.URLs.ChangeThumb == "" {
		t.Errorf("missing thumbnail URLs: %+v", result.URLs)
	}
	if result.VideoURL != nil {
		t.Errorf("video_url = %v, want null when video not requested", *result.VideoURL)
	}
	if !strings.Contains(result.Summary, "Abu Dhabi city block") {
		t.Errorf("summary = %q, want the default-region wording", result.Summary)
	}
}

// An absent body is legal: every field is optional.
func TestAnalyzeEmptyBody(t *testing.T) {
	t.Parallel()

	rec := postChat(t, newTestHandler(&fakeEngine{}), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	result := decodeResult(t, rec)
	if result.YearA != 2020 || result.YearB != 2024 {
		t.Errorf("years = %d/%d, want defaults", result.YearA, result.YearB)
	}
}

func TestAnalyzeCoercedParameters(t *testing.T) {
	t.Parallel()

	rec := postChat(t, newTestHandler(&fakeEngine{}),
		`{"yearA": "2021", "yearB": 2023, "video": "true", "video_fps": "2"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	result := decodeResult(t, rec)
	if result.YearA != 2021 || result.YearB != 2023 {
		t.Errorf("years = %d/%d, want 2021/2023", result.YearA, result.YearB)
	}
	if result.VideoURL == nil {
		t.Error("video_url = null, want a URL for a coerced video=true")
	}
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"truncated object", `{"yearA": `},
		{"not json", `years please`},
		{"unparseable year string", `{"yearA": "twenty twenty"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := postChat(t, newTestHandler(&fakeEngine{}), tt.body)

			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", rec.Code)
			}

			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if msg, _ := body["error"].(string); msg == "" {
				t.Errorf("error body = %v, want a bare error message", body)
			}
			// The compatibility route never uses the envelope.
			if _, ok := body["status"]; ok {
				t.Errorf("error body carries envelope fields: %v", body)
			}
		})
	}
}

func TestAnalyzeValidationFailure(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{}
	rec := postChat(t, newTestHandler(engine), `{"yearA": 1500}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "request validation") {
		t.Errorf("body = %s, want a validation message", rec.Body.String())
	}
	if engine.thumbCalls != 0 {
		t.Errorf("thumbCalls = %d, want 0 for a rejected request", engine.thumbCalls)
	}
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{thumbErr: fmt.Errorf("render backend unavailable")}
	rec := postChat(t, newTestHandler(engine), `{}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (body %s)", rec.Code, rec.Body.String())
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if !strings.Contains(body.Error, "thumbnail") {
		t.Errorf("error = %q, want the failing step named", body.Error)
	}
}

// Histogram and video failures degrade inside the 200 body.
func TestAnalyzeDegradations(t *testing.T) {
	t.Parallel()

	t.Run("histogram failure", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{computeErr: fmt.Errorf("computation timed out")}
		rec := postChat(t, newTestHandler(engine), `{}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 despite histogram failure", rec.Code)
		}
		result := decodeResult(t, rec)
		if !result.HistogramYearA.IsError() {
			t.Errorf("histogram_yearA = %v, want the error placeholder", result.HistogramYearA)
		}
	})

	t.Run("video failure", func(t *testing.T) {
		t.Parallel()

		engine := &fakeEngine{videoErr: fmt.Errorf("animation render failed")}
		rec := postChat(t, newTestHandler(engine), `{"video": true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 despite video failure", rec.Code)
		}
		result := decodeResult(t, rec)
		if result.VideoURL != nil {
			t.Errorf("video_url = %v, want null after a failed render", *result.VideoURL)
		}
		if result.URLs.DWAThumb == "" {
			t.Error("thumbnails should survive a failed video render")
		}
	})
}

func TestAnalyzeCacheHeader(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	engine := &fakeEngine{}
	resultCache := cache.New("api-test", time.Minute)
	defer resultCache.Close()

	svc := analysis.NewService(engine, resultCache, cfg.Analysis)
	h := NewHandler(svc, engine, cfg)

	first := postChat(t, h, `{"yearA": 2019}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}

	second := postChat(t, h, `{"yearA": 2019}`)
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d, want 200", second.Code)
	}
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if engine.thumbCalls != 5 {
		t.Errorf("thumbCalls = %d, want 5 (second request served from cache)", engine.thumbCalls)
	}
}
