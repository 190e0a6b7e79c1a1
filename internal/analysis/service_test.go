// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/chronoterra/internal/cache"
	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/gee"
	"github.com/tomtom215/chronoterra/internal/models"
	"github.com/tomtom215/chronoterra/internal/validation"
)

// fakeEngine scripts Earth Engine responses and records the calls the
// service makes. Thumbnail URLs carry the call index so tests can verify
// which render landed in which response field.
type fakeEngine struct {
	thumbErr     error
	histogram    interface{}
	histogramErr error
	videoErr     error

	thumbCalls   int
	computeCalls int
	videoCalls   int
	lastFPS      int
	sawDeadline  bool
}

var _ gee.Engine = (*fakeEngine)(nil)

func (f *fakeEngine) CreateThumbnail(ctx context.Context, _ *gee.Node) (string, error) {
	f.thumbCalls++
	_, f.sawDeadline = ctx.Deadline()
	if f.thumbErr != nil {
		return "", f.thumbErr
	}
	return fmt.Sprintf("https://earthengine.test/thumb/%d", f.thumbCalls), nil
}

func (f *fakeEngine) CreateVideoThumbnail(_ context.Context, _ *gee.Node, fps int) (string, error) {
	f.videoCalls++
	f.lastFPS = fps
	if f.videoErr != nil {
		return "", f.videoErr
	}
	return "https://earthengine.test/video", nil
}

func (f *fakeEngine) ComputeValue(_ context.Context, _ *gee.Node) (interface{}, error) {
	f.computeCalls++
	if f.histogramErr != nil {
		return nil, f.histogramErr
	}
	if f.histogram != nil {
		return f.histogram, nil
	}
	return map[string]interface{}{
		"label": map[string]interface{}{"0": 5120.0, "4": 2211.0, "6": 998.0},
	}, nil
}

func (f *fakeEngine) Ping(_ context.Context) error { return nil }

func (f *fakeEngine) State() string { return "closed" }

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
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
	}
}

// decodeRequest builds an AnalysisRequest the way the handlers do, from a
// JSON body.
func decodeRequest(t *testing.T, body string) *models.AnalysisRequest {
	t.Helper()
	var req models.AnalysisRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return &req
}

func TestAnalyzeDefaults(t *testing.T) {
	t.Parallel()

	fake := &fakeEngine{}
	svc := NewService(fake, nil, testConfig())

	res, cached, err := svc.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if cached {
		t.Error("fresh run reported as cached")
	}

	if res.YearA != 2020 || res.YearB != 2024 {
		t.Errorf("years = %d/%d, want 2020/2024", res.YearA, res.YearB)
	}
	want := "Dynamic World for years 2020 → 2024 over the Abu Dhabi city block."
	if res.Summary != want {
		t.Errorf("Summary = %q, want %q", res.Summary, want)
	}

	wantURLs := models.ResultURLs{
		DWAThumb:    "https://earthengine.test/thumb/1",
		DWBThumb:    "https://earthengine.test/thumb/2",
		S2AThumb:    "https://earthengine.test/thumb/3",
		S2BThumb:    "https://earthengine.test/thumb/4",
		ChangeThumb: "https://earthengine.test/thumb/5",
	}
	if res.URLs != wantURLs {
		t.Errorf("URLs = %+v, want %+v", res.URLs, wantURLs)
	}

	if res.HistogramYearA.IsError() {
		t.Errorf("unexpected degraded histogram: %v", res.HistogramYearA)
	}
	if _, ok := res.HistogramYearA["label"]; !ok {
		t.Errorf("histogram missing label key: %v", res.HistogramYearA)
	}
	if res.VideoURL != nil {
		t.Errorf("VideoURL = %q, want nil when video not requested", *res.VideoURL)
	}

	if fake.thumbCalls != 5 {
		t.Errorf("thumbnail calls = %d, want 5", fake.thumbCalls)
	}
	if fake.computeCalls != 1 {
		t.Errorf("compute calls = %d, want 1", fake.computeCalls)
	}
	if fake.videoCalls != 0 {
		t.Errorf("video calls = %d, want 0", fake.videoCalls)
	}
	if !fake.sawDeadline {
		t.Error("engine calls did not carry the analysis deadline")
	}
}

func TestAnalyzeSummaryWording(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"default region",
			`{}`,
			"Dynamic World for years 2020 → 2024 over the Abu Dhabi city block.",
		},
		{
			"custom bounds",
			`{"yearA": 2021, "yearB": 2022, "bounds": [106.7, -6.4, 107.0, -6.1]}`,
			"Dynamic World for years 2021 → 2022 over the requested region.",
		},
		{
			"years swapped",
			`{"yearA": 2024, "yearB": 2020}`,
			"Dynamic World for years 2020 → 2024 over the Abu Dhabi city block.",
		},
		{
			"malformed bounds fall back to default region",
			`{"bounds": [1, 2, 3]}`,
			"Dynamic World for years 2020 → 2024 over the Abu Dhabi city block.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewService(&fakeEngine{}, nil, testConfig())
			res, _, err := svc.Analyze(context.Background(), decodeRequest(t, tt.body))
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			if res.Summary != tt.want {
				t.Errorf("Summary = %q, want %q", res.Summary, tt.want)
			}
		})
	}
}

func TestAnalyzeVideo(t *testing.T) {
	t.Parallel()

	fake := &fakeEngine{}
	svc := NewService(fake, nil, testConfig())

	res, _, err := svc.Analyze(context.Background(), decodeRequest(t, `{"video": true, "video_fps": 3}`))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if res.VideoURL == nil {
		t.Fatal("VideoURL is nil, want the rendered URL")
	}
	if *res.VideoURL != "https://earthengine.test/video" {
		t.Errorf("VideoURL = %q, want the rendered URL", *res.VideoURL)
	}
	if fake.videoCalls != 1 {
		t.Errorf("video calls = %d, want 1", fake.videoCalls)
	}
	if fake.lastFPS != 3 {
		t.Errorf("frame rate = %d, want 3", fake.lastFPS)
	}
}

func TestAnalyzeVideoDegrades(t *testing.T) {
	t.Parallel()

	fake := &fakeEngine{videoErr: errors.New("earthengine: too many frames")}
	svc := NewService(fake, nil, testConfig())

	res, _, err := svc.Analyze(context.Background(), decodeRequest(t, `{"video": true}`))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if res.VideoURL != nil {
		t.Errorf("VideoURL = %q, want nil after render failure", *res.VideoURL)
	}
	if fake.videoCalls != 1 {
		t.Errorf("video calls = %d, want 1", fake.videoCalls)
	}
	if res.URLs.ChangeThumb == "" {
		t.Error("thumbnails should survive a timelapse failure")
	}
}

func TestAnalyzeHistogramDegrades(t *testing.T) {
	t.Parallel()

	t.Run("compute error", func(t *testing.T) {
		t.Parallel()

		fake := &fakeEngine{histogramErr: errors.New("earthengine: computation timed out")}
		svc := NewService(fake, nil, testConfig())

		res, _, err := svc.Analyze(context.Background(), nil)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		if !res.HistogramYearA.IsError() {
			t.Fatalf("histogram = %v, want degraded error object", res.HistogramYearA)
		}
		if got := res.HistogramYearA["error"]; got != "earthengine: computation timed out" {
			t.Errorf("histogram error = %v, want the upstream message", got)
		}
		if fake.thumbCalls != 5 {
			t.Errorf("thumbnail calls = %d, want 5 before the histogram stage", fake.thumbCalls)
		}
	})

	t.Run("unexpected shape", func(t *testing.T) {
		t.Parallel()

		fake := &fakeEngine{histogram: "not a map"}
		svc := NewService(fake, nil, testConfig())

		res, _, err := svc.Analyze(context.Background(), nil)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		if !res.HistogramYearA.IsError() {
			t.Fatalf("histogram = %v, want degraded error object", res.HistogramYearA)
		}
		msg, _ := res.HistogramYearA["error"].(string)
		if !strings.Contains(msg, "unexpected histogram shape") {
			t.Errorf("histogram error = %q, want a shape complaint", msg)
		}
	})
}

func TestAnalyzeThumbnailFailureAborts(t *testing.T) {
	t.Parallel()

	upstream := errors.New("earthengine: render backend unavailable")
	fake := &fakeEngine{thumbErr: upstream}
	svc := NewService(fake, nil, testConfig())

	res, _, err := svc.Analyze(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error when a thumbnail render fails")
	}
	if res != nil {
		t.Errorf("result = %+v, want nil on failure", res)
	}
	if !errors.Is(err, upstream) {
		t.Errorf("error %v does not wrap the upstream failure", err)
	}
	if !strings.Contains(err.Error(), "dw_a thumbnail") {
		t.Errorf("error %q does not name the failed layer", err)
	}

	// Fail-fast: nothing past the first layer runs.
	if fake.thumbCalls != 1 {
		t.Errorf("thumbnail calls = %d, want 1", fake.thumbCalls)
	}
	if fake.computeCalls != 0 || fake.videoCalls != 0 {
		t.Errorf("later stages ran after abort: compute=%d video=%d", fake.computeCalls, fake.videoCalls)
	}
}

func TestAnalyzeValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"year below minimum", `{"yearA": 1500}`},
		{"thumb dims beyond maximum", `{"thumb_dims": 99999}`},
		{"fps beyond maximum", `{"video_fps": 120}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &fakeEngine{}
			svc := NewService(fake, nil, testConfig())

			res, _, err := svc.Analyze(context.Background(), decodeRequest(t, tt.body))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if res != nil {
				t.Errorf("result = %+v, want nil", res)
			}
			if !strings.Contains(err.Error(), "request validation:") {
				t.Errorf("error %q missing the validation prefix", err)
			}

			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error %v does not unwrap to RequestValidationError", err)
			}

			if fake.thumbCalls != 0 {
				t.Errorf("thumbnail calls = %d, want 0 for rejected request", fake.thumbCalls)
			}
		})
	}
}

func TestAnalyzeCache(t *testing.T) {
	t.Parallel()

	c := cache.New("analysis-test", time.Minute)
	defer c.Close()

	fake := &fakeEngine{}
	svc := NewService(fake, c, testConfig())
	ctx := context.Background()

	first, cached, err := svc.Analyze(ctx, nil)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if cached {
		t.Error("first run reported as cached")
	}

	second, cached, err := svc.Analyze(ctx, nil)
	if err != nil {
		t.Fatalf("second Analyze failed: %v", err)
	}
	if !cached {
		t.Error("identical request missed the cache")
	}
	if second != first {
		t.Error("cache hit returned a different result value")
	}
	if fake.thumbCalls != 5 {
		t.Errorf("thumbnail calls = %d, want 5 after a cache hit", fake.thumbCalls)
	}

	// Same normalized request, different spelling.
	_, cached, err = svc.Analyze(ctx, decodeRequest(t, `{"yearA": "2020", "yearB": 2024}`))
	if err != nil {
		t.Fatalf("equivalent Analyze failed: %v", err)
	}
	if !cached {
		t.Error("equivalent request spelled differently missed the cache")
	}

	// Different request misses.
	_, cached, err = svc.Analyze(ctx, decodeRequest(t, `{"yearA": 2021}`))
	if err != nil {
		t.Fatalf("distinct Analyze failed: %v", err)
	}
	if cached {
		t.Error("distinct request hit the cache")
	}
	if fake.thumbCalls != 10 {
		t.Errorf("thumbnail calls = %d, want 10 after a distinct run", fake.thumbCalls)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	svc := NewService(&fakeEngine{}, nil, cfg)
	def := svc.Defaults()

	if def.YearA != cfg.DefaultYearA || def.YearB != cfg.DefaultYearB {
		t.Errorf("years = %d/%d, want %d/%d", def.YearA, def.YearB, cfg.DefaultYearA, cfg.DefaultYearB)
	}
	if def.ThumbDims != cfg.ThumbDims {
		t.Errorf("ThumbDims = %d, want %d", def.ThumbDims, cfg.ThumbDims)
	}
	if def.VideoFPS != cfg.VideoFPS {
		t.Errorf("VideoFPS = %d, want %d", def.VideoFPS, cfg.VideoFPS)
	}
	if len(def.Bounds) != 4 || def.Bounds[0] != 54.16 {
		t.Errorf("Bounds = %v, want the configured default region", def.Bounds)
	}
}
