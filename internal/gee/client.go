// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
client.go - Earth Engine REST Client with Rate Limiting and Retry

Talks to the Earth Engine v1 REST API: thumbnail and video thumbnail
registration plus server-side value computation. Every call is rate
limited with a token bucket, and throttled or transiently failing
requests (HTTP 429 and 5xx) are retried with exponential backoff,
honoring a Retry-After header when the service sends one.

The process shares one session. Initialize builds it exactly once from
configuration; later calls return the same client regardless of the
configuration they pass.
*/

package gee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/chronoterra/internal/config"
	"github.com/tomtom215/chronoterra/internal/logging"
	"github.com/tomtom215/chronoterra/internal/metrics"
)

const (
	// maxErrorBodySize caps how much of an error response body is read
	// into an error message.
	maxErrorBodySize = 64 * 1024

	defaultRetryBaseDelay = 1 * time.Second
)

// Engine is the surface the analysis pipeline consumes. Handlers and
// services are tested against a stub implementation without network
// access.
type Engine interface {
	// CreateThumbnail registers a rendered image and returns the URL
	// its pixels can be fetched from.
	CreateThumbnail(ctx context.Context, expr *Node) (string, error)

	// CreateVideoThumbnail registers an animated rendering of a frame
	// collection and returns its fetch URL.
	CreateVideoThumbnail(ctx context.Context, frames *Node, fps int) (string, error)

	// ComputeValue evaluates an expression server side and returns the
	// decoded result.
	ComputeValue(ctx context.Context, expr *Node) (interface{}, error)

	// Ping verifies the session end to end with a trivial computation.
	Ping(ctx context.Context) error

	// State reports the circuit state guarding the engine.
	State() string
}

// Client talks to the Earth Engine v1 REST API using a service
// account credential.
type Client struct {
	endpoint       string
	project        string
	httpClient     *http.Client
	tokens         *tokenSource
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

var _ Engine = (*Client)(nil)

// NewClient parses credentials from configuration and readies a
// client. No network calls happen here; the first request mints the
// OAuth token.
func NewClient(cfg *config.GEEConfig) (*Client, error) {
	sa, err := ParseServiceAccount(cfg.ServiceAccountKey)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	tokens, err := newTokenSource(sa, httpClient)
	if err != nil {
		return nil, err
	}
	project := cfg.Project
	if project == "" {
		project = sa.ProjectID
	}
	if project == "" {
		return nil, errors.New("no Earth Engine project: set gee.project or use a key with project_id")
	}
	return &Client{
		endpoint:       strings.TrimRight(cfg.Endpoint, "/"),
		project:        project,
		httpClient:     httpClient,
		tokens:         tokens,
		limiter:        rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
	}, nil
}

var (
	initOnce    sync.Once
	initClient  *Client
	initErr     error
	initialized atomic.Bool
)

// Initialize builds the shared Earth Engine session from
// configuration. The first call does the work; later calls return the
// same client and error.
func Initialize(cfg *config.GEEConfig) (*Client, error) {
	initOnce.Do(func() {
		initClient, initErr = NewClient(cfg)
		if initErr != nil {
			return
		}
		initialized.Store(true)
		metrics.SetSessionInitialized(true)
		logging.Info().
			Str("endpoint", initClient.endpoint).
			Str("project", initClient.project).
			Msg("Earth Engine session initialized")
	})
	return initClient, initErr
}

// Initialized reports whether the shared session is ready.
func Initialized() bool {
	return initialized.Load()
}

// CreateThumbnail registers a rendered image and returns the URL its
// pixels can be fetched from.
func (c *Client) CreateThumbnail(ctx context.Context, expr *Node) (string, error) {
	start := time.Now()
	url, err := c.createThumbnail(ctx, expr)
	metrics.RecordEECall("thumbnail", time.Since(start), err)
	return url, err
}

func (c *Client) createThumbnail(ctx context.Context, expr *Node) (string, error) {
	serialized, err := Serialize(expr)
	if err != nil {
		return "", fmt.Errorf("earthengine: %w", err)
	}
	payload := map[string]interface{}{
		"expression": serialized,
		"fileFormat": "PNG",
	}
	var created struct {
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/v1/projects/%s/thumbnails", c.project)
	if err := c.post(ctx, "thumbnail", path, payload, &created); err != nil {
		return "", err
	}
	if created.Name == "" {
		return "", errors.New("earthengine: thumbnail response missing resource name")
	}
	return c.pixelsURL(created.Name), nil
}

// CreateVideoThumbnail registers an animated rendering of the frame
// collection and returns its fetch URL.
func (c *Client) CreateVideoThumbnail(ctx context.Context, frames *Node, fps int) (string, error) {
	start := time.Now()
	url, err := c.createVideoThumbnail(ctx, frames, fps)
	metrics.RecordEECall("video_thumbnail", time.Since(start), err)
	return url, err
}

func (c *Client) createVideoThumbnail(ctx context.Context, frames *Node, fps int) (string, error) {
	serialized, err := Serialize(frames)
	if err != nil {
		return "", fmt.Errorf("earthengine: %w", err)
	}
	payload := map[string]interface{}{
		"expression": serialized,
		"fileFormat": "GIF",
		"videoOptions": map[string]interface{}{
			"framesPerSecond": fps,
		},
	}
	var created struct {
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/v1/projects/%s/videoThumbnails", c.project)
	if err := c.post(ctx, "video_thumbnail", path, payload, &created); err != nil {
		return "", err
	}
	if created.Name == "" {
		return "", errors.New("earthengine: video thumbnail response missing resource name")
	}
	return c.pixelsURL(created.Name), nil
}

// ComputeValue evaluates an expression server side and returns the
// decoded result.
func (c *Client) ComputeValue(ctx context.Context, expr *Node) (interface{}, error) {
	start := time.Now()
	value, err := c.compute(ctx, "compute_value", expr)
	metrics.RecordEECall("compute_value", time.Since(start), err)
	return value, err
}

// Ping verifies the session end to end: token mint, authentication,
// and a trivial computation against the live service.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	_, err := c.compute(ctx, "ping", Constant(1))
	metrics.RecordEECall("ping", time.Since(start), err)
	return err
}

// State reports the circuit state. A bare client carries no breaker;
// see ProtectedClient for the guarded variant.
func (c *Client) State() string {
	return "closed"
}

func (c *Client) compute(ctx context.Context, operation string, expr *Node) (interface{}, error) {
	serialized, err := Serialize(expr)
	if err != nil {
		return nil, fmt.Errorf("earthengine: %w", err)
	}
	payload := map[string]interface{}{"expression": serialized}
	var computed struct {
		Result interface{} `json:"result"`
	}
	path := fmt.Sprintf("/v1/projects/%s/value:compute", c.project)
	if err := c.post(ctx, operation, path, payload, &computed); err != nil {
		return nil, err
	}
	return computed.Result, nil
}

// pixelsURL converts a created resource name into the URL its pixels
// are served from.
func (c *Client) pixelsURL(name string) string {
	return fmt.Sprintf("%s/v1/%s:getPixels", c.endpoint, name)
}

// post sends one API request with rate limiting and retry. The backoff
// doubles per attempt and a Retry-After header overrides it.
func (c *Client) post(ctx context.Context, operation, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("earthengine: encoding %s request: %w", operation, err)
	}

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("earthengine: %s cancelled: %w", operation, err)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("earthengine: %s cancelled: %w", operation, err)
		}

		resp, err := c.send(ctx, path, body)
		if err != nil {
			return fmt.Errorf("earthengine: %s request failed: %w", operation, err)
		}

		if !retryableStatus(resp.StatusCode) {
			return c.finish(operation, resp, out)
		}

		status := resp.StatusCode
		retryAfter := resp.Header.Get("Retry-After")
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			return fmt.Errorf("earthengine: %s failed with status %d after %d retries", operation, status, c.maxRetries)
		}

		metrics.RecordEERetry(operation)
		delay := c.retryBaseDelay * (1 << attempt)
		if retryAfter != "" {
			if parsed, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = parsed
			}
		}
		logging.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Int("status", status).
			Dur("delay", delay).
			Msg("Earth Engine request throttled, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("earthengine: %s cancelled during backoff: %w", operation, ctx.Err())
		}
	}
	return fmt.Errorf("earthengine: %s exhausted retries", operation)
}

func (c *Client) send(ctx context.Context, path string, body []byte) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

// finish decodes a terminal response, mapping non-2xx statuses to
// errors carrying the service's own message when one is present.
func (c *Client) finish(operation string, resp *http.Response, out interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := readBodyForError(resp.Body)
		if apiMsg := parseAPIError(msg); apiMsg != "" {
			msg = apiMsg
		}
		return fmt.Errorf("earthengine: %s failed with status %d: %s", operation, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("earthengine: decoding %s response: %w", operation, err)
	}
	return nil
}

// retryableStatus reports whether a response warrants another attempt:
// 429 means throttled, 5xx covers transient server faults.
func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// readBodyForError reads at most maxErrorBodySize bytes of a response
// body for inclusion in an error message.
func readBodyForError(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return fmt.Sprintf("(failed to read response body: %v)", err)
	}
	body := strings.TrimSpace(string(data))
	if len(data) == maxErrorBodySize {
		body += "\n... (truncated)"
	}
	return body
}

// parseAPIError extracts the message from a Google API error body,
// returning "" when the body is not in that shape.
func parseAPIError(body string) string {
	var payload struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	if payload.Error.Message == "" {
		return ""
	}
	if payload.Error.Status != "" {
		return fmt.Sprintf("%s: %s", payload.Error.Status, payload.Error.Message)
	}
	return payload.Error.Message
}
