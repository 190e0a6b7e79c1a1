// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

/*
auth.go - Service Account Credentials and OAuth2 Token Source

Authenticates against Earth Engine with a Google service account key
using the RFC 7523 JWT bearer grant: the client signs a short-lived
assertion with the account's RSA key and exchanges it at the token
endpoint for an access token scoped to Earth Engine.

Tokens are cached and refreshed shortly before expiry so concurrent
analyses share one credential instead of minting per request.
*/

package gee

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/chronoterra/internal/metrics"
)

const (
	earthEngineScope = "https://www.googleapis.com/auth/earthengine"
	defaultTokenURI  = "https://oauth2.googleapis.com/token"

	// tokenExpirySlack refreshes tokens this long before they expire
	// so in-flight requests never present a stale credential.
	tokenExpirySlack = time.Minute

	assertionLifetime = time.Hour
)

// ServiceAccount is the subset of a Google service account key file
// the client needs to authenticate.
type ServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccount decodes and validates a service account key in
// the JSON form Google issues.
func ParseServiceAccount(raw string) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal([]byte(raw), &sa); err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}
	if sa.Type != "" && sa.Type != "service_account" {
		return nil, fmt.Errorf("unexpected credential type %q, want service_account", sa.Type)
	}
	if sa.ClientEmail == "" {
		return nil, errors.New("service account key missing client_email")
	}
	if sa.PrivateKey == "" {
		return nil, errors.New("service account key missing private_key")
	}
	if sa.TokenURI == "" {
		sa.TokenURI = defaultTokenURI
	}
	return &sa, nil
}

// tokenSource mints and caches OAuth2 access tokens. Safe for
// concurrent use.
type tokenSource struct {
	mu         sync.Mutex
	sa         *ServiceAccount
	key        *rsa.PrivateKey
	httpClient *http.Client
	token      string
	expiry     time.Time
	now        func() time.Time
}

func newTokenSource(sa *ServiceAccount, httpClient *http.Client) (*tokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("parsing service account private key: %w", err)
	}
	return &tokenSource{
		sa:         sa,
		key:        key,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// Token returns a valid access token, refreshing when the cached one
// is within the expiry slack.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && ts.now().Add(tokenExpirySlack).Before(ts.expiry) {
		return ts.token, nil
	}

	token, expiry, err := ts.refresh(ctx)
	metrics.RecordTokenRefresh(err)
	if err != nil {
		return "", err
	}
	ts.token = token
	ts.expiry = expiry
	return token, nil
}

// assertionClaims extends the registered claim set with the OAuth2
// scope field Google's token endpoint expects.
type assertionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func (ts *tokenSource) refresh(ctx context.Context) (string, time.Time, error) {
	issued := ts.now()
	claims := assertionClaims{
		Scope: earthEngineScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.sa.ClientEmail,
			Audience:  jwt.ClaimStrings{ts.sa.TokenURI},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(assertionLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if ts.sa.PrivateKeyID != "" {
		token.Header["kid"] = ts.sa.PrivateKeyID
	}
	assertion, err := token.SignedString(ts.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.sa.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("requesting access token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return "", time.Time{}, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", time.Time{}, fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", time.Time{}, errors.New("token endpoint returned an empty access token")
	}
	return payload.AccessToken, issued.Add(time.Duration(payload.ExpiresIn) * time.Second), nil
}
