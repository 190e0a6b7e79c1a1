// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package gee

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyPEM  string
	testKeyErr  error
)

// testPrivateKey returns a process-wide RSA key for signing test
// assertions. Generation is done once; 2048-bit keys are slow enough
// to matter across a package's tests.
func testPrivateKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			testKeyErr = err
			return
		}
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			testKeyErr = err
			return
		}
		testKey = key
		testKeyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	})
	if testKeyErr != nil {
		t.Fatalf("generating test key: %v", testKeyErr)
	}
	return testKey, testKeyPEM
}

// testServiceAccountKey builds a syntactically valid service account
// key file pointing at the given token endpoint.
func testServiceAccountKey(t *testing.T, tokenURI string) string {
	t.Helper()
	_, pemKey := testPrivateKey(t)
	sa := ServiceAccount{
		Type:         "service_account",
		ProjectID:    "test-project",
		PrivateKeyID: "key-1",
		PrivateKey:   pemKey,
		ClientEmail:  "analytics@test-project.iam.gserviceaccount.com",
		TokenURI:     tokenURI,
	}
	data, err := json.Marshal(sa)
	if err != nil {
		t.Fatalf("marshaling service account: %v", err)
	}
	return string(data)
}

// TestParseServiceAccount verifies a well-formed key file round-trips
func TestParseServiceAccount(t *testing.T) {
	raw := testServiceAccountKey(t, "https://oauth2.example.com/token")

	sa, err := ParseServiceAccount(raw)
	if err != nil {
		t.Fatalf("ParseServiceAccount failed: %v", err)
	}
	if sa.ProjectID != "test-project" {
		t.Errorf("expected project test-project, got %s", sa.ProjectID)
	}
	if sa.ClientEmail != "analytics@test-project.iam.gserviceaccount.com" {
		t.Errorf("unexpected client email %s", sa.ClientEmail)
	}
	if sa.TokenURI != "https://oauth2.example.com/token" {
		t.Errorf("unexpected token URI %s", sa.TokenURI)
	}
}

// TestParseServiceAccountDefaultTokenURI verifies the Google endpoint
// fills in when the key omits one
func TestParseServiceAccountDefaultTokenURI(t *testing.T) {
	sa, err := ParseServiceAccount(testServiceAccountKey(t, ""))
	if err != nil {
		t.Fatalf("ParseServiceAccount failed: %v", err)
	}
	if sa.TokenURI != "https://oauth2.googleapis.com/token" {
		t.Errorf("expected default token URI, got %s", sa.TokenURI)
	}
}

// TestParseServiceAccountErrors verifies malformed keys are rejected
func TestParseServiceAccountErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "this is not a key"},
		{"truncated json", `{"type": "service_account"`},
		{"wrong type", `{"type": "authorized_user", "client_email": "a@b.c", "private_key": "k"}`},
		{"missing client_email", `{"type": "service_account", "private_key": "k"}`},
		{"missing private_key", `{"type": "service_account", "client_email": "a@b.c"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseServiceAccount(tt.raw); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

// newTestTokenSource builds a token source against a live test server.
func newTestTokenSource(t *testing.T, srv *httptest.Server) *tokenSource {
	t.Helper()
	sa, err := ParseServiceAccount(testServiceAccountKey(t, srv.URL))
	if err != nil {
		t.Fatalf("ParseServiceAccount failed: %v", err)
	}
	ts, err := newTokenSource(sa, srv.Client())
	if err != nil {
		t.Fatalf("newTokenSource failed: %v", err)
	}
	return ts
}

// TestTokenSourceMintsAndCaches verifies the JWT bearer exchange and
// that a fresh token is reused instead of minted per call
func TestTokenSourceMintsAndCaches(t *testing.T) {
	key, _ := testPrivateKey(t)
	var requests int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		if got := r.PostFormValue("grant_type"); got != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("unexpected grant_type %q", got)
		}

		assertion := r.PostFormValue("assertion")
		parsed, err := jwt.ParseWithClaims(assertion, &assertionClaims{}, func(token *jwt.Token) (interface{}, error) {
			return &key.PublicKey, nil
		})
		if err != nil {
			t.Errorf("assertion did not verify: %v", err)
		} else {
			claims := parsed.Claims.(*assertionClaims)
			if claims.Scope != "https://www.googleapis.com/auth/earthengine" {
				t.Errorf("unexpected scope %q", claims.Scope)
			}
			if claims.Issuer != "analytics@test-project.iam.gserviceaccount.com" {
				t.Errorf("unexpected issuer %q", claims.Issuer)
			}
			if len(claims.Audience) != 1 || !strings.HasPrefix(claims.Audience[0], "http") {
				t.Errorf("unexpected audience %v", claims.Audience)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": "token-%d", "expires_in": 3600}`, n)
	}))
	defer srv.Close()

	ts := newTestTokenSource(t, srv)

	first, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("first Token failed: %v", err)
	}
	if first != "token-1" {
		t.Errorf("expected token-1, got %s", first)
	}

	second, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("second Token failed: %v", err)
	}
	if second != first {
		t.Errorf("expected cached token, got %s", second)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("expected 1 token request, got %d", got)
	}
}

// TestTokenSourceRefreshesExpired verifies a new token is minted once
// the cached one passes its expiry slack
func TestTokenSourceRefreshesExpired(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": "token-%d", "expires_in": 3600}`, n)
	}))
	defer srv.Close()

	ts := newTestTokenSource(t, srv)
	clock := time.Now()
	ts.now = func() time.Time { return clock }

	first, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("first Token failed: %v", err)
	}

	clock = clock.Add(2 * time.Hour)

	second, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("second Token failed: %v", err)
	}
	if second == first {
		t.Error("expected a refreshed token after expiry")
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Errorf("expected 2 token requests, got %d", got)
	}
}

// TestTokenSourceServerError verifies endpoint failures surface with
// the response status
func TestTokenSourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "key revoked", http.StatusForbidden)
	}))
	defer srv.Close()

	ts := newTestTokenSource(t, srv)

	_, err := ts.Token(context.Background())
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Errorf("expected status in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "key revoked") {
		t.Errorf("expected response body in error, got: %v", err)
	}
}

// TestTokenSourceEmptyToken verifies a 200 with no token is an error
func TestTokenSourceEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "", "expires_in": 3600}`)
	}))
	defer srv.Close()

	ts := newTestTokenSource(t, srv)

	if _, err := ts.Token(context.Background()); err == nil {
		t.Fatal("expected an error for an empty access token")
	}
}

// TestNewTokenSourceBadKey verifies an unparseable private key fails
// construction rather than the first request
func TestNewTokenSourceBadKey(t *testing.T) {
	sa := &ServiceAccount{
		ClientEmail: "a@b.c",
		PrivateKey:  "not a pem block",
		TokenURI:    "https://oauth2.example.com/token",
	}
	if _, err := newTokenSource(sa, http.DefaultClient); err == nil {
		t.Fatal("expected an error for a malformed private key")
	}
}
