// Chronoterra - Land Cover Change Analytics and Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/chronoterra

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRealIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		trusted    []string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "trusted proxy uses forwarded client",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:51724",
			forwarded:  "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted peer keeps remote addr",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "198.51.100.7:1234",
			forwarded:  "203.0.113.9",
			want:       "198.51.100.7:1234",
		},
		{
			name:       "no trusted proxies ignores headers",
			trusted:    nil,
			remoteAddr: "10.1.2.3:51724",
			forwarded:  "203.0.113.9",
			want:       "10.1.2.3:51724",
		},
		{
			name:       "bare address entry matches exactly",
			trusted:    []string{"10.1.2.3"},
			remoteAddr: "10.1.2.3:51724",
			forwarded:  "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "bare address entry rejects neighbours",
			trusted:    []string{"10.1.2.3"},
			remoteAddr: "10.1.2.4:51724",
			forwarded:  "203.0.113.9",
			want:       "10.1.2.4:51724",
		},
		{
			name:       "invalid entries are skipped",
			trusted:    []string{"not-a-cidr", "10.0.0.0/8"},
			remoteAddr: "10.1.2.3:51724",
			forwarded:  "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "first forwarded hop wins",
			trusted:    []string{"10.0.0.0/8"},
			remoteAddr: "10.1.2.3:51724",
			forwarded:  "203.0.113.9, 10.0.0.2",
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			h := RealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
