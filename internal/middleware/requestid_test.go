// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/diarystats/internal/logging"
)

// captureRequestID runs RequestID and returns the id the handler saw.
func captureRequestID(t *testing.T, header string) (seen string, rec *httptest.ResponseRecorder) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return seen, rec
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	seen, rec := captureRequestID(t, "")

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", seen, err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
}

func TestRequestID_UpstreamHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{"proxy id", "req-abc-123", true},
		{"too long", strings.Repeat("a", maxRequestIDLength+1), false},
		{"control characters", "bad\nid", false},
		{"space", "has space", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			seen, rec := captureRequestID(t, tt.header)
			if tt.keep && seen != tt.header {
				t.Errorf("id = %q, want upstream %q", seen, tt.header)
			}
			if !tt.keep && seen == tt.header {
				t.Errorf("id %q should have been replaced", seen)
			}
			if rec.Header().Get(RequestIDHeader) != seen {
				t.Error("response header does not match context id")
			}
		})
	}
}

func TestRequestID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, _ := captureRequestID(t, "")
		if seen[id] {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = true
	}
}

func TestGetRequestID_SharesLoggingContext(t *testing.T) {
	t.Parallel()

	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}
	ctx := logging.ContextWithRequestID(context.Background(), "abc")
	if got := GetRequestID(ctx); got != "abc" {
		t.Errorf("GetRequestID() = %q, want abc", got)
	}
}
