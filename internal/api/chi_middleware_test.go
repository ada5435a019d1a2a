// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/diarystats/internal/config"
)

func TestNewChiMiddlewareConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Server: config.ServerConfig{Timeout: 45 * time.Second},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"https://a.example.com"},
			RateLimitReqs:     20,
			RateLimitWindow:   30 * time.Second,
			RateLimitDisabled: true,
		},
	}
	mw := NewChiMiddlewareConfig(cfg)

	if len(mw.CORSAllowedOrigins) != 1 || mw.CORSAllowedOrigins[0] != "https://a.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", mw.CORSAllowedOrigins)
	}
	if mw.RateLimitRequests != 20 || mw.RateLimitWindow != 30*time.Second || !mw.RateLimitDisabled {
		t.Errorf("rate limit = %d/%v disabled=%v", mw.RateLimitRequests, mw.RateLimitWindow, mw.RateLimitDisabled)
	}
	if mw.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v", mw.RequestTimeout)
	}

	zero := NewChiMiddlewareConfig(&config.Config{})
	if zero.RateLimitRequests != 100 || zero.RateLimitWindow != time.Minute {
		t.Errorf("zero config should keep defaults, got %d/%v", zero.RateLimitRequests, zero.RateLimitWindow)
	}
}

func TestRateLimitCustom_Disabled(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	handler := mw.RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Hour})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestTimeout_CancelsContext(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddleware(&ChiMiddlewareConfig{RequestTimeout: 10 * time.Millisecond})
	var ctxErr error
	handler := mw.Timeout()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		ctxErr = r.Context().Err()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if ctxErr == nil {
		t.Error("request context should be canceled after the timeout")
	}
}

func TestAPISecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := APISecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS expected behind a TLS proxy")
	}
}
