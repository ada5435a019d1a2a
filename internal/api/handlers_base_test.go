// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/diarystats/internal/analytics"
	"github.com/tomtom215/diarystats/internal/config"
	"github.com/tomtom215/diarystats/internal/database"
	"github.com/tomtom215/diarystats/internal/middleware"
	"github.com/tomtom215/diarystats/internal/models"
)

// fixedNow is "today" for every handler test.
var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// testDBSemaphore serializes DuckDB usage across tests in this package.
var testDBSemaphore = make(chan struct{}, 1)

var testRiskSettings = models.RiskDetectionSettings{
	MonitoringPeriodDays: 14,
	High:                 models.RiskLevelThreshold{ConsecutiveDays: 2, NegativeDays: 5},
	Medium:               models.RiskLevelThreshold{ConsecutiveDays: 2, NegativeDays: 4},
	Low:                  models.RiskLevelThreshold{ConsecutiveDays: 2, NegativeDays: 3},
}

// envelope decodes models.APIResponse with a typed payload.
type envelope[T any] struct {
	Status   string           `json:"status"`
	Data     T                `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

// setupTestDB opens an in-memory fact store holding:
//
//	users:    1 (2024-01-10), 2 (2024-03-02), 3 (2024-03-05, deleted 2024-03-10)
//	diaries:  user 1 on 02-10, 03-01, 03-02; user 2 on 03-02
//	sessions: user 1 LOW then HIGH, user 2 MEDIUM, all in March 2024
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	ctx := context.Background()
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 9, 0, 0, 0, time.UTC) }
	deleted := day(time.March, 10)

	users := []struct {
		id        int64
		created   time.Time
		deletedAt *time.Time
	}{
		{1, day(time.January, 10), nil},
		{2, day(time.March, 2), nil},
		{3, day(time.March, 5), &deleted},
	}
	for _, u := range users {
		if err := db.InsertUser(ctx, u.id, u.created, u.deletedAt); err != nil {
			t.Fatalf("InsertUser(%d) error = %v", u.id, err)
		}
	}

	diaries := []struct {
		user int64
		date time.Time
	}{
		{1, day(time.February, 10)},
		{1, day(time.March, 1)},
		{1, day(time.March, 2)},
		{2, day(time.March, 2)},
	}
	for _, d := range diaries {
		if _, err := db.InsertDiary(ctx, d.user, d.date); err != nil {
			t.Fatalf("InsertDiary() error = %v", err)
		}
	}

	sessions := []struct {
		user  int64
		level string
		at    time.Time
	}{
		{1, "LOW", day(time.March, 3)},
		{1, "HIGH", day(time.March, 4)},
		{2, "MEDIUM", day(time.March, 5)},
	}
	for _, s := range sessions {
		if _, err := db.InsertRiskSession(ctx, s.user, s.level, s.at); err != nil {
			t.Fatalf("InsertRiskSession() error = %v", err)
		}
	}

	return db
}

// newTestRouter builds the full router over facts with a fixed clock.
func newTestRouter(t *testing.T, facts analytics.FactQueryPort, db Pinger, mw *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	engine := analytics.NewEngine(facts, analytics.DefaultSettings(),
		analytics.WithClock(func() time.Time { return fixedNow }))
	handler := NewHandler(engine, db, nil, testRiskSettings, middleware.NewPerformanceMonitor(100, 0))
	return NewRouter(handler, NewChiMiddleware(mw)).SetupChi()
}

// newDBRouter builds a router over a freshly seeded fact store.
func newDBRouter(t *testing.T) http.Handler {
	t.Helper()
	db := setupTestDB(t)
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	return newTestRouter(t, database.NewFactStore(db), db, mw)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}
