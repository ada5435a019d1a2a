// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"context"
	"time"

	"github.com/tomtom215/diarystats/internal/analytics"
	"github.com/tomtom215/diarystats/internal/middleware"
	"github.com/tomtom215/diarystats/internal/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Pinger reports fact store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater reports the fact store circuit breaker state.
type BreakerStater interface {
	State() string
}

// Handler serves the dashboard endpoints.
type Handler struct {
	engine    *analytics.Engine
	db        Pinger
	breaker   BreakerStater
	risk      models.RiskDetectionSettings
	startTime time.Time
	perfMon   *middleware.PerformanceMonitor
}

// NewHandler creates a handler.
//
// Dependencies:
//   - engine: the aggregation engine every dashboard route delegates to
//   - db: connectivity probe for the health endpoint (optional)
//   - breaker: circuit breaker state for the health endpoint (optional)
//   - risk: detection thresholds served by /admin/risk-settings
//   - perfMon: request latency window (optional)
func NewHandler(engine *analytics.Engine, db Pinger, breaker BreakerStater, risk models.RiskDetectionSettings, perfMon *middleware.PerformanceMonitor) *Handler {
	return &Handler{
		engine:    engine,
		db:        db,
		breaker:   breaker,
		risk:      risk,
		startTime: time.Now(),
		perfMon:   perfMon,
	}
}
