// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/diarystats/internal/middleware"
	"github.com/tomtom215/diarystats/internal/models"
)

// healthPingTimeout bounds the database probe so a wedged store cannot hang
// the health check.
const healthPingTimeout = 2 * time.Second

// Health reports database connectivity and the fact store breaker state.
// The status is "degraded" when the database does not answer or the breaker
// is open; the endpoint itself always returns 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		dbConnected = h.db.Ping(ctx) == nil
		cancel()
	}

	circuit := ""
	if h.breaker != nil {
		circuit = h.breaker.State()
	}

	status := "healthy"
	if !dbConnected || circuit == "open" {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:        status,
			Version:       Version,
			DatabaseOK:    dbConnected,
			CircuitState:  circuit,
			UptimeSeconds: time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthPerformance returns latency percentiles per route from the
// performance monitor window.
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	stats := []middleware.EndpointStats{}
	if h.perfMon != nil {
		stats = h.perfMon.GetStats()
	}
	respondSuccess(w, stats, time.Now())
}
