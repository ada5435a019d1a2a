// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/diarystats/internal/analytics"
	"github.com/tomtom215/diarystats/internal/logging"
)

// DashboardStats handles GET /api/v1/admin/dashboard/stats.
//
// Query parameters:
//   - period: weekly, monthly (default) or yearly; selects the comparison window
//   - activeUserType: label echoed on the active users card (default dau)
//   - newUserPeriod: label echoed on the new users card (default daily)
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := bindStatsRequest(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	stats, err := h.engine.DashboardStats(r.Context(), req.Period, req.ActiveUserType, req.NewUserPeriod)
	if err != nil {
		handleEngineError(w, r, "dashboard_stats", err)
		return
	}

	respondSuccess(w, stats, start)
}

// DiaryTrend handles GET /api/v1/admin/dashboard/diary-trend.
// Weekly and monthly periods return one point per day; yearly returns one
// point per month that has diaries.
func (h *Handler) DiaryTrend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := bindPeriodRequest(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	trend, err := h.engine.DiaryTrend(r.Context(), req.Period, req.Year, req.Month)
	if err != nil {
		handleEngineError(w, r, "diary_trend", err)
		return
	}

	respondSuccess(w, trend, start)
}

// UserActivityStats handles GET /api/v1/admin/dashboard/user-activity-stats.
// metrics is a comma-separated subset of dau, wau, mau, newUsers,
// withdrawnUsers and retentionRate. Unknown names are ignored and an empty
// list selects the default set.
func (h *Handler) UserActivityStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := bindActivityRequest(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	metrics := analytics.ParseMetrics(req.Metrics)
	logging.Ctx(r.Context()).Debug().
		Str("period", sanitizeLogValue(req.Period)).
		Int("metrics", len(metrics)).
		Msg("User activity requested")

	stats, err := h.engine.UserActivityStats(r.Context(), req.Period, req.Year, req.Month, metrics)
	if err != nil {
		handleEngineError(w, r, "user_activity_stats", err)
		return
	}

	respondSuccess(w, stats, start)
}

// RiskLevelDistribution handles GET /api/v1/admin/dashboard/risk-level-distribution.
func (h *Handler) RiskLevelDistribution(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := bindPeriodRequest(r)
	if apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	dist, err := h.engine.RiskLevelDistribution(r.Context(), req.Period, req.Year, req.Month)
	if err != nil {
		handleEngineError(w, r, "risk_level_distribution", err)
		return
	}

	respondSuccess(w, dist, start)
}

// RiskSettings handles GET /api/v1/admin/risk-settings.
func (h *Handler) RiskSettings(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.risk, time.Now())
}
