// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"net/http"

	"github.com/tomtom215/diarystats/internal/models"
)

// defaultPeriod applies when a dashboard request names no period.
const defaultPeriod = "monthly"

// PeriodRequest is the common (period, year, month) selector.
type PeriodRequest struct {
	Period string `query:"period" validate:"required,period"`
	Year   *int   `query:"year" validate:"omitempty,gte=1,lte=9999"`
	Month  *int   `query:"month" validate:"omitempty,calendarmonth"`
}

// ActivityRequest selects an activity series and its metrics.
type ActivityRequest struct {
	Period  string `query:"period" validate:"required,period"`
	Year    *int   `query:"year" validate:"omitempty,gte=1,lte=9999"`
	Month   *int   `query:"month" validate:"omitempty,calendarmonth"`
	Metrics string `query:"metrics" validate:"omitempty,max=256,activitymetrics"`
}

// StatsRequest selects the dashboard card period and labels.
type StatsRequest struct {
	Period         string `query:"period" validate:"required,period"`
	ActiveUserType string `query:"activeUserType" validate:"omitempty,alpha,max=16"`
	NewUserPeriod  string `query:"newUserPeriod" validate:"omitempty,alpha,max=16"`
}

// bindPeriodRequest parses and validates the period selector.
func bindPeriodRequest(r *http.Request) (*PeriodRequest, *models.APIError) {
	year, apiErr := optionalIntParam(r, "year")
	if apiErr != nil {
		return nil, apiErr
	}
	month, apiErr := optionalIntParam(r, "month")
	if apiErr != nil {
		return nil, apiErr
	}

	req := &PeriodRequest{
		Period: stringParam(r, "period", defaultPeriod),
		Year:   year,
		Month:  month,
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// bindActivityRequest parses and validates an activity request.
func bindActivityRequest(r *http.Request) (*ActivityRequest, *models.APIError) {
	sel, apiErr := bindPeriodRequest(r)
	if apiErr != nil {
		return nil, apiErr
	}

	req := &ActivityRequest{
		Period:  sel.Period,
		Year:    sel.Year,
		Month:   sel.Month,
		Metrics: r.URL.Query().Get("metrics"),
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}

// bindStatsRequest parses and validates a stats request.
func bindStatsRequest(r *http.Request) (*StatsRequest, *models.APIError) {
	req := &StatsRequest{
		Period:         stringParam(r, "period", defaultPeriod),
		ActiveUserType: stringParam(r, "activeUserType", ""),
		NewUserPeriod:  stringParam(r, "newUserPeriod", ""),
	}
	if apiErr := validateRequest(req); apiErr != nil {
		return nil, apiErr
	}
	return req, nil
}
