// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/diarystats/internal/analytics"
	"github.com/tomtom215/diarystats/internal/logging"
	"github.com/tomtom215/diarystats/internal/models"
	"github.com/tomtom215/diarystats/internal/validation"
)

// Error codes not owned by the validation package.
const (
	CodeUpstreamFailure = "UPSTREAM_QUERY_FAILURE"
	CodeInternal        = "INTERNAL_ERROR"
)

// handleEngineError maps an engine error to its HTTP status and envelope.
func handleEngineError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var periodErr *analytics.PeriodError
	var monthErr *analytics.MonthError

	switch {
	case errors.As(err, &periodErr):
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    validation.CodeInvalidPeriod,
			Message: periodErr.Error(),
			Details: map[string]interface{}{"period": periodErr.Value},
		}, nil)

	case errors.As(err, &monthErr):
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    validation.CodeInvalidMonth,
			Message: monthErr.Error(),
			Details: map[string]interface{}{"month": monthErr.Value},
		}, nil)

	case errors.Is(err, analytics.ErrUpstreamQuery):
		logging.Ctx(r.Context()).Error().Err(err).Str("operation", op).Msg("Dashboard query failed")
		respondError(w, http.StatusServiceUnavailable, CodeUpstreamFailure,
			"Dashboard data is temporarily unavailable", nil)

	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("operation", op).Msg("Unexpected dashboard error")
		respondError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}
