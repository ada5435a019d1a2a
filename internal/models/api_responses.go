// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint writes.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"period": "monthly", "year": 2025, "month": 3, "trend": [...]},
//	  "metadata": {"timestamp": "2025-03-14T09:00:00Z", "query_time_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "INVALID_PERIOD",
//	    "message": "Invalid period: biweekly. Must be weekly, monthly, or yearly.",
//	    "details": {"period": "biweekly"}
//	  },
//	  "metadata": {"timestamp": "2025-03-14T09:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries the response timestamp and the time spent aggregating.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error body.
//
// Error codes:
//   - VALIDATION_ERROR: malformed query parameters
//   - INVALID_PERIOD: period is not weekly, monthly, or yearly
//   - INVALID_MONTH: month outside 1..12
//   - UPSTREAM_QUERY_FAILURE: the fact store failed or is unavailable
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	DatabaseOK    bool    `json:"database_connected"`
	CircuitState  string  `json:"circuit_state,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
