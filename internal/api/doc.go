// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package api exposes the dashboard analytics engine over HTTP.

Routes are registered on a chi router by Router.SetupChi:

	GET /api/v1/health                                   liveness, DB and breaker state
	GET /api/v1/health/performance                       per-route latency percentiles
	GET /api/v1/admin/dashboard/stats                    dashboard cards
	GET /api/v1/admin/dashboard/diary-trend              diaries per day or month
	GET /api/v1/admin/dashboard/user-activity-stats      DAU/WAU/MAU, new users, retention
	GET /api/v1/admin/dashboard/risk-level-distribution  latest risk level per user
	GET /api/v1/admin/risk-settings                      detection thresholds
	GET /metrics                                         Prometheus exposition

Every JSON response uses the models.APIResponse envelope. Query parameters are
bound into request structs and checked with internal/validation before the
engine runs, so malformed input never reaches the fact store. Engine errors
are mapped to status codes by handleEngineError:

	analytics.ErrInvalidPeriod  -> 400 INVALID_PERIOD
	analytics.ErrInvalidMonth   -> 400 INVALID_MONTH
	analytics.ErrUpstreamQuery  -> 503 UPSTREAM_QUERY_FAILURE

Authentication is terminated in front of this service; the admin routes carry
no auth middleware of their own.
*/
package api
