// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package middleware provides the HTTP middleware Diarystats adds on top of the
chi ecosystem.

Key Components:

  - RequestID: request id in the X-Request-ID header and the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    chi route pattern
  - PerformanceMonitor: a sliding window of request latencies with
    percentiles and a slow-request warning

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

PrometheusMetrics and PerformanceMonitor read the route pattern after the
handler returns, when chi has finished routing, so they must be installed on
the router rather than wrapped around it.
*/
package middleware
