// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package metrics provides Prometheus instrumentation for Diarystats.

All collectors are registered with the default registry through promauto and
exported at /metrics by the API router.

# Available Metrics

Fact store:
  - diarystats_fact_query_duration_seconds{query,table}
  - diarystats_fact_query_errors_total{query,table,error_type}
  - diarystats_db_open_connections

Engine:
  - diarystats_aggregation_duration_seconds{operation}
  - diarystats_aggregation_errors_total{operation}

API:
  - diarystats_api_requests_total{method,endpoint,status}
  - diarystats_api_request_duration_seconds{method,endpoint}
  - diarystats_api_active_requests

Upstream protection:
  - diarystats_circuit_breaker_state{name}
  - diarystats_circuit_breaker_requests_total{name,result}
  - diarystats_circuit_breaker_state_transitions_total{name,from_state,to_state}
  - diarystats_upstream_throttle_wait_seconds

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("count_diaries_by_day", "diaries", time.Since(start), err)
*/
package metrics
