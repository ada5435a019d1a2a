// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package main is the entry point for the Diarystats server.

Diarystats serves the admin dashboard of a diary service: diary writing
trends, active user metrics, the latest risk level per user, and a combined
summary of users and diaries with period-over-period change.

# Application Architecture

Services run under a Suture v4 supervision tree:

	RootSupervisor ("diarystats")
	├── DataSupervisor ("data-layer")
	│   └── fact-store-checkpoint (periodic DuckDB CHECKPOINT)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB fact store, optionally seeded with mock data
 4. Upstream guard: circuit breaker and throttle around fact queries
 5. Analytics engine: period resolution and aggregation
 6. Supervisor tree and HTTP server

# Configuration

Sources are layered, highest priority first:

	Environment variables > Config file > Defaults

Common environment variables:

	HTTP_PORT=3858
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console
	DUCKDB_PATH=/data/diarystats.duckdb
	SEED_MOCK_DATA=false
	ANALYTICS_TIMEZONE=Asia/Seoul
	RATE_LIMIT_REQUESTS=100
	CORS_ORIGINS=https://admin.example.com

See internal/config for the complete list.

# Graceful Shutdown

SIGINT or SIGTERM cancels the root context. The HTTP server drains
in-flight requests within SUPERVISOR_SHUTDOWN_TIMEOUT, then the database is
closed.
*/
package main
