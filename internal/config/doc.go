// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package config loads Diarystats configuration with koanf.

Sources are layered, later ones overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: $CONFIG_PATH, then config.yaml, then /etc/diarystats/config.yaml
 3. Environment variables listed in envMappings

Common environment variables:

	HTTP_PORT                        server port (default 3858)
	DUCKDB_PATH                      fact store path, ":memory:" for ephemeral
	SEED_MOCK_DATA                   populate demo facts on startup
	LOG_LEVEL, LOG_FORMAT            logging
	ANALYTICS_TIMEZONE               IANA zone for calendar days (default UTC)
	ANALYTICS_MAX_CONCURRENT_QUERIES fact queries in flight per request (default 8)
	UPSTREAM_QUERIES_PER_SECOND      fact query throttle, 0 disables
	CORS_ORIGINS                     comma-separated origins

Example config.yaml:

	server:
	  port: 3858
	database:
	  path: /data/diarystats.duckdb
	analytics:
	  timezone: Asia/Seoul
	  percentage_precision: 1
	risk:
	  monitoring_period_days: 14
	  high: {consecutive_days: 5, negative_days: 8}

Validate runs after loading and rejects out-of-range values with the name of
the environment variable that controls them.
*/
package config
