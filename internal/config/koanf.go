// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/diarystats/config.yaml",
	"/etc/diarystats/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        3858,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/diarystats.duckdb",
			MaxMemory: "1GB",
			Threads:   0,

			CheckpointInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Analytics: AnalyticsConfig{
			Timezone:             "UTC",
			WeeklyWindowDays:     7,
			MonthlyWindowDays:    30,
			PercentagePrecision:  1,
			MaxConcurrentQueries: 8,
			QueryTimeout:         30 * time.Second,
		},
		Upstream: UpstreamConfig{
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			QueriesPerSecond:    0,
			QueryBurst:          50,
		},
		Risk: RiskConfig{
			MonitoringPeriodDays: 14,
			High:                 RiskThresholdConfig{ConsecutiveDays: 5, NegativeDays: 8},
			Medium:               RiskThresholdConfig{ConsecutiveDays: 3, NegativeDays: 5},
			Low:                  RiskThresholdConfig{ConsecutiveDays: 2, NegativeDays: 3},
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
//  1. built-in defaults
//  2. optional YAML file
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are read from env as comma-separated lists.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Database
	"duckdb_path":                "database.path",
	"duckdb_max_memory":          "database.max_memory",
	"duckdb_threads":             "database.threads",
	"seed_mock_data":             "database.seed_mock_data",
	"duckdb_checkpoint_interval": "database.checkpoint_interval",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Analytics
	"analytics_timezone":               "analytics.timezone",
	"analytics_weekly_window_days":     "analytics.weekly_window_days",
	"analytics_monthly_window_days":    "analytics.monthly_window_days",
	"analytics_percentage_precision":   "analytics.percentage_precision",
	"analytics_max_concurrent_queries": "analytics.max_concurrent_queries",
	"analytics_query_timeout":          "analytics.query_timeout",

	// Upstream protection
	"upstream_breaker_max_requests":  "upstream.breaker_max_requests",
	"upstream_breaker_interval":      "upstream.breaker_interval",
	"upstream_breaker_timeout":       "upstream.breaker_timeout",
	"upstream_breaker_min_requests":  "upstream.breaker_min_requests",
	"upstream_breaker_failure_ratio": "upstream.breaker_failure_ratio",
	"upstream_queries_per_second":    "upstream.queries_per_second",
	"upstream_query_burst":           "upstream.query_burst",

	// Risk detection thresholds
	"risk_monitoring_period_days":  "risk.monitoring_period_days",
	"risk_high_consecutive_days":   "risk.high.consecutive_days",
	"risk_high_negative_days":      "risk.high.negative_days",
	"risk_medium_consecutive_days": "risk.medium.consecutive_days",
	"risk_medium_negative_days":    "risk.medium.negative_days",
	"risk_low_consecutive_days":    "risk.low.consecutive_days",
	"risk_low_negative_days":       "risk.low.negative_days",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc returns "" for unmapped variables, which koanf skips.
//
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - ANALYTICS_TIMEZONE -> analytics.timezone
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
