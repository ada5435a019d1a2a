// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/diarystats/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Analytics  AnalyticsConfig  `koanf:"analytics"`
	Upstream   UpstreamConfig   `koanf:"upstream"`
	Risk       RiskConfig       `koanf:"risk"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`     // read/write timeout for dashboard requests
	Environment string        `koanf:"environment"` // development or production
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings for the fact store.
type DatabaseConfig struct {
	Path         string `koanf:"path"`           // file path, or ":memory:"
	MaxMemory    string `koanf:"max_memory"`     // DuckDB memory_limit, e.g. "1GB"
	Threads      int    `koanf:"threads"`        // 0 = runtime.NumCPU()
	SeedMockData bool   `koanf:"seed_mock_data"` // populate demo facts on startup

	CheckpointInterval time.Duration `koanf:"checkpoint_interval"` // 0 disables periodic CHECKPOINT
}

// SecurityConfig holds browser and abuse protection settings.
// Authentication is handled in front of this service.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// AnalyticsConfig tunes the aggregation engine.
type AnalyticsConfig struct {
	Timezone             string        `koanf:"timezone"` // IANA name used for calendar days
	WeeklyWindowDays     int           `koanf:"weekly_window_days"`
	MonthlyWindowDays    int           `koanf:"monthly_window_days"`
	PercentagePrecision  int32         `koanf:"percentage_precision"`
	MaxConcurrentQueries int           `koanf:"max_concurrent_queries"`
	QueryTimeout         time.Duration `koanf:"query_timeout"` // per fact query
}

// Location loads the configured time zone.
func (a AnalyticsConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

// UpstreamConfig protects the fact store from overload.
type UpstreamConfig struct {
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"` // probes allowed while half-open
	BreakerInterval     time.Duration `koanf:"breaker_interval"`     // closed-state count reset
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`      // open to half-open
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	QueriesPerSecond    float64       `koanf:"queries_per_second"` // 0 disables throttling
	QueryBurst          int           `koanf:"query_burst"`
}

// RiskConfig holds the risk detection thresholds reported to the dashboard.
// The engine does not evaluate them.
type RiskConfig struct {
	MonitoringPeriodDays int                 `koanf:"monitoring_period_days"`
	High                 RiskThresholdConfig `koanf:"high"`
	Medium               RiskThresholdConfig `koanf:"medium"`
	Low                  RiskThresholdConfig `koanf:"low"`
}

// RiskThresholdConfig is the day-count threshold for one risk level.
type RiskThresholdConfig struct {
	ConsecutiveDays int `koanf:"consecutive_days"`
	NegativeDays    int `koanf:"negative_days"`
}

// Settings converts the thresholds to their API shape.
func (r RiskConfig) Settings() models.RiskDetectionSettings {
	threshold := func(t RiskThresholdConfig) models.RiskLevelThreshold {
		return models.RiskLevelThreshold{ConsecutiveDays: t.ConsecutiveDays, NegativeDays: t.NegativeDays}
	}
	return models.RiskDetectionSettings{
		MonitoringPeriodDays: r.MonitoringPeriodDays,
		High:                 threshold(r.High),
		Medium:               threshold(r.Medium),
		Low:                  threshold(r.Low),
	}
}

// SupervisorConfig tunes service restart behavior.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
