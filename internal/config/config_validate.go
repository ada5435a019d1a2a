// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package config

import (
	"fmt"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAnalytics(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateRisk(); err != nil {
		return err
	}
	return c.validateSupervisor()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative, got %d", c.Database.Threads)
	}
	if c.Database.CheckpointInterval < 0 {
		return fmt.Errorf("DUCKDB_CHECKPOINT_INTERVAL must be non-negative, got %v", c.Database.CheckpointInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

var (
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

func (c *Config) validateLogging() error {
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("LOG_LEVEL must be one of %v, got %q", validLogLevels, c.Logging.Level)
	}
	if !contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("LOG_FORMAT must be one of %v, got %q", validLogFormats, c.Logging.Format)
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	a := c.Analytics
	if _, err := a.Location(); err != nil {
		return fmt.Errorf("ANALYTICS_TIMEZONE: %w", err)
	}
	if a.WeeklyWindowDays < 1 {
		return fmt.Errorf("ANALYTICS_WEEKLY_WINDOW_DAYS must be at least 1, got %d", a.WeeklyWindowDays)
	}
	if a.MonthlyWindowDays < a.WeeklyWindowDays {
		return fmt.Errorf("ANALYTICS_MONTHLY_WINDOW_DAYS (%d) must not be shorter than the weekly window (%d)",
			a.MonthlyWindowDays, a.WeeklyWindowDays)
	}
	if a.PercentagePrecision < 0 || a.PercentagePrecision > 6 {
		return fmt.Errorf("ANALYTICS_PERCENTAGE_PRECISION must be between 0 and 6, got %d", a.PercentagePrecision)
	}
	if a.MaxConcurrentQueries < 1 {
		return fmt.Errorf("ANALYTICS_MAX_CONCURRENT_QUERIES must be at least 1, got %d", a.MaxConcurrentQueries)
	}
	if a.QueryTimeout <= 0 {
		return fmt.Errorf("ANALYTICS_QUERY_TIMEOUT must be positive, got %v", a.QueryTimeout)
	}
	return nil
}

func (c *Config) validateUpstream() error {
	u := c.Upstream
	if u.BreakerFailureRatio <= 0 || u.BreakerFailureRatio > 1 {
		return fmt.Errorf("UPSTREAM_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", u.BreakerFailureRatio)
	}
	if u.BreakerTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_BREAKER_TIMEOUT must be positive, got %v", u.BreakerTimeout)
	}
	if u.QueriesPerSecond < 0 {
		return fmt.Errorf("UPSTREAM_QUERIES_PER_SECOND must be non-negative, got %v", u.QueriesPerSecond)
	}
	if u.QueriesPerSecond > 0 && u.QueryBurst < 1 {
		return fmt.Errorf("UPSTREAM_QUERY_BURST must be at least 1 when throttling, got %d", u.QueryBurst)
	}
	return nil
}

func (c *Config) validateRisk() error {
	r := c.Risk
	if r.MonitoringPeriodDays < 1 {
		return fmt.Errorf("RISK_MONITORING_PERIOD_DAYS must be at least 1, got %d", r.MonitoringPeriodDays)
	}
	levels := []struct {
		name string
		t    RiskThresholdConfig
	}{{"high", r.High}, {"medium", r.Medium}, {"low", r.Low}}
	for _, l := range levels {
		if l.t.ConsecutiveDays < 0 || l.t.NegativeDays < 0 {
			return fmt.Errorf("risk %s thresholds must be non-negative", l.name)
		}
		if l.t.ConsecutiveDays > r.MonitoringPeriodDays || l.t.NegativeDays > r.MonitoringPeriodDays {
			return fmt.Errorf("risk %s thresholds exceed the %d day monitoring period", l.name, r.MonitoringPeriodDays)
		}
	}
	return nil
}

func (c *Config) validateSupervisor() error {
	if c.Supervisor.ShutdownTimeout <= 0 {
		return fmt.Errorf("SUPERVISOR_SHUTDOWN_TIMEOUT must be positive, got %v", c.Supervisor.ShutdownTimeout)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
