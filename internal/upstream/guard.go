// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/diarystats/internal/analytics"
	"github.com/tomtom215/diarystats/internal/config"
	"github.com/tomtom215/diarystats/internal/logging"
	"github.com/tomtom215/diarystats/internal/metrics"
)

// BreakerName labels the fact store breaker in logs and metrics.
const BreakerName = "fact-store"

// ErrUnavailable is returned without touching the store while the breaker is
// open or its half-open probe budget is spent.
var ErrUnavailable = errors.New("fact store unavailable")

// GuardedFacts wraps a FactQueryPort with a circuit breaker and an optional
// token-bucket throttle. It adds no retries; a failed query fails its request.
type GuardedFacts struct {
	inner   analytics.FactQueryPort
	cb      *gobreaker.CircuitBreaker[any]
	limiter *rate.Limiter
}

var _ analytics.FactQueryPort = (*GuardedFacts)(nil)

// New wraps inner. A zero QueriesPerSecond disables throttling.
func New(inner analytics.FactQueryPort, cfg *config.UpstreamConfig) *GuardedFacts {
	metrics.CircuitBreakerState.WithLabelValues(BreakerName).Set(0)

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        BreakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		// Sibling queries canceled by a failing errgroup say nothing about the store.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	g := &GuardedFacts{inner: inner, cb: cb}
	if cfg.QueriesPerSecond > 0 {
		burst := cfg.QueryBurst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), burst)
	}
	return g
}

// State returns the breaker state as "closed", "half-open" or "open".
func (g *GuardedFacts) State() string {
	return stateToString(g.cb.State())
}

// execute throttles, then runs fn through the breaker.
func (g *GuardedFacts) execute(ctx context.Context, op string, fn func(context.Context) (any, error)) (any, error) {
	if g.limiter != nil {
		start := time.Now()
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: throttle: %w", op, err)
		}
		metrics.UpstreamThrottleWait.Observe(time.Since(start).Seconds())
	}

	result, err := g.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "rejected").Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("query", op).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(BreakerName, "success").Inc()
	return result, nil
}

// call is execute with the result cast back to T.
func call[T any](g *GuardedFacts, ctx context.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	result, err := g.execute(ctx, op, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", op, result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func (g *GuardedFacts) CountDiariesByDay(ctx context.Context, r analytics.DateRange) ([]analytics.DayCount, error) {
	return call(g, ctx, "count_diaries_by_day", func(ctx context.Context) ([]analytics.DayCount, error) {
		return g.inner.CountDiariesByDay(ctx, r)
	})
}

func (g *GuardedFacts) CountDiariesByMonth(ctx context.Context, r analytics.DateRange) ([]analytics.MonthCount, error) {
	return call(g, ctx, "count_diaries_by_month", func(ctx context.Context) ([]analytics.MonthCount, error) {
		return g.inner.CountDiariesByMonth(ctx, r)
	})
}

func (g *GuardedFacts) CountTotalDiaries(ctx context.Context) (int64, error) {
	return call(g, ctx, "count_total_diaries", g.inner.CountTotalDiaries)
}

func (g *GuardedFacts) CountDiariesInRange(ctx context.Context, r analytics.DateRange) (int64, error) {
	return call(g, ctx, "count_diaries_in_range", func(ctx context.Context) (int64, error) {
		return g.inner.CountDiariesInRange(ctx, r)
	})
}

func (g *GuardedFacts) DistinctActiveUserIDs(ctx context.Context, r analytics.DateRange) ([]int64, error) {
	return call(g, ctx, "distinct_active_user_ids", func(ctx context.Context) ([]int64, error) {
		return g.inner.DistinctActiveUserIDs(ctx, r)
	})
}

func (g *GuardedFacts) DistinctActiveUserCount(ctx context.Context, r analytics.DateRange) (int64, error) {
	return call(g, ctx, "distinct_active_user_count", func(ctx context.Context) (int64, error) {
		return g.inner.DistinctActiveUserCount(ctx, r)
	})
}

func (g *GuardedFacts) CountActiveUsersByDay(ctx context.Context, r analytics.DateRange) ([]analytics.DayCount, error) {
	return call(g, ctx, "count_active_users_by_day", func(ctx context.Context) ([]analytics.DayCount, error) {
		return g.inner.CountActiveUsersByDay(ctx, r)
	})
}

func (g *GuardedFacts) CountNewUsersByDay(ctx context.Context, r analytics.PeriodRange) ([]analytics.DayCount, error) {
	return call(g, ctx, "count_new_users_by_day", func(ctx context.Context) ([]analytics.DayCount, error) {
		return g.inner.CountNewUsersByDay(ctx, r)
	})
}

func (g *GuardedFacts) CountNewUsersByMonth(ctx context.Context, r analytics.PeriodRange) ([]analytics.MonthCount, error) {
	return call(g, ctx, "count_new_users_by_month", func(ctx context.Context) ([]analytics.MonthCount, error) {
		return g.inner.CountNewUsersByMonth(ctx, r)
	})
}

func (g *GuardedFacts) CountWithdrawnUsersByDay(ctx context.Context, r analytics.PeriodRange) ([]analytics.DayCount, error) {
	return call(g, ctx, "count_withdrawn_users_by_day", func(ctx context.Context) ([]analytics.DayCount, error) {
		return g.inner.CountWithdrawnUsersByDay(ctx, r)
	})
}

func (g *GuardedFacts) CountWithdrawnUsersByMonth(ctx context.Context, r analytics.PeriodRange) ([]analytics.MonthCount, error) {
	return call(g, ctx, "count_withdrawn_users_by_month", func(ctx context.Context) ([]analytics.MonthCount, error) {
		return g.inner.CountWithdrawnUsersByMonth(ctx, r)
	})
}

func (g *GuardedFacts) CountUsersInRange(ctx context.Context, r analytics.PeriodRange) (int64, error) {
	return call(g, ctx, "count_users_in_range", func(ctx context.Context) (int64, error) {
		return g.inner.CountUsersInRange(ctx, r)
	})
}

func (g *GuardedFacts) CountTotalActiveUsers(ctx context.Context) (int64, error) {
	return call(g, ctx, "count_total_active_users", g.inner.CountTotalActiveUsers)
}

func (g *GuardedFacts) MostRecentRiskSessionPerUser(ctx context.Context, r analytics.PeriodRange) ([]analytics.UserRiskLevel, error) {
	return call(g, ctx, "most_recent_risk_session_per_user", func(ctx context.Context) ([]analytics.UserRiskLevel, error) {
		return g.inner.MostRecentRiskSessionPerUser(ctx, r)
	})
}

func (g *GuardedFacts) CountDistinctUsersWithAnySession(ctx context.Context, r analytics.PeriodRange) (int64, error) {
	return call(g, ctx, "count_distinct_users_with_any_session", func(ctx context.Context) (int64, error) {
		return g.inner.CountDistinctUsersWithAnySession(ctx, r)
	})
}
