// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/diarystats/internal/logging"
	"github.com/tomtom215/diarystats/internal/metrics"
	"github.com/tomtom215/diarystats/internal/models"
)

// Engine answers dashboard requests by resolving periods and aggregating
// facts read through a FactQueryPort. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	facts    FactQueryPort
	resolver *PeriodResolver
	settings Settings
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		o.now = now
	}
}

// NewEngine creates an engine over facts. Zero-valued settings fall back to
// DefaultSettings.
func NewEngine(facts FactQueryPort, settings Settings, opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	settings = settings.withDefaults()
	return &Engine{
		facts:    facts,
		resolver: NewPeriodResolver(settings.Location, o.now),
		settings: settings,
	}
}

// Resolver exposes the engine's period resolver.
func (e *Engine) Resolver() *PeriodResolver {
	return e.resolver
}

// Settings returns the effective settings after defaults were applied.
func (e *Engine) Settings() Settings {
	return e.settings
}

// DiaryTrend returns the diary-writing trend for the requested period:
// zero-filled daily points for weekly and monthly periods, sparse monthly
// points for yearly periods.
func (e *Engine) DiaryTrend(ctx context.Context, period string, year, month *int) (resp *models.DiaryTrendResponse, err error) {
	defer e.observe(ctx, "diary_trend", time.Now(), &err)

	res, err := e.resolver.Resolve(period, year, month)
	if err != nil {
		return nil, err
	}
	dates := res.Dates()
	e.logResolution(ctx, "diary_trend", res)

	var trend []models.TrendPoint
	switch res.Period.Granularity() {
	case GranularityMonth:
		rows, qerr := e.facts.CountDiariesByMonth(ctx, dates)
		if qerr != nil {
			return nil, upstream("count_diaries_by_month", qerr)
		}
		trend = BuildMonthlyTrend(rows, dates)
	default:
		rows, qerr := e.facts.CountDiariesByDay(ctx, dates)
		if qerr != nil {
			return nil, upstream("count_diaries_by_day", qerr)
		}
		trend = BuildDailyTrend(rows, dates)
	}

	return &models.DiaryTrendResponse{
		Period: period,
		Year:   res.Year,
		Month:  copyInt(month),
		Trend:  trend,
	}, nil
}

// group returns an errgroup bounded by MaxConcurrentQueries. The first
// failing query cancels the others.
func (e *Engine) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.settings.MaxConcurrentQueries)
	return g, gctx
}

// observe records the aggregation duration and logs failures that are not
// caller errors.
func (e *Engine) observe(ctx context.Context, op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	metrics.RecordAggregation(op, time.Since(start), err)

	if err == nil || errors.Is(err, ErrInvalidPeriod) || errors.Is(err, ErrInvalidMonth) {
		return
	}
	logging.Ctx(ctx).Error().
		Err(err).
		Str("operation", op).
		Dur("elapsed", time.Since(start)).
		Msg("Aggregation failed")
}

func (e *Engine) logResolution(ctx context.Context, op string, res Resolution) {
	logging.Ctx(ctx).Debug().
		Str("operation", op).
		Str("period", string(res.Period)).
		Time("start", res.Range.Start).
		Time("end", res.Range.End).
		Msg("Resolved period")
}

// trailingWindow returns the days [anchor-(days-1), anchor], anchor included.
func trailingWindow(anchor time.Time, days int) DateRange {
	return DateRange{Start: addDays(anchor, -(days - 1)), End: addDays(anchor, 1)}
}

// singleDay returns the one-day range containing day.
func singleDay(day time.Time) DateRange {
	return DateRange{Start: day, End: addDays(day, 1)}
}

// countsByDay sums rows by YYYY-MM-DD label.
func countsByDay(rows []DayCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[dayLabel(row.Date)] += row.Count
	}
	return out
}

// countsByMonth sums rows by YYYY-MM label.
func countsByMonth(rows []MonthCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[monthLabel(row.Year, row.Month)] += row.Count
	}
	return out
}

func sumRows(rows []DayCount) int64 {
	var total int64
	for _, row := range rows {
		total += row.Count
	}
	return total
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func ptr[T any](v T) *T {
	return &v
}
