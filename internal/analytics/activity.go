// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/diarystats/internal/models"
)

// Metric names an activity metric a caller can request.
type Metric string

const (
	MetricDAU            Metric = "dau"
	MetricWAU            Metric = "wau"
	MetricMAU            Metric = "mau"
	MetricNewUsers       Metric = "newUsers"
	MetricRetentionRate  Metric = "retentionRate"
	MetricWithdrawnUsers Metric = "withdrawnUsers"
)

// DefaultMetrics is used when a caller requests no metrics. MetricWithdrawnUsers
// is opt-in.
var DefaultMetrics = []Metric{MetricDAU, MetricWAU, MetricMAU, MetricNewUsers, MetricRetentionRate}

var knownMetrics = map[Metric]bool{
	MetricDAU:            true,
	MetricWAU:            true,
	MetricMAU:            true,
	MetricNewUsers:       true,
	MetricRetentionRate:  true,
	MetricWithdrawnUsers: true,
}

// IsKnownMetric reports whether name is a supported metric. Names are case-sensitive.
func IsKnownMetric(name string) bool {
	return knownMetrics[Metric(name)]
}

// ParseMetrics parses a comma-separated metric list. Entries are trimmed;
// empty, unknown and repeated entries are dropped. A list with nothing left
// yields DefaultMetrics.
func ParseMetrics(csv string) []Metric {
	var out []Metric
	seen := make(map[Metric]bool)
	for _, part := range strings.Split(csv, ",") {
		m := Metric(strings.TrimSpace(part))
		if !knownMetrics[m] || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return append([]Metric(nil), DefaultMetrics...)
	}
	return out
}

// metricSet answers "was this metric requested".
type metricSet map[Metric]bool

func newMetricSet(metrics []Metric) metricSet {
	s := make(metricSet, len(metrics))
	for _, m := range metrics {
		s[m] = true
	}
	return s
}

// activitySeries holds one value per bucket for each requested metric.
// A nil slice means the metric was not requested.
type activitySeries struct {
	dau, wau, mau, newUsers, withdrawn []int64
	retention                          []float64
}

func newActivitySeries(n int, want metricSet) *activitySeries {
	s := &activitySeries{}
	alloc := func(m Metric) []int64 {
		if want[m] {
			return make([]int64, n)
		}
		return nil
	}
	s.dau = alloc(MetricDAU)
	s.wau = alloc(MetricWAU)
	s.mau = alloc(MetricMAU)
	s.newUsers = alloc(MetricNewUsers)
	s.withdrawn = alloc(MetricWithdrawnUsers)
	if want[MetricRetentionRate] {
		s.retention = make([]float64, n)
	}
	return s
}

// points assembles the series into labelled points.
func (s *activitySeries) points(labels []string) []models.ActivityPoint {
	out := make([]models.ActivityPoint, len(labels))
	for i, label := range labels {
		p := models.ActivityPoint{Date: label}
		if s.dau != nil {
			p.DAU = ptr(s.dau[i])
		}
		if s.wau != nil {
			p.WAU = ptr(s.wau[i])
		}
		if s.mau != nil {
			p.MAU = ptr(s.mau[i])
		}
		if s.newUsers != nil {
			p.NewUsers = ptr(s.newUsers[i])
		}
		if s.withdrawn != nil {
			p.WithdrawnUsers = ptr(s.withdrawn[i])
		}
		if s.retention != nil {
			p.RetentionRate = ptr(s.retention[i])
		}
		out[i] = p
	}
	return out
}

// UserActivityStats returns the activity chart for the requested period.
// Weekly and monthly periods produce one point per day, yearly periods one
// point per month. An empty metrics slice selects DefaultMetrics.
func (e *Engine) UserActivityStats(ctx context.Context, period string, year, month *int, metrics []Metric) (resp *models.UserActivityStatsResponse, err error) {
	defer e.observe(ctx, "user_activity_stats", time.Now(), &err)

	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	res, err := e.resolver.Resolve(period, year, month)
	if err != nil {
		return nil, err
	}
	e.logResolution(ctx, "user_activity_stats", res)

	var trend []models.ActivityPoint
	if res.Period.Granularity() == GranularityMonth {
		trend, err = e.MonthlyActivity(ctx, res.Dates(), metrics)
	} else {
		trend, err = e.DailyActivity(ctx, res.Dates(), metrics)
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = string(m)
	}

	return &models.UserActivityStatsResponse{
		Period:  period,
		Year:    res.Year,
		Month:   copyInt(month),
		Metrics: names,
		Trend:   trend,
	}, nil
}

// DailyActivity computes one point per day of r.
//
//   - dau: distinct writers that day
//   - wau, mau: distinct writers over the trailing weekly/monthly window ending that day
//   - newUsers, withdrawnUsers: sign-ups and deletions that day
//   - retentionRate: share of the previous day's writers who wrote again that day
func (e *Engine) DailyActivity(ctx context.Context, r DateRange, metrics []Metric) ([]models.ActivityPoint, error) {
	days := r.Dates()
	series := newActivitySeries(len(days), newMetricSet(metrics))
	g, gctx := e.group(ctx)

	if series.dau != nil {
		g.Go(func() error {
			rows, err := e.facts.CountActiveUsersByDay(gctx, r)
			if err != nil {
				return upstream("count_active_users_by_day", err)
			}
			byDay := countsByDay(rows)
			for i, d := range days {
				series.dau[i] = byDay[dayLabel(d)]
			}
			return nil
		})
	}

	e.trailingCounts(gctx, g, days, e.settings.WeeklyWindowDays, series.wau)
	e.trailingCounts(gctx, g, days, e.settings.MonthlyWindowDays, series.mau)

	if series.newUsers != nil {
		g.Go(func() error {
			rows, err := e.facts.CountNewUsersByDay(gctx, r.Period())
			if err != nil {
				return upstream("count_new_users_by_day", err)
			}
			byDay := countsByDay(rows)
			for i, d := range days {
				series.newUsers[i] = byDay[dayLabel(d)]
			}
			return nil
		})
	}

	if series.withdrawn != nil {
		g.Go(func() error {
			rows, err := e.facts.CountWithdrawnUsersByDay(gctx, r.Period())
			if err != nil {
				return upstream("count_withdrawn_users_by_day", err)
			}
			byDay := countsByDay(rows)
			for i, d := range days {
				series.withdrawn[i] = byDay[dayLabel(d)]
			}
			return nil
		})
	}

	// sets[j] holds the writers of day j-1, so day i compares sets[i+1] to sets[i].
	var sets [][]int64
	if series.retention != nil && len(days) > 0 {
		sets = make([][]int64, len(days)+1)
		for j := range sets {
			day := addDays(r.Start, j-1)
			g.Go(func() error {
				ids, err := e.facts.DistinctActiveUserIDs(gctx, singleDay(day))
				if err != nil {
					return upstream("distinct_active_user_ids", err)
				}
				sets[j] = ids
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range series.retention {
		series.retention[i] = RetentionRate(sets[i], sets[i+1], e.settings.PercentagePrecision)
	}

	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = dayLabel(d)
	}
	return series.points(labels), nil
}

// MonthlyActivity computes one point per month overlapping r.
//
//   - dau: rounded mean of the month's daily writer counts, over days with activity
//   - wau, mau: trailing windows ending on the month's last day, inclusive
//   - newUsers, withdrawnUsers: totals for the month
//   - retentionRate: share of the previous month's writers who wrote again this month
func (e *Engine) MonthlyActivity(ctx context.Context, r DateRange, metrics []Metric) ([]models.ActivityPoint, error) {
	months := monthsIn(r)
	series := newActivitySeries(len(months), newMetricSet(metrics))
	g, gctx := e.group(ctx)

	if series.dau != nil {
		g.Go(func() error {
			rows, err := e.facts.CountActiveUsersByDay(gctx, r)
			if err != nil {
				return upstream("count_active_users_by_day", err)
			}
			daily := make(map[string][]int64)
			for _, row := range rows {
				key := monthLabel(row.Date.Year(), row.Date.Month())
				daily[key] = append(daily[key], row.Count)
			}
			for i, m := range months {
				series.dau[i] = roundedMean(daily[monthLabel(m.Year(), m.Month())])
			}
			return nil
		})
	}

	lastDays := make([]time.Time, len(months))
	for i, m := range months {
		lastDays[i] = lastDayOfMonth(m)
	}
	e.trailingCounts(gctx, g, lastDays, e.settings.WeeklyWindowDays, series.wau)
	e.trailingCounts(gctx, g, lastDays, e.settings.MonthlyWindowDays, series.mau)

	if series.newUsers != nil {
		g.Go(func() error {
			rows, err := e.facts.CountNewUsersByMonth(gctx, r.Period())
			if err != nil {
				return upstream("count_new_users_by_month", err)
			}
			byMonth := countsByMonth(rows)
			for i, m := range months {
				series.newUsers[i] = byMonth[monthLabel(m.Year(), m.Month())]
			}
			return nil
		})
	}

	if series.withdrawn != nil {
		g.Go(func() error {
			rows, err := e.facts.CountWithdrawnUsersByMonth(gctx, r.Period())
			if err != nil {
				return upstream("count_withdrawn_users_by_month", err)
			}
			byMonth := countsByMonth(rows)
			for i, m := range months {
				series.withdrawn[i] = byMonth[monthLabel(m.Year(), m.Month())]
			}
			return nil
		})
	}

	var sets [][]int64
	if series.retention != nil && len(months) > 0 {
		sets = make([][]int64, len(months)+1)
		for j := range sets {
			start := months[0].AddDate(0, j-1, 0)
			g.Go(func() error {
				ids, err := e.facts.DistinctActiveUserIDs(gctx, DateRange{Start: start, End: start.AddDate(0, 1, 0)})
				if err != nil {
					return upstream("distinct_active_user_ids", err)
				}
				sets[j] = ids
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range series.retention {
		series.retention[i] = RetentionRate(sets[i], sets[i+1], e.settings.PercentagePrecision)
	}

	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = monthLabel(m.Year(), m.Month())
	}
	return series.points(labels), nil
}

// trailingCounts schedules one distinct-writer count per anchor over the
// trailing window of windowDays ending on it. dst nil means not requested.
func (e *Engine) trailingCounts(ctx context.Context, g *errgroup.Group, anchors []time.Time, windowDays int, dst []int64) {
	if dst == nil {
		return
	}
	for i, anchor := range anchors {
		g.Go(func() error {
			n, err := e.facts.DistinctActiveUserCount(ctx, trailingWindow(anchor, windowDays))
			if err != nil {
				return upstream("distinct_active_user_count", err)
			}
			dst[i] = n
			return nil
		})
	}
}

// RetentionRate returns the percentage of previous that also appear in
// current, rounded to places decimals. It is 0 when previous is empty.
// Duplicate ids are counted once.
func RetentionRate(previous, current []int64, places int32) float64 {
	prev := make(map[int64]struct{}, len(previous))
	for _, id := range previous {
		prev[id] = struct{}{}
	}
	if len(prev) == 0 {
		return 0
	}

	retained := make(map[int64]struct{})
	for _, id := range current {
		if _, ok := prev[id]; ok {
			retained[id] = struct{}{}
		}
	}
	return Percentage(int64(len(retained)), int64(len(prev)), places)
}
