// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"sort"
	"time"

	"github.com/tomtom215/diarystats/internal/models"
)

// Granularity is the bucket size of a trend series.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityMonth
)

func (g Granularity) String() string {
	if g == GranularityMonth {
		return "month"
	}
	return "day"
}

// BuildDailyTrend emits one point per day in r, in date order. Days with no
// row get a count of 0. Rows outside r are ignored and rows for the same day
// are summed.
func BuildDailyTrend(rows []DayCount, r DateRange) []models.TrendPoint {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[dayLabel(row.Date)] += row.Count
	}

	dates := r.Dates()
	trend := make([]models.TrendPoint, 0, len(dates))
	for _, d := range dates {
		label := dayLabel(d)
		trend = append(trend, models.TrendPoint{Date: label, Count: counts[label]})
	}
	return trend
}

// BuildMonthlyTrend emits a point only for months that have a row, in
// ascending year-month order. Months without rows are absent, not zero.
// Rows for months outside r are ignored.
func BuildMonthlyTrend(rows []MonthCount, r DateRange) []models.TrendPoint {
	type bucket struct {
		key   int
		label string
		count int64
	}

	byMonth := make(map[int]*bucket, len(rows))
	for _, row := range rows {
		if !monthOverlaps(row.Year, row.Month, r) {
			continue
		}
		key := row.Year*12 + int(row.Month) - 1
		b, ok := byMonth[key]
		if !ok {
			b = &bucket{key: key, label: monthLabel(row.Year, row.Month)}
			byMonth[key] = b
		}
		b.count += row.Count
	}

	buckets := make([]*bucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })

	trend := make([]models.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		trend = append(trend, models.TrendPoint{Date: b.label, Count: b.count})
	}
	return trend
}

// monthOverlaps reports whether any day of the month lies in r.
func monthOverlaps(year int, month time.Month, r DateRange) bool {
	first := firstOfMonth(year, month, r.Start.Location())
	next := first.AddDate(0, 1, 0)
	return first.Before(r.End) && next.After(r.Start)
}

// monthsIn returns the first day of every month that overlaps r, in order.
func monthsIn(r DateRange) []time.Time {
	var months []time.Time
	for m := firstOfMonth(r.Start.Year(), r.Start.Month(), r.Start.Location()); m.Before(r.End); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}
