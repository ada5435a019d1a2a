// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"strings"
	"time"
)

// Period is a reporting period chosen by the dashboard operator.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// daysPerWeek is the length of a weekly period. It is a calendar definition and
// is independent of the trailing WAU window configured in Settings.
const daysPerWeek = 7

// ParsePeriod parses a period name case-insensitively.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	default:
		return "", &PeriodError{Value: s}
	}
}

// Granularity returns the bucket size used for trends over this period:
// months for yearly periods, days otherwise.
func (p Period) Granularity() Granularity {
	if p == PeriodYearly {
		return GranularityMonth
	}
	return GranularityDay
}

// PeriodRange is a half-open datetime interval [Start, End).
type PeriodRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End).
func (r PeriodRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Dates returns the same interval at day granularity. Both bounds must be
// midnight-aligned, which every range produced by PeriodResolver is.
func (r PeriodRange) Dates() DateRange {
	return DateRange(r)
}

// DateRange is a half-open interval [Start, End) of calendar days. Start and
// End are midnight in the engine's location.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return daysBetween(r.Start, r.End)
}

// Dates returns every day in the range in ascending order.
func (r DateRange) Dates() []time.Time {
	days := make([]time.Time, 0, max(r.Days(), 0))
	for d := r.Start; d.Before(r.End); d = addDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether the day containing t lies in the range.
func (r DateRange) Contains(t time.Time) bool {
	return PeriodRange(r).Contains(t)
}

// Period returns the same interval as a datetime range.
func (r DateRange) Period() PeriodRange {
	return PeriodRange(r)
}

// Resolution is a period request resolved against the calendar.
type Resolution struct {
	Period Period
	Year   int
	Month  int
	Range  PeriodRange
}

// Dates returns the resolved range at day granularity.
func (res Resolution) Dates() DateRange {
	return res.Range.Dates()
}

// PeriodResolver turns (period, year?, month?) requests into concrete ranges.
// Defaults for year and month come from the resolver's clock in its location.
type PeriodResolver struct {
	loc *time.Location
	now func() time.Time
}

// NewPeriodResolver creates a resolver. A nil location means UTC and a nil
// clock means time.Now.
func NewPeriodResolver(loc *time.Location, now func() time.Time) *PeriodResolver {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &PeriodResolver{loc: loc, now: now}
}

// Location returns the time zone calendar days are computed in.
func (r *PeriodResolver) Location() *time.Location {
	return r.loc
}

// Today returns midnight of the current day.
func (r *PeriodResolver) Today() time.Time {
	return startOfDay(r.now(), r.loc)
}

// Resolve validates the request and returns its half-open range.
// The period is checked before the month. An explicit month is validated
// for every period, including yearly where it is otherwise unused.
func (r *PeriodResolver) Resolve(period string, year, month *int) (Resolution, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return Resolution{}, err
	}

	today := r.Today()
	y := today.Year()
	if year != nil {
		y = *year
	}
	m := int(today.Month())
	if month != nil {
		if *month < 1 || *month > 12 {
			return Resolution{}, &MonthError{Value: *month}
		}
		m = *month
	}

	return Resolution{
		Period: p,
		Year:   y,
		Month:  m,
		Range:  rangeFor(p, y, time.Month(m), r.loc),
	}, nil
}

// ResolveCurrent resolves p against today's year and month.
func (r *PeriodResolver) ResolveCurrent(p Period) (Resolution, error) {
	if _, err := ParsePeriod(string(p)); err != nil {
		return Resolution{}, err
	}
	today := r.Today()
	return Resolution{
		Period: p,
		Year:   today.Year(),
		Month:  int(today.Month()),
		Range:  rangeFor(p, today.Year(), today.Month(), r.loc),
	}, nil
}

// Previous returns the period of the same kind immediately before one
// starting at currentStart: the seven days before it for weekly, the
// previous calendar month for monthly, and the previous calendar year for
// yearly. The weekly previous range is not clamped to a month boundary.
func (r *PeriodResolver) Previous(p Period, currentStart time.Time) (PeriodRange, error) {
	start := startOfDay(currentStart, r.loc)
	switch p {
	case PeriodWeekly:
		prev := addDays(start, -daysPerWeek)
		return PeriodRange{Start: prev, End: addDays(prev, daysPerWeek)}, nil
	case PeriodMonthly:
		first := firstOfMonth(start.Year(), start.Month(), r.loc)
		return PeriodRange{Start: first.AddDate(0, -1, 0), End: first}, nil
	case PeriodYearly:
		first := time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, r.loc)
		return PeriodRange{Start: first.AddDate(-1, 0, 0), End: first}, nil
	default:
		return PeriodRange{}, &PeriodError{Value: string(p)}
	}
}

func rangeFor(p Period, year int, month time.Month, loc *time.Location) PeriodRange {
	switch p {
	case PeriodWeekly:
		return weekFrom(firstOfMonth(year, month, loc))
	case PeriodMonthly:
		start := firstOfMonth(year, month, loc)
		return PeriodRange{Start: start, End: start.AddDate(0, 1, 0)}
	default:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return PeriodRange{Start: start, End: start.AddDate(1, 0, 0)}
	}
}

// weekFrom returns the seven days starting at start, with End clamped to the
// first day of the following month so a week never leaves start's month.
func weekFrom(start time.Time) PeriodRange {
	end := addDays(start, daysPerWeek)
	nextMonth := firstOfMonth(start.Year(), start.Month(), start.Location()).AddDate(0, 1, 0)
	if end.After(nextMonth) {
		end = nextMonth
	}
	return PeriodRange{Start: start, End: end}
}

func firstOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// addDays moves by calendar days; time.Date normalization keeps the result
// at midnight across DST transitions.
func addDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// lastDayOfMonth returns midnight of the final day in t's month.
func lastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b using civil dates, so DST
// shifts in the location do not skew the result.
func daysBetween(a, b time.Time) int {
	ca := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	cb := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(cb.Sub(ca).Hours() / 24)
}

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

func dayLabel(t time.Time) string {
	return t.Format(dayLayout)
}

func monthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(monthLayout)
}
