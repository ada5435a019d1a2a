// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds the tunable constants of the engine.
type Settings struct {
	// Location is the time zone calendar days are computed in.
	// Default: UTC
	Location *time.Location

	// WeeklyWindowDays is the trailing window for WAU and weekly new users,
	// anchor day included.
	// Default: 7
	WeeklyWindowDays int

	// MonthlyWindowDays is the trailing window for MAU, anchor day included.
	// Default: 30
	MonthlyWindowDays int

	// PercentagePrecision is the number of decimal places kept in
	// percentages and retention rates. Zero selects the default.
	// Default: 1
	PercentagePrecision int32

	// MaxConcurrentQueries bounds the fact queries in flight per request.
	// Default: 8
	MaxConcurrentQueries int
}

// DefaultSettings returns the settings the dashboard is specified against.
func DefaultSettings() Settings {
	return Settings{
		Location:             time.UTC,
		WeeklyWindowDays:     7,
		MonthlyWindowDays:    30,
		PercentagePrecision:  1,
		MaxConcurrentQueries: 8,
	}
}

// withDefaults fills zero values from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Location == nil {
		s.Location = d.Location
	}
	if s.WeeklyWindowDays <= 0 {
		s.WeeklyWindowDays = d.WeeklyWindowDays
	}
	if s.MonthlyWindowDays <= 0 {
		s.MonthlyWindowDays = d.MonthlyWindowDays
	}
	if s.PercentagePrecision <= 0 {
		s.PercentagePrecision = d.PercentagePrecision
	}
	if s.MaxConcurrentQueries <= 0 {
		s.MaxConcurrentQueries = d.MaxConcurrentQueries
	}
	return s
}

var hundred = decimal.NewFromInt(100)

// Percentage returns part*100/total rounded half-up to places decimals,
// or exactly 0 when total is 0.
func Percentage(part, total int64, places int32) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(part).
		Mul(hundred).
		Div(decimal.NewFromInt(total)).
		Round(places).
		InexactFloat64()
}

// roundedMean returns the mean of values rounded half-up to an integer,
// or 0 for an empty slice.
func roundedMean(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(values)))).Round(0).IntPart()
}
