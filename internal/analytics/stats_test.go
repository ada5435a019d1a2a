// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAverageDailyDiaries(t *testing.T) {
	t.Parallel()

	year2024 := DateRange{Start: day(2024, time.January, 1), End: day(2025, time.January, 1)}
	march := DateRange{Start: day(2024, time.March, 1), End: day(2024, time.April, 1)}

	tests := []struct {
		name    string
		period  Period
		daily   []DayCount
		monthly []MonthCount
		r       DateRange
		want    int64
	}{
		{
			name:   "divides by days with rows",
			period: PeriodMonthly,
			daily: []DayCount{
				{Date: day(2024, time.March, 1), Count: 2},
				{Date: day(2024, time.March, 5), Count: 4},
				{Date: day(2024, time.March, 9), Count: 6},
			},
			r:    march,
			want: 4,
		},
		{
			name:   "integer division truncates",
			period: PeriodWeekly,
			daily: []DayCount{
				{Date: day(2024, time.March, 1), Count: 3},
				{Date: day(2024, time.March, 2), Count: 4},
			},
			r:    march,
			want: 3,
		},
		{
			name:   "no rows",
			period: PeriodMonthly,
			r:      march,
			want:   0,
		},
		{
			name:   "yearly divides by calendar days",
			period: PeriodYearly,
			monthly: []MonthCount{
				{Year: 2024, Month: time.January, Count: 400},
				{Year: 2024, Month: time.February, Count: 332},
			},
			r:    year2024,
			want: 2,
		},
		{
			name:   "yearly without rows",
			period: PeriodYearly,
			r:      year2024,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AverageDailyDiaries(tt.period, tt.daily, tt.monthly, tt.r); got != tt.want {
				t.Errorf("AverageDailyDiaries() = %d, want %d", got, tt.want)
			}
		})
	}
}

// statsFacts is anchored on the test clock, 2024-03-15.
func statsFacts() *mockFacts {
	deleted := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	return &mockFacts{
		users: []mockUser{
			{id: 1, createdAt: time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC)},
			{id: 2, createdAt: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)},
			{id: 3, createdAt: time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC), deletedAt: &deleted},
			{id: 4, createdAt: time.Date(2024, time.March, 15, 8, 0, 0, 0, time.UTC)},
		},
		diaries: []mockDiary{
			{userID: 1, date: day(2024, time.February, 20)},
			{userID: 1, date: day(2024, time.March, 1)},
			{userID: 1, date: day(2024, time.March, 14)},
			{userID: 1, date: day(2024, time.March, 15)},
			{userID: 2, date: day(2024, time.March, 15)},
		},
		sessions: []mockSession{
			{id: 1, userID: 1, createdAt: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), level: RiskHigh},
		},
	}
}

func TestEngine_DashboardStats(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(statsFacts())
	stats, err := engine.DashboardStats(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("DashboardStats() unexpected error: %v", err)
	}

	if stats.TotalUsers.Count != 3 || stats.TotalUsers.Change != 1 || stats.TotalUsers.Period != "monthly" {
		t.Errorf("TotalUsers = %+v, want {3 1 monthly}", stats.TotalUsers)
	}
	if stats.ActiveUsers.DAU != 2 || stats.ActiveUsers.WAU != 2 || stats.ActiveUsers.MAU != 2 || stats.ActiveUsers.Type != "dau" {
		t.Errorf("ActiveUsers = %+v, want {2 2 2 dau}", stats.ActiveUsers)
	}
	if stats.NewUsers.Daily != 1 || stats.NewUsers.Weekly != 2 || stats.NewUsers.Monthly != 2 || stats.NewUsers.Period != "daily" {
		t.Errorf("NewUsers = %+v, want {1 2 2 daily}", stats.NewUsers)
	}
	if stats.TotalDiaries.Count != 5 || stats.TotalDiaries.Change != 3 {
		t.Errorf("TotalDiaries = %+v, want {5 3}", stats.TotalDiaries)
	}
	if stats.AverageDailyDiaries.Count != 1 || stats.AverageDailyDiaries.Period != "monthly" {
		t.Errorf("AverageDailyDiaries = %+v, want {1 monthly}", stats.AverageDailyDiaries)
	}
	if stats.RiskLevelUsers.High != 1 || stats.RiskLevelUsers.Low != 0 {
		t.Errorf("RiskLevelUsers = %+v, want high 1", stats.RiskLevelUsers)
	}
}

func TestEngine_DashboardStats_Choices(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(statsFacts())
	stats, err := engine.DashboardStats(context.Background(), "Weekly", "WAU", " Monthly ")
	if err != nil {
		t.Fatalf("DashboardStats() unexpected error: %v", err)
	}
	if stats.TotalUsers.Period != "weekly" {
		t.Errorf("TotalUsers.Period = %q, want weekly", stats.TotalUsers.Period)
	}
	if stats.ActiveUsers.Type != "wau" {
		t.Errorf("ActiveUsers.Type = %q, want wau", stats.ActiveUsers.Type)
	}
	if stats.NewUsers.Period != "monthly" {
		t.Errorf("NewUsers.Period = %q, want monthly", stats.NewUsers.Period)
	}
	// The current week is Mar 1-7 and the previous Feb 23-29.
	if stats.TotalDiaries.Change != 1 {
		t.Errorf("TotalDiaries.Change = %d, want 1", stats.TotalDiaries.Change)
	}
}

func TestEngine_DashboardStats_InvalidPeriod(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(statsFacts())
	_, err := engine.DashboardStats(context.Background(), "biweekly", "", "")
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("DashboardStats() error = %v, want ErrInvalidPeriod", err)
	}
}
