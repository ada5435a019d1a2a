// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"testing"
	"time"
)

func TestBuildDailyTrend_ZeroFills(t *testing.T) {
	t.Parallel()

	r := DateRange{Start: day(2024, time.February, 1), End: day(2024, time.March, 1)}
	rows := []DayCount{
		{Date: day(2024, time.February, 3), Count: 5},
		{Date: day(2024, time.February, 29), Count: 2},
		{Date: day(2024, time.March, 1), Count: 9}, // outside the range
	}

	trend := BuildDailyTrend(rows, r)

	if len(trend) != 29 {
		t.Fatalf("len(trend) = %d, want 29", len(trend))
	}
	if trend[0].Date != "2024-02-01" || trend[28].Date != "2024-02-29" {
		t.Errorf("trend spans %s..%s, want 2024-02-01..2024-02-29", trend[0].Date, trend[28].Date)
	}

	var total int64
	for i, p := range trend {
		total += p.Count
		switch p.Date {
		case "2024-02-03":
			if p.Count != 5 {
				t.Errorf("trend[%d] count = %d, want 5", i, p.Count)
			}
		case "2024-02-29":
			if p.Count != 2 {
				t.Errorf("trend[%d] count = %d, want 2", i, p.Count)
			}
		default:
			if p.Count != 0 {
				t.Errorf("trend[%d] (%s) count = %d, want 0", i, p.Date, p.Count)
			}
		}
	}
	if total != 7 {
		t.Errorf("sum of counts = %d, want 7", total)
	}
}

func TestBuildMonthlyTrend_SparseAndSorted(t *testing.T) {
	t.Parallel()

	r := DateRange{Start: day(2024, time.January, 1), End: day(2025, time.January, 1)}
	rows := []MonthCount{
		{Year: 2024, Month: time.March, Count: 4},
		{Year: 2024, Month: time.January, Count: 2},
		{Year: 2023, Month: time.December, Count: 8}, // outside the range
	}

	trend := BuildMonthlyTrend(rows, r)

	if len(trend) != 2 {
		t.Fatalf("len(trend) = %d, want 2: %+v", len(trend), trend)
	}
	if trend[0].Date != "2024-01" || trend[0].Count != 2 {
		t.Errorf("trend[0] = %+v, want {2024-01 2}", trend[0])
	}
	if trend[1].Date != "2024-03" || trend[1].Count != 4 {
		t.Errorf("trend[1] = %+v, want {2024-03 4}", trend[1])
	}
}

func TestBuildMonthlyTrend_Empty(t *testing.T) {
	t.Parallel()

	r := DateRange{Start: day(2024, time.January, 1), End: day(2025, time.January, 1)}
	trend := BuildMonthlyTrend(nil, r)
	if trend == nil || len(trend) != 0 {
		t.Errorf("BuildMonthlyTrend(nil) = %#v, want empty non-nil slice", trend)
	}
}

func TestEngine_DiaryTrend_EmptyShapes(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(&mockFacts{})
	ctx := context.Background()

	monthly, err := engine.DiaryTrend(ctx, "monthly", intPtr(2024), intPtr(2))
	if err != nil {
		t.Fatalf("DiaryTrend(monthly) unexpected error: %v", err)
	}
	if len(monthly.Trend) != 29 {
		t.Errorf("monthly trend has %d points, want 29 zero-filled days", len(monthly.Trend))
	}

	yearly, err := engine.DiaryTrend(ctx, "yearly", intPtr(2024), nil)
	if err != nil {
		t.Fatalf("DiaryTrend(yearly) unexpected error: %v", err)
	}
	if len(yearly.Trend) != 0 {
		t.Errorf("yearly trend has %d points, want none for an empty year", len(yearly.Trend))
	}
}

func TestEngine_DiaryTrend(t *testing.T) {
	t.Parallel()

	facts := &mockFacts{
		diaries: []mockDiary{
			{userID: 1, date: day(2024, time.January, 2)},
			{userID: 2, date: day(2024, time.January, 2)},
			{userID: 1, date: day(2024, time.January, 9)},
			{userID: 1, date: day(2024, time.May, 20)},
		},
	}
	engine := newTestEngine(facts)

	t.Run("weekly", func(t *testing.T) {
		resp, err := engine.DiaryTrend(context.Background(), "Weekly", intPtr(2024), intPtr(1))
		if err != nil {
			t.Fatalf("DiaryTrend() unexpected error: %v", err)
		}
		if resp.Period != "Weekly" {
			t.Errorf("Period = %q, want the value as given", resp.Period)
		}
		if resp.Year != 2024 || resp.Month == nil || *resp.Month != 1 {
			t.Errorf("Year/Month = %d/%v, want 2024/1", resp.Year, resp.Month)
		}
		if len(resp.Trend) != 7 {
			t.Fatalf("len(trend) = %d, want 7", len(resp.Trend))
		}
		if resp.Trend[1].Date != "2024-01-02" || resp.Trend[1].Count != 2 {
			t.Errorf("trend[1] = %+v, want {2024-01-02 2}", resp.Trend[1])
		}
	})

	t.Run("yearly", func(t *testing.T) {
		resp, err := engine.DiaryTrend(context.Background(), "yearly", intPtr(2024), nil)
		if err != nil {
			t.Fatalf("DiaryTrend() unexpected error: %v", err)
		}
		if resp.Month != nil {
			t.Errorf("Month = %v, want nil when not supplied", *resp.Month)
		}
		if len(resp.Trend) != 2 {
			t.Fatalf("len(trend) = %d, want 2", len(resp.Trend))
		}
		if resp.Trend[0].Date != "2024-01" || resp.Trend[0].Count != 3 {
			t.Errorf("trend[0] = %+v, want {2024-01 3}", resp.Trend[0])
		}
		if resp.Trend[1].Date != "2024-05" || resp.Trend[1].Count != 1 {
			t.Errorf("trend[1] = %+v, want {2024-05 1}", resp.Trend[1])
		}
	})
}
