// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package database

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/diarystats/internal/analytics"
)

func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func dateIn(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// seedFacts loads a small fixture:
//
//	user 1: joined 2024-01-10, diaries 03-01 (x2) and 03-14, sessions LOW 03-02 then HIGH 03-05
//	user 2: joined 2024-03-10 23:30 UTC, diary 03-14, session MEDIUM 03-06
//	user 3: joined 2024-02-05, withdrawn 2024-03-01 12:00, diary 02-20, session NONE 02-10
//	user 4: joined 2024-03-15 08:00, one deleted diary 03-14
func seedFacts(t *testing.T) *FactStore {
	t.Helper()

	db := setupTestDB(t)
	ctx := context.Background()

	withdrawn := utc(2024, 3, 1, 12, 0)
	users := []struct {
		id      int64
		created time.Time
		deleted *time.Time
	}{
		{1, utc(2024, 1, 10, 10, 0), nil},
		{2, utc(2024, 3, 10, 23, 30), nil},
		{3, utc(2024, 2, 5, 9, 0), &withdrawn},
		{4, utc(2024, 3, 15, 8, 0), nil},
	}
	for _, u := range users {
		if err := db.InsertUser(ctx, u.id, u.created, u.deleted); err != nil {
			t.Fatalf("InsertUser(%d) error = %v", u.id, err)
		}
	}

	diaries := []struct {
		userID int64
		date   time.Time
	}{
		{1, utc(2024, 3, 1, 0, 0)},
		{1, utc(2024, 3, 1, 0, 0)},
		{1, utc(2024, 3, 14, 0, 0)},
		{2, utc(2024, 3, 14, 0, 0)},
		{3, utc(2024, 2, 20, 0, 0)},
	}
	for _, d := range diaries {
		if _, err := db.InsertDiary(ctx, d.userID, d.date); err != nil {
			t.Fatalf("InsertDiary(%d) error = %v", d.userID, err)
		}
	}
	deletedID, err := db.InsertDiary(ctx, 4, utc(2024, 3, 14, 0, 0))
	if err != nil {
		t.Fatalf("InsertDiary(4) error = %v", err)
	}
	if err := db.DeleteDiary(ctx, deletedID, utc(2024, 3, 16, 0, 0)); err != nil {
		t.Fatalf("DeleteDiary() error = %v", err)
	}

	sessions := []struct {
		userID int64
		level  string
		at     time.Time
	}{
		{3, "NONE", utc(2024, 2, 10, 9, 0)},
		{1, "LOW", utc(2024, 3, 2, 9, 0)},
		{1, "HIGH", utc(2024, 3, 5, 9, 0)},
		{2, "MEDIUM", utc(2024, 3, 6, 9, 0)},
	}
	for _, s := range sessions {
		if _, err := db.InsertRiskSession(ctx, s.userID, s.level, s.at); err != nil {
			t.Fatalf("InsertRiskSession(%d) error = %v", s.userID, err)
		}
	}

	return NewFactStore(db)
}

var (
	march2024 = analytics.DateRange{Start: dateIn(2024, 3, 1, time.UTC), End: dateIn(2024, 4, 1, time.UTC)}
	year2024  = analytics.DateRange{Start: dateIn(2024, 1, 1, time.UTC), End: dateIn(2025, 1, 1, time.UTC)}
	feb2024   = analytics.DateRange{Start: dateIn(2024, 2, 1, time.UTC), End: dateIn(2024, 3, 1, time.UTC)}
)

func formatDays(rows []analytics.DayCount) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Date.Format("2006-01-02")] = row.Count
	}
	return out
}

func TestFactStore_DiaryCounts(t *testing.T) {
	store := seedFacts(t)
	ctx := context.Background()

	byDay, err := store.CountDiariesByDay(ctx, march2024)
	if err != nil {
		t.Fatalf("CountDiariesByDay() error = %v", err)
	}
	if got, want := formatDays(byDay), map[string]int64{"2024-03-01": 2, "2024-03-14": 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("CountDiariesByDay() = %v, want %v", got, want)
	}
	for _, row := range byDay {
		if row.Date.Location() != time.UTC || row.Date.Hour() != 0 {
			t.Errorf("row date %v should be midnight in the range location", row.Date)
		}
	}

	byMonth, err := store.CountDiariesByMonth(ctx, year2024)
	if err != nil {
		t.Fatalf("CountDiariesByMonth() error = %v", err)
	}
	wantMonths := []analytics.MonthCount{
		{Year: 2024, Month: time.February, Count: 1},
		{Year: 2024, Month: time.March, Count: 4},
	}
	if !reflect.DeepEqual(byMonth, wantMonths) {
		t.Errorf("CountDiariesByMonth() = %+v, want %+v", byMonth, wantMonths)
	}

	total, err := store.CountTotalDiaries(ctx)
	if err != nil {
		t.Fatalf("CountTotalDiaries() error = %v", err)
	}
	if total != 5 {
		t.Errorf("CountTotalDiaries() = %d, want 5", total)
	}

	tests := []struct {
		name string
		r    analytics.DateRange
		want int64
	}{
		{"march", march2024, 4},
		{"february", feb2024, 1},
		{"end day excluded", analytics.DateRange{Start: dateIn(2024, 3, 1, time.UTC), End: dateIn(2024, 3, 14, time.UTC)}, 2},
		{"empty range", analytics.DateRange{Start: dateIn(2023, 1, 1, time.UTC), End: dateIn(2023, 2, 1, time.UTC)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.CountDiariesInRange(ctx, tt.r)
			if err != nil {
				t.Fatalf("CountDiariesInRange() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountDiariesInRange() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFactStore_ActiveUsers(t *testing.T) {
	store := seedFacts(t)
	ctx := context.Background()

	ids, err := store.DistinctActiveUserIDs(ctx, march2024)
	if err != nil {
		t.Fatalf("DistinctActiveUserIDs() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{1, 2}) {
		t.Errorf("DistinctActiveUserIDs() = %v, want [1 2]", ids)
	}

	n, err := store.DistinctActiveUserCount(ctx, year2024)
	if err != nil {
		t.Fatalf("DistinctActiveUserCount() error = %v", err)
	}
	if n != 3 {
		t.Errorf("DistinctActiveUserCount(2024) = %d, want 3", n)
	}

	byDay, err := store.CountActiveUsersByDay(ctx, march2024)
	if err != nil {
		t.Fatalf("CountActiveUsersByDay() error = %v", err)
	}
	if got, want := formatDays(byDay), map[string]int64{"2024-03-01": 1, "2024-03-14": 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("CountActiveUsersByDay() = %v, want %v", got, want)
	}
}

func TestFactStore_Users(t *testing.T) {
	store := seedFacts(t)
	ctx := context.Background()

	newByDay, err := store.CountNewUsersByDay(ctx, march2024.Period())
	if err != nil {
		t.Fatalf("CountNewUsersByDay() error = %v", err)
	}
	if got, want := formatDays(newByDay), map[string]int64{"2024-03-10": 1, "2024-03-15": 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("CountNewUsersByDay() = %v, want %v", got, want)
	}

	newByMonth, err := store.CountNewUsersByMonth(ctx, year2024.Period())
	if err != nil {
		t.Fatalf("CountNewUsersByMonth() error = %v", err)
	}
	wantMonths := []analytics.MonthCount{
		{Year: 2024, Month: time.January, Count: 1},
		{Year: 2024, Month: time.February, Count: 1},
		{Year: 2024, Month: time.March, Count: 2},
	}
	if !reflect.DeepEqual(newByMonth, wantMonths) {
		t.Errorf("CountNewUsersByMonth() = %+v, want %+v", newByMonth, wantMonths)
	}

	withdrawn, err := store.CountWithdrawnUsersByDay(ctx, march2024.Period())
	if err != nil {
		t.Fatalf("CountWithdrawnUsersByDay() error = %v", err)
	}
	if got, want := formatDays(withdrawn), map[string]int64{"2024-03-01": 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("CountWithdrawnUsersByDay() = %v, want %v", got, want)
	}

	withdrawnByMonth, err := store.CountWithdrawnUsersByMonth(ctx, year2024.Period())
	if err != nil {
		t.Fatalf("CountWithdrawnUsersByMonth() error = %v", err)
	}
	if want := []analytics.MonthCount{{Year: 2024, Month: time.March, Count: 1}}; !reflect.DeepEqual(withdrawnByMonth, want) {
		t.Errorf("CountWithdrawnUsersByMonth() = %+v, want %+v", withdrawnByMonth, want)
	}

	total, err := store.CountTotalActiveUsers(ctx)
	if err != nil {
		t.Fatalf("CountTotalActiveUsers() error = %v", err)
	}
	if total != 3 {
		t.Errorf("CountTotalActiveUsers() = %d, want 3", total)
	}

	inRange := []struct {
		name string
		r    analytics.PeriodRange
		want int64
	}{
		{"withdrawn user still counts toward sign-up month", feb2024.Period(), 1},
		{"march", march2024.Period(), 2},
		{"start is inclusive", analytics.PeriodRange{Start: utc(2024, 3, 15, 8, 0), End: utc(2024, 3, 16, 0, 0)}, 1},
		{"end is exclusive", analytics.PeriodRange{Start: utc(2024, 3, 11, 0, 0), End: utc(2024, 3, 15, 8, 0)}, 0},
	}
	for _, tt := range inRange {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.CountUsersInRange(ctx, tt.r)
			if err != nil {
				t.Fatalf("CountUsersInRange() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountUsersInRange() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFactStore_UsersBucketedInRangeLocation(t *testing.T) {
	store := seedFacts(t)
	kst := time.FixedZone("KST", 9*60*60)

	r := analytics.PeriodRange{Start: dateIn(2024, 3, 1, kst), End: dateIn(2024, 4, 1, kst)}
	rows, err := store.CountNewUsersByDay(context.Background(), r)
	if err != nil {
		t.Fatalf("CountNewUsersByDay() error = %v", err)
	}

	// 2024-03-10 23:30 UTC is 2024-03-11 08:30 in KST.
	if got, want := formatDays(rows), map[string]int64{"2024-03-11": 1, "2024-03-15": 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("CountNewUsersByDay(KST) = %v, want %v", got, want)
	}
	for _, row := range rows {
		if row.Date.Location() != kst {
			t.Errorf("row location = %v, want KST", row.Date.Location())
		}
	}
}

func TestFactStore_RiskSessions(t *testing.T) {
	store := seedFacts(t)
	ctx := context.Background()

	rows, err := store.MostRecentRiskSessionPerUser(ctx, march2024.Period())
	if err != nil {
		t.Fatalf("MostRecentRiskSessionPerUser() error = %v", err)
	}
	want := []analytics.UserRiskLevel{
		{UserID: 1, Level: analytics.RiskHigh},
		{UserID: 2, Level: analytics.RiskMedium},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("MostRecentRiskSessionPerUser() = %+v, want %+v", rows, want)
	}

	// Only the LOW session falls inside [03-01, 03-03), so it wins there.
	early, err := store.MostRecentRiskSessionPerUser(ctx, analytics.PeriodRange{Start: utc(2024, 3, 1, 0, 0), End: utc(2024, 3, 3, 0, 0)})
	if err != nil {
		t.Fatalf("MostRecentRiskSessionPerUser(early) error = %v", err)
	}
	if wantEarly := []analytics.UserRiskLevel{{UserID: 1, Level: analytics.RiskLow}}; !reflect.DeepEqual(early, wantEarly) {
		t.Errorf("MostRecentRiskSessionPerUser(early) = %+v, want %+v", early, wantEarly)
	}

	distinct, err := store.CountDistinctUsersWithAnySession(ctx, year2024.Period())
	if err != nil {
		t.Fatalf("CountDistinctUsersWithAnySession() error = %v", err)
	}
	if distinct != 3 {
		t.Errorf("CountDistinctUsersWithAnySession() = %d, want 3", distinct)
	}
}

func TestFactStore_EngineDistribution(t *testing.T) {
	store := seedFacts(t)
	engine := analytics.NewEngine(store, analytics.DefaultSettings())

	month := 3
	year := 2024
	resp, err := engine.RiskLevelDistribution(context.Background(), "monthly", &year, &month)
	if err != nil {
		t.Fatalf("RiskLevelDistribution() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
	if resp.Distribution.High.Count != 1 || resp.Distribution.High.Percentage != 50 {
		t.Errorf("High = %+v, want 1 / 50%%", resp.Distribution.High)
	}
	if resp.Distribution.None.Count != 0 || resp.Distribution.None.Percentage != 0 {
		t.Errorf("None = %+v, want zero", resp.Distribution.None)
	}
}

func TestFactStore_CanceledContext(t *testing.T) {
	store := seedFacts(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.CountTotalDiaries(ctx); err == nil {
		t.Error("CountTotalDiaries() with canceled context should fail")
	}
	if _, err := store.CountDiariesByDay(ctx, march2024); err == nil {
		t.Error("CountDiariesByDay() with canceled context should fail")
	}
}

func TestBucketByMonth_SortsAcrossYears(t *testing.T) {
	t.Parallel()

	stamps := []time.Time{
		utc(2024, 1, 5, 0, 0),
		utc(2023, 12, 31, 23, 0),
		utc(2024, 1, 20, 0, 0),
	}
	got := bucketByMonth(stamps, time.UTC)
	want := []analytics.MonthCount{
		{Year: 2023, Month: time.December, Count: 1},
		{Year: 2024, Month: time.January, Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("bucketByMonth() = %+v, want %+v", got, want)
	}
}
