// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"context"
	"sort"
	"sync"
	"time"
)

type mockUser struct {
	id        int64
	createdAt time.Time
	deletedAt *time.Time
}

type mockDiary struct {
	userID int64
	date   time.Time
}

type mockSession struct {
	id        int64
	userID    int64
	createdAt time.Time
	level     RiskLevel
}

// mockFacts implements FactQueryPort over in-memory slices.
// Setting failOn[method] makes that method return the error.
type mockFacts struct {
	users    []mockUser
	diaries  []mockDiary
	sessions []mockSession
	failOn   map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *mockFacts) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
	return m.failOn[method]
}

func (m *mockFacts) callCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *mockFacts) diariesIn(r DateRange) []mockDiary {
	var out []mockDiary
	for _, d := range m.diaries {
		if r.Contains(d.date) {
			out = append(out, d)
		}
	}
	return out
}

func (m *mockFacts) CountDiariesByDay(_ context.Context, r DateRange) ([]DayCount, error) {
	if err := m.record("CountDiariesByDay"); err != nil {
		return nil, err
	}
	counts := make(map[time.Time]int64)
	for _, d := range m.diariesIn(r) {
		counts[d.date]++
	}
	return dayRows(counts), nil
}

func (m *mockFacts) CountDiariesByMonth(_ context.Context, r DateRange) ([]MonthCount, error) {
	if err := m.record("CountDiariesByMonth"); err != nil {
		return nil, err
	}
	counts := make(map[time.Time]int64)
	for _, d := range m.diariesIn(r) {
		counts[firstOfMonth(d.date.Year(), d.date.Month(), time.UTC)]++
	}
	return monthRows(counts), nil
}

func (m *mockFacts) CountTotalDiaries(context.Context) (int64, error) {
	if err := m.record("CountTotalDiaries"); err != nil {
		return 0, err
	}
	return int64(len(m.diaries)), nil
}

func (m *mockFacts) CountDiariesInRange(_ context.Context, r DateRange) (int64, error) {
	if err := m.record("CountDiariesInRange"); err != nil {
		return 0, err
	}
	return int64(len(m.diariesIn(r))), nil
}

func (m *mockFacts) DistinctActiveUserIDs(_ context.Context, r DateRange) ([]int64, error) {
	if err := m.record("DistinctActiveUserIDs"); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool)
	var ids []int64
	for _, d := range m.diariesIn(r) {
		if !seen[d.userID] {
			seen[d.userID] = true
			ids = append(ids, d.userID)
		}
	}
	return ids, nil
}

func (m *mockFacts) DistinctActiveUserCount(_ context.Context, r DateRange) (int64, error) {
	if err := m.record("DistinctActiveUserCount"); err != nil {
		return 0, err
	}
	seen := make(map[int64]bool)
	for _, d := range m.diariesIn(r) {
		seen[d.userID] = true
	}
	return int64(len(seen)), nil
}

func (m *mockFacts) CountActiveUsersByDay(_ context.Context, r DateRange) ([]DayCount, error) {
	if err := m.record("CountActiveUsersByDay"); err != nil {
		return nil, err
	}
	writers := make(map[time.Time]map[int64]bool)
	for _, d := range m.diariesIn(r) {
		if writers[d.date] == nil {
			writers[d.date] = make(map[int64]bool)
		}
		writers[d.date][d.userID] = true
	}
	counts := make(map[time.Time]int64, len(writers))
	for day, ids := range writers {
		counts[day] = int64(len(ids))
	}
	return dayRows(counts), nil
}

func (m *mockFacts) CountNewUsersByDay(_ context.Context, r PeriodRange) ([]DayCount, error) {
	if err := m.record("CountNewUsersByDay"); err != nil {
		return nil, err
	}
	counts := make(map[time.Time]int64)
	for _, u := range m.users {
		if r.Contains(u.createdAt) {
			counts[startOfDay(u.createdAt, time.UTC)]++
		}
	}
	return dayRows(counts), nil
}

func (m *mockFacts) CountNewUsersByMonth(_ context.Context, r PeriodRange) ([]MonthCount, error) {
	if err := m.record("CountNewUsersByMonth"); err != nil {
		return nil, err
	}
	counts := make(map[time.Time]int64)
	for _, u := range m.users {
		if r.Contains(u.createdAt) {
			counts[firstOfMonth(u.createdAt.Year(), u.createdAt.Month(), time.UTC)]++
		}
	}
	return monthRows(counts), nil
}

func (m *mockFacts) CountWithdrawnUsersByDay(_ context.Context, r PeriodRange) ([]DayCount, error) {
	if err := m.record("CountWithdrawnUsersByDay"); err != nil {
		return nil, err
	}
	counts := make(map[time.Time]int64)
	for _, u := range m.users {
		if u.deletedAt != nil && r.Contains(*u.deletedAt) {
			counts[startOfDay(*u.deletedAt, time.UTC)]++
		}
	}
	return dayRows(counts), nil
}

func (m *mockFacts) CountWithdrawnUsersByMonth(_ context.Context, r PeriodRange) ([]MonthCount, error) {
	if err := m.record("CountWithdrawnUsersByMonth"); err != nil {
		return nil, err
	}
	counts := make(map[time.Time]int64)
	for _, u := range m.users {
		if u.deletedAt != nil && r.Contains(*u.deletedAt) {
			counts[firstOfMonth(u.deletedAt.Year(), u.deletedAt.Month(), time.UTC)]++
		}
	}
	return monthRows(counts), nil
}

func (m *mockFacts) CountUsersInRange(_ context.Context, r PeriodRange) (int64, error) {
	if err := m.record("CountUsersInRange"); err != nil {
		return 0, err
	}
	var n int64
	for _, u := range m.users {
		if r.Contains(u.createdAt) {
			n++
		}
	}
	return n, nil
}

func (m *mockFacts) CountTotalActiveUsers(context.Context) (int64, error) {
	if err := m.record("CountTotalActiveUsers"); err != nil {
		return 0, err
	}
	var n int64
	for _, u := range m.users {
		if u.deletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockFacts) MostRecentRiskSessionPerUser(_ context.Context, r PeriodRange) ([]UserRiskLevel, error) {
	if err := m.record("MostRecentRiskSessionPerUser"); err != nil {
		return nil, err
	}
	latest := make(map[int64]mockSession)
	for _, s := range m.sessions {
		if !r.Contains(s.createdAt) {
			continue
		}
		if cur, ok := latest[s.userID]; !ok || s.id > cur.id {
			latest[s.userID] = s
		}
	}
	rows := make([]UserRiskLevel, 0, len(latest))
	for uid, s := range latest {
		rows = append(rows, UserRiskLevel{UserID: uid, Level: s.level})
	}
	return rows, nil
}

func (m *mockFacts) CountDistinctUsersWithAnySession(_ context.Context, r PeriodRange) (int64, error) {
	if err := m.record("CountDistinctUsersWithAnySession"); err != nil {
		return 0, err
	}
	seen := make(map[int64]bool)
	for _, s := range m.sessions {
		if r.Contains(s.createdAt) {
			seen[s.userID] = true
		}
	}
	return int64(len(seen)), nil
}

func dayRows(counts map[time.Time]int64) []DayCount {
	rows := make([]DayCount, 0, len(counts))
	for day, n := range counts {
		rows = append(rows, DayCount{Date: day, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

func monthRows(counts map[time.Time]int64) []MonthCount {
	rows := make([]MonthCount, 0, len(counts))
	for first, n := range counts {
		rows = append(rows, MonthCount{Year: first.Year(), Month: first.Month(), Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

// Test helpers

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int {
	return &v
}

func newTestEngine(facts FactQueryPort) *Engine {
	return NewEngine(facts, Settings{}, WithClock(fixedClock(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))))
}
