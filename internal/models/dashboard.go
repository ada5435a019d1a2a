// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package models

// TrendPoint is one bucket of a diary trend. Date is YYYY-MM-DD for daily
// buckets and YYYY-MM for monthly buckets.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// DiaryTrendResponse is the diary-writing trend chart.
//
// Example:
//
//	{
//	  "period": "weekly",
//	  "year": 2025,
//	  "month": 3,
//	  "trend": [{"date": "2025-03-01", "count": 4}, {"date": "2025-03-02", "count": 0}, ...]
//	}
type DiaryTrendResponse struct {
	Period string       `json:"period"`
	Year   int          `json:"year"`
	Month  *int         `json:"month"`
	Trend  []TrendPoint `json:"trend"`
}

// ActivityPoint is one bucket of the user activity chart. Metrics that were
// not requested are nil and omitted from JSON.
type ActivityPoint struct {
	Date           string   `json:"date"`
	DAU            *int64   `json:"dau,omitempty"`
	WAU            *int64   `json:"wau,omitempty"`
	MAU            *int64   `json:"mau,omitempty"`
	NewUsers       *int64   `json:"newUsers,omitempty"`
	WithdrawnUsers *int64   `json:"withdrawnUsers,omitempty"`
	RetentionRate  *float64 `json:"retentionRate,omitempty"`
}

// UserActivityStatsResponse is the user activity chart.
type UserActivityStatsResponse struct {
	Period  string          `json:"period"`
	Year    int             `json:"year"`
	Month   *int            `json:"month"`
	Metrics []string        `json:"metrics"`
	Trend   []ActivityPoint `json:"trend"`
}

// RiskLevelDistributionItem is the user count and share for one risk level.
type RiskLevelDistributionItem struct {
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// RiskLevelDistribution always carries all four levels.
type RiskLevelDistribution struct {
	High   RiskLevelDistributionItem `json:"high"`
	Medium RiskLevelDistributionItem `json:"medium"`
	Low    RiskLevelDistributionItem `json:"low"`
	None   RiskLevelDistributionItem `json:"none"`
}

// RiskLevelDistributionResponse is the risk-level pie chart.
type RiskLevelDistributionResponse struct {
	Period       string                `json:"period"`
	Year         int                   `json:"year"`
	Month        *int                  `json:"month"`
	Distribution RiskLevelDistribution `json:"distribution"`
	Total        int64                 `json:"total"`
}

// DashboardStatsResponse bundles the headline cards.
type DashboardStatsResponse struct {
	TotalUsers          TotalUsersInfo          `json:"totalUsers"`
	ActiveUsers         ActiveUsersInfo         `json:"activeUsers"`
	NewUsers            NewUsersInfo            `json:"newUsers"`
	TotalDiaries        TotalDiariesInfo        `json:"totalDiaries"`
	AverageDailyDiaries AverageDailyDiariesInfo `json:"averageDailyDiaries"`
	RiskLevelUsers      RiskLevelUsersInfo      `json:"riskLevelUsers"`
}

// TotalUsersInfo is the non-deleted user count. Change is the difference in
// sign-ups between the current and previous period.
type TotalUsersInfo struct {
	Count  int64  `json:"count"`
	Change int64  `json:"change"`
	Period string `json:"period"`
}

// ActiveUsersInfo reports DAU, WAU and MAU as of today. Type echoes the
// metric the operator chose to highlight.
type ActiveUsersInfo struct {
	DAU  int64  `json:"dau"`
	WAU  int64  `json:"wau"`
	MAU  int64  `json:"mau"`
	Type string `json:"type"`
}

// NewUsersInfo reports today's, the trailing week's and month-to-date sign-ups.
type NewUsersInfo struct {
	Daily   int64  `json:"daily"`
	Weekly  int64  `json:"weekly"`
	Monthly int64  `json:"monthly"`
	Period  string `json:"period"`
}

// TotalDiariesInfo is the lifetime diary count and the period-over-period change.
type TotalDiariesInfo struct {
	Count  int64 `json:"count"`
	Change int64 `json:"change"`
}

// AverageDailyDiariesInfo is the integer average of diaries per day.
type AverageDailyDiariesInfo struct {
	Count  int64  `json:"count"`
	Period string `json:"period"`
}

// RiskLevelUsersInfo is the per-level user count for the current period.
type RiskLevelUsersInfo struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
	None   int64 `json:"none"`
}
