// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

/*
Package models defines the JSON shapes exchanged over the Diarystats HTTP API.

Key Components:

  - APIResponse, Metadata, APIError: the envelope written by every endpoint
  - DiaryTrendResponse, TrendPoint: the diary-writing trend chart
  - UserActivityStatsResponse, ActivityPoint: the user activity chart
  - RiskLevelDistributionResponse: the risk-level pie chart
  - DashboardStatsResponse: the headline cards
  - RiskDetectionSettings: the read-only classification thresholds

Field names follow the dashboard frontend (camelCase) for payloads, while the
envelope keeps snake_case metadata keys.

All types are plain values created per request; none are persisted.
*/
package models
