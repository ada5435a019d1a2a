// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package models

// RiskDetectionSettings is the threshold configuration used by the external
// scoring service when it classifies sessions. Diarystats only reports it.
type RiskDetectionSettings struct {
	MonitoringPeriodDays int                `json:"monitoringPeriod"`
	High                 RiskLevelThreshold `json:"high"`
	Medium               RiskLevelThreshold `json:"medium"`
	Low                  RiskLevelThreshold `json:"low"`
}

// RiskLevelThreshold triggers a level after ConsecutiveDays consecutive days
// of negative diaries, or NegativeDays negative days within the monitoring period.
type RiskLevelThreshold struct {
	ConsecutiveDays int `json:"consecutiveDays"`
	NegativeDays    int `json:"negativeDays"`
}
