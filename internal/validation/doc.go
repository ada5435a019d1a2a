// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

// Package validation validates dashboard query parameters using
// go-playground/validator v10.
//
// A thread-safe singleton validator carries three custom tags:
//
//   - period: weekly, monthly or yearly, case-insensitive
//   - calendarmonth: an integer in 1..12
//   - activitymetrics: a comma-separated list of at most 16 letter-only names
//
// Field names in errors are taken from the `query` struct tag so messages
// name the parameter the caller actually sent:
//
//	type TrendQuery struct {
//	    Period string `query:"period" validate:"period"`
//	    Year   *int   `query:"year"   validate:"omitempty,gte=1,lte=9999"`
//	    Month  *int   `query:"month"  validate:"omitempty,calendarmonth"`
//	}
//
// # API Error Integration
//
// ToAPIError keeps the dashboard's dedicated codes for period and month
// failures, and their exact messages:
//
//	{"code": "INVALID_PERIOD", "message": "Invalid period: biweekly. Must be weekly, monthly, or yearly."}
//	{"code": "INVALID_MONTH",  "message": "Invalid month: 13. Must be between 1 and 12."}
//
// A period failure is reported ahead of a month failure. Every other failure
// is a VALIDATION_ERROR with field details.
package validation
