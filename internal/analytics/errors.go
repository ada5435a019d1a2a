// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package analytics

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure kinds surfaced by the engine.
// Use errors.Is to classify; the typed errors below carry the offending input.
var (
	// ErrInvalidPeriod is returned when the period is not weekly, monthly, or yearly.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidMonth is returned when an explicitly supplied month is outside 1..12.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrUpstreamQuery is returned when a fact query fails or yields malformed data.
	ErrUpstreamQuery = errors.New("upstream query failure")
)

// PeriodError reports an unrecognized period string.
type PeriodError struct {
	Value string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("Invalid period: %s. Must be weekly, monthly, or yearly.", e.Value)
}

// Is reports whether target is ErrInvalidPeriod.
func (e *PeriodError) Is(target error) bool {
	return target == ErrInvalidPeriod
}

// MonthError reports a month outside 1..12.
type MonthError struct {
	Value int
}

func (e *MonthError) Error() string {
	return fmt.Sprintf("Invalid month: %d. Must be between 1 and 12.", e.Value)
}

// Is reports whether target is ErrInvalidMonth.
func (e *MonthError) Is(target error) bool {
	return target == ErrInvalidMonth
}

// UpstreamError wraps a failed FactQueryPort call with the name of the query.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fact query %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrUpstreamQuery.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamQuery
}

// upstream wraps err as an UpstreamError unless it is nil.
func upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}
