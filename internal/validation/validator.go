// Diarystats - Diary Service Dashboard Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/diarystats

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/diarystats/internal/analytics"
)

// Error codes produced by ToAPIError.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidPeriod = "INVALID_PERIOD"
	CodeInvalidMonth  = "INVALID_MONTH"
)

// Custom tags registered on the singleton validator.
const (
	TagPeriod          = "period"
	TagCalendarMonth   = "calendarmonth"
	TagActivityMetrics = "activitymetrics"
)

// maxMetricEntries bounds the metrics list so a query string cannot fan out
// into an unbounded parse.
const maxMetricEntries = 16

var metricNamePattern = regexp.MustCompile(`^[A-Za-z]+$`)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError represents a single field validation error.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the query parameter name that failed validation.
func (e *ValidationError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *ValidationError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g., "9999" for "lte=9999").
func (e *ValidationError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *ValidationError) Value() interface{} {
	return e.value
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	return e.message
}

// RequestValidationError represents a collection of validation errors.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the slice of validation errors.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// APIError mirrors models.APIError to keep this package free of the models import.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// domainCodes maps the dashboard's own tags to their dedicated error codes,
// in precedence order: a bad period is reported before a bad month.
var domainCodes = []struct {
	tag  string
	code string
}{
	{TagPeriod, CodeInvalidPeriod},
	{TagCalendarMonth, CodeInvalidMonth},
}

// ToAPIError converts validation errors to the API error format. Period and
// month failures keep their dedicated codes and messages; everything else is
// a VALIDATION_ERROR.
func (ve *RequestValidationError) ToAPIError() *APIError {
	for _, dc := range domainCodes {
		for _, err := range ve.errors {
			if err.tag == dc.tag {
				return &APIError{
					Code:    dc.code,
					Message: err.message,
					Details: map[string]interface{}{err.field: err.value},
				}
			}
		}
	}

	if len(ve.errors) == 0 {
		return &APIError{
			Code:    CodeValidation,
			Message: "Validation failed",
		}
	}

	if len(ve.errors) == 1 {
		err := ve.errors[0]
		return &APIError{
			Code:    CodeValidation,
			Message: err.message,
			Details: map[string]interface{}{
				"field": err.field,
				"tag":   err.tag,
				"value": err.value,
			},
		}
	}

	fields := make([]map[string]interface{}, len(ve.errors))
	messages := make([]string, 0, len(ve.errors))
	for i, err := range ve.errors {
		fields[i] = map[string]interface{}{
			"field":   err.field,
			"tag":     err.tag,
			"message": err.message,
		}
		messages = append(messages, fmt.Sprintf("%s: %s", err.field, err.message))
	}

	return &APIError{
		Code:    CodeValidation,
		Message: strings.Join(messages, "; "),
		Details: map[string]interface{}{
			"fields": fields,
		},
	}
}

// GetValidator returns the singleton validator with the dashboard tags
// registered. Field names in errors come from the `query` struct tag.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, TagPeriod, validatePeriod)
		mustRegister(v, TagCalendarMonth, validateCalendarMonth)
		mustRegister(v, TagActivityMetrics, validateActivityMetrics)

		validate = v
	})

	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// validatePeriod accepts weekly, monthly or yearly in any case.
func validatePeriod(fl validator.FieldLevel) bool {
	_, err := analytics.ParsePeriod(fl.Field().String())
	return err == nil
}

// validateCalendarMonth accepts 1..12.
func validateCalendarMonth(fl validator.FieldLevel) bool {
	m := fl.Field().Int()
	return m >= 1 && m <= 12
}

// validateActivityMetrics checks the shape of a comma-separated metric list.
// Unknown names pass here; the engine drops them.
func validateActivityMetrics(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), ",")
	if len(parts) > maxMetricEntries {
		return false
	}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" && !metricNamePattern.MatchString(part) {
			return false
		}
	}
	return true
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{
				{
					field:   "unknown",
					tag:     "unknown",
					message: err.Error(),
				},
			},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

// errorMessageTemplates maps validation tags to message templates that take
// the field name.
var errorMessageTemplates = map[string]string{
	"required":         "%s is required",
	"alpha":            "%s must contain only letters",
	TagActivityMetrics: "%s must be a comma-separated list of at most 16 metric names",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case TagPeriod:
		return (&analytics.PeriodError{Value: fmt.Sprint(fe.Value())}).Error()
	case TagCalendarMonth:
		return (&analytics.MonthError{Value: intValue(fe.Value())}).Error()
	}

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	return translateMinMax(fe, field, tag, param)
}

// intValue reads an integer field value, through a pointer if needed.
func intValue(v interface{}) int {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	default:
		return 0
	}
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
