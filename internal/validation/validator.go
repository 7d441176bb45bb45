// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cinegraph/internal/models"
)

// Search fields accepted by the film search "by" parameter.
const (
	SearchByTitle       = "title"
	SearchByDescription = "description"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field returns the JSON name of the field that failed validation.
func (e *FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the parameter of the tag (e.g. "200" for "max=200").
func (e *FieldError) Param() string { return e.param }

// Value returns the rejected value.
func (e *FieldError) Value() interface{} { return e.value }

func (e *FieldError) Error() string { return e.message }

// RequestValidationError collects every field failure of one request.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual field failures.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

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

// GetValidator returns the singleton validator instance.
// The validator is initialized once with custom validators and options.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("date", validateDate)
		mustRegister("notblank", validateNotBlank)
		mustRegister("nospace", validateNoSpace)
		mustRegister("releasedate", validateReleaseDate)
		mustRegister("pastdate", validatePastDate)
		mustRegister("searchby", validateSearchBy)
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// ValidateStruct validates s with the singleton validator. It returns nil
// when validation passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = FieldError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateNoSpace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func validateDate(fl validator.FieldLevel) bool {
	_, ok := fieldTime(fl.Field())
	return ok
}

// validateReleaseDate accepts a date string or time.Time no earlier than
// the first public film screening.
func validateReleaseDate(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl.Field())
	return ok && !t.Before(models.EarliestReleaseDate)
}

func validatePastDate(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl.Field())
	return ok && !t.After(time.Now())
}

func validateSearchBy(fl validator.FieldLevel) bool {
	_, _, err := SearchFields(fl.Field().String())
	return err == nil
}

// SearchFields parses a comma separated list of search fields.
func SearchFields(by string) (byTitle, byDescription bool, err error) {
	for _, field := range strings.Split(by, ",") {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case SearchByTitle:
			byTitle = true
		case SearchByDescription:
			byDescription = true
		default:
			return false, false, fmt.Errorf("unknown search field %q", field)
		}
	}
	return byTitle, byDescription, nil
}

func fieldTime(v reflect.Value) (time.Time, bool) {
	switch val := v.Interface().(type) {
	case time.Time:
		return val, true
	case string:
		t, err := ParseDate(val)
		return t, err == nil
	}
	return time.Time{}, false
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":    "%s is required",
	"date":        "%s must be a date (YYYY-MM-DD or RFC 3339)",
	"notblank":    "%s must not be blank",
	"nospace":     "%s must not contain whitespace",
	"pastdate":    "%s must be a date (YYYY-MM-DD) not in the future",
	"searchby":    "%s must be a comma-separated list of title, description",
	"releasedate": "%s must be a date (YYYY-MM-DD) not before " + models.EarliestReleaseDate.Format(time.DateOnly),
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"contains": "%s must contain %q",
	"oneof":    "%s must be one of: %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"gt":       "%s must be greater than %s",
	"lt":       "%s must be less than %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

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
