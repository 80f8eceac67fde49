// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports request fields that are missing or malformed.
// Handlers map it to 422 Unprocessable Entity.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a problem with a field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// OrNil returns e when at least one field failed, nil otherwise
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a single-field ValidationError
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var validate = newValidator()

// newValidator reports fields by their JSON names and adds the quiz rules
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("onecorrect", func(fl validator.FieldLevel) bool {
		choices, ok := fl.Field().Interface().([]Answer)
		if !ok {
			return false
		}
		for _, a := range choices {
			if a.IsCorrect {
				return true
			}
		}
		return false
	})
	return v
}

// fieldMessage turns a failed rule into the message shown to clients
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " is malformed"
	case "min":
		return "at least one choice is required"
	case "onecorrect":
		return "at least one choice must be marked correct"
	}
	return fe.Field() + " is invalid"
}

// checkStruct runs the tag rules on s and converts failures into *ValidationError.
// Keys drop the struct name, e.g. "questions[0].possibleChoices".
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	v := &ValidationError{}
	for _, fe := range fieldErrs {
		_, key, found := strings.Cut(fe.Namespace(), ".")
		if !found {
			key = fe.Field()
		}
		v.Add(key, fieldMessage(fe))
	}
	return v.OrNil()
}

// Validate checks a registration request. The email is checked after normalization.
func (r CreateUserRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return checkStruct(r)
}

// Validate checks a quiz body before it is written.
// Every question needs text and at least one choice, one of them correct,
// otherwise the quiz cannot be scored.
func (r QuizRequest) Validate() error {
	return checkStruct(r)
}
