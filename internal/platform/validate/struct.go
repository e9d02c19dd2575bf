// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/idolbase/internal/platform/apperr"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// engine lazily builds the shared validator. Field names in errors are taken
// from json tags so clients see "stageName", not "StageName".
func engine() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
	return structValidator
}

// Struct validates payload against its `validate` struct tags and returns a
// VALIDATION_ERROR listing every failed field, or nil.
func Struct(payload any) error {
	err := engine().Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldError.Field(),
			Message: friendlyMessage(fieldError),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

func friendlyMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum %s characters", fieldError.Param())
	case "max":
		return fmt.Sprintf("Maximum %s characters", fieldError.Param())
	case "url":
		return "Must be a valid URL"
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(fieldError.Param(), " ", ", ")
	case "gte":
		return "Must be greater than or equal to " + fieldError.Param()
	case "lte":
		return "Must be less than or equal to " + fieldError.Param()
	case "hexadecimal", "mongodb":
		return "Must be a valid id"
	default:
		return "Is invalid"
	}
}
