// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Package validation wraps go-playground/validator with Singwise-specific
// rules and human-readable error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// decadePattern matches decade labels like "1980s" or "2010s".
var decadePattern = regexp.MustCompile(`^(19|20)\d0s$`)

// instance returns the shared validator, registering custom rules on first use.
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// JSON tag names in error messages instead of Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// decade validates labels like "1980s".
		//nolint:errcheck // registration only fails for empty tag names
		validate.RegisterValidation("decade", func(fl validator.FieldLevel) bool {
			return decadePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates a struct and returns a human-readable error describing
// the first failed field, or nil if the struct is valid.
func Struct(s interface{}) error {
	if err := instance().Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(translateError(verrs[0]))
		}
		return err
	}
	return nil
}

// translateError converts a validator field error to a readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "decade":
		return fmt.Sprintf("%s must be a decade label like 1980s", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid element", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
