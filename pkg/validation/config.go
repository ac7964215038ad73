package validation

import (
	"errors"
	"fmt"
)

// ConfigValidator checks rules that span several config fields. It collects
// every failure instead of stopping at the first.
type ConfigValidator struct {
	errors []error
	name   string // prefix of every reported field
}

// NewConfigValidator creates a validator reporting fields as name.field.
func NewConfigValidator(name string) *ConfigValidator {
	return &ConfigValidator{name: name}
}

func (cv *ConfigValidator) addf(field, format string, args ...any) {
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %s", cv.name, field, fmt.Sprintf(format, args...)))
}

// Required fails when value is empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.addf(field, "required field is empty")
	}
	return cv
}

// Paired fails when exactly one of the two values is set.
func (cv *ConfigValidator) Paired(fieldA, a, fieldB, b string) *ConfigValidator {
	switch {
	case a != "" && b == "":
		cv.addf(fieldB, "required when %s is set", fieldA)
	case a == "" && b != "":
		cv.addf(fieldA, "required when %s is set", fieldB)
	}
	return cv
}

// Custom records the error returned by fn, wrapped with the field name.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// When applies validations only if condition holds.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors reports whether any rule failed.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Validate returns all collected errors joined, or nil.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}
