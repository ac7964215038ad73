package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// delimiters accepted for edge list input; empty means whitespace
	allowedDelimiters = map[string]bool{"": true, " ": true, ",": true, "\t": true, ";": true, "|": true}
)

func init() {
	validate = validator.New()
	// Tags are registered once on a fresh validator, errors here are programmer errors
	if err := validate.RegisterValidation("weighted", func(fl validator.FieldLevel) bool {
		_, err := ParseWeighted(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		return allowedDelimiters[fl.Field().String()]
	}); err != nil {
		panic(err)
	}
}

// Struct validates v using its `validate` struct tags. Besides the built-in
// tags it understands "weighted" (yes/no flag) and "delimiter".
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateDelimiter checks a delimiter given on the command line.
func ValidateDelimiter(d string) error {
	if !allowedDelimiters[d] {
		return fmt.Errorf("%w: %q", ErrInvalidDelimiter, d)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", field))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, param))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: must be greater than %s", field, param))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must not exceed %s", field, param))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s], got %q", field, param, fmt.Sprint(e.Value())))
		case "weighted":
			msgs = append(msgs, fmt.Sprintf("%s: %v, got %q", field, ErrInvalidWeighted, fmt.Sprint(e.Value())))
		case "delimiter":
			msgs = append(msgs, fmt.Sprintf("%s: %v %q", field, ErrInvalidDelimiter, fmt.Sprint(e.Value())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}

	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
