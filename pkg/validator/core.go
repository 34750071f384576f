package validator

import (
	"errors"
	"fmt"
	"strings"
)

// Failure codes attached to ValidationError.Code by the built-in rules.
const (
	CodeRequired    = "required"
	CodeMinLength   = "min_length"
	CodeExactLength = "exact_length"
	CodeFormat      = "format"
	CodeNotAllowed  = "not_allowed"
	CodeRange       = "range"
	CodeNumber      = "number"
	CodeUppercase   = "uppercase"
	CodeDigit       = "digit"
	CodeEqual       = "equal"
	CodeAccepted    = "accepted"
)

type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValidationError represents a single failed rule.
type ValidationError struct {
	Field   string
	Code    string
	Message string
	Params  map[string]any
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, err.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports ErrValidationFailed so callers can match any validation failure.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidationFailed
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// WithMessage returns a copy of the rule reporting msg on failure.
func (r Rule) WithMessage(msg string) Rule {
	r.Error.Message = msg
	return r
}

// WithCode returns a copy of the rule reporting code on failure.
func (r Rule) WithCode(code string) Rule {
	r.Error.Code = code
	return r
}

// Apply executes every rule and returns all failures as ValidationErrors.
func Apply(rules ...Rule) error {
	var errs ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}

	if errs.IsEmpty() {
		return nil
	}

	return errs
}

// First executes rules in order and stops at the first failure.
// Later rules may therefore assume earlier ones passed (e.g. a format rule
// following Required never sees an empty value).
func First(rules ...Rule) (ValidationError, bool) {
	for _, rule := range rules {
		if !rule.Check() {
			return rule.Error, false
		}
	}
	return ValidationError{}, true
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
