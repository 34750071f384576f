package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required validates that a string is not empty after trimming whitespace.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeRequired,
			Message: "field is required",
		},
	}
}

// NotEmpty validates that a string has at least one character. Whitespace counts.
func NotEmpty(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return value != ""
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeRequired,
			Message: "field is required",
		},
	}
}

// MinLen validates the length of a string in characters, not bytes.
func MinLen(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeMinLength,
			Message: fmt.Sprintf("must be at least %d characters long", min),
			Params:  map[string]any{"min": min},
		},
	}
}

func Len(field, value string, exact int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) == exact
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeExactLength,
			Message: fmt.Sprintf("must be exactly %d characters long", exact),
			Params:  map[string]any{"length": exact},
		},
	}
}
