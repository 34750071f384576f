package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Between validates min <= value <= max.
func Between[T Numeric](field string, value T, min T, max T) Rule {
	return Rule{
		Check: func() bool {
			return value >= min && value <= max
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeRange,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
			Params:  map[string]any{"min": min, "max": max},
		},
	}
}

// FiniteNumber validates that value parses as a finite decimal number.
// Surrounding whitespace is ignored.
func FiniteNumber(field, value string) Rule {
	return Rule{
		Check: func() bool {
			_, ok := ParseFinite(value)
			return ok
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeNumber,
			Message: "must be a number",
		},
	}
}

// ParseFinite parses value as a float and rejects NaN and infinities.
func ParseFinite(value string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
