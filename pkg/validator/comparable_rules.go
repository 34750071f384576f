package validator

// Equal validates that value equals other, e.g. a confirmation field.
func Equal[T comparable](field string, value, other T) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeEqual,
			Message: "values do not match",
		},
	}
}

// Accepted validates that a boolean flag such as a consent checkbox is set.
func Accepted(field string, value bool) Rule {
	return Rule{
		Check: func() bool {
			return value
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeAccepted,
			Message: "must be accepted",
		},
	}
}
