package validator

// RequiredSlice validates that a multi-choice value has at least one item.
func RequiredSlice[T any](field string, value []T) Rule {
	return Rule{
		Check: func() bool {
			return len(value) > 0
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeRequired,
			Message: "field is required",
		},
	}
}
