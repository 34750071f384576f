package validator

// Set is a read-only membership test, satisfied by lookup tables such as
// reference-data domain lists.
type Set[T comparable] interface {
	Contains(T) bool
}

// NotInSet validates that value is not a member of set. A nil set allows everything.
func NotInSet[T comparable](field string, value T, set Set[T]) Rule {
	return Rule{
		Check: func() bool {
			return set == nil || !set.Contains(value)
		},
		Error: ValidationError{
			Field:   field,
			Code:    CodeNotAllowed,
			Message: "value is not allowed",
			Params:  map[string]any{"value": value},
		},
	}
}
