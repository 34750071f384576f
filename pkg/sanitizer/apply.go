package sanitizer

// Apply runs transforms over value in order.
func Apply[T any](value T, transforms ...func(T) T) T {
	for _, transform := range transforms {
		if transform != nil {
			value = transform(value)
		}
	}
	return value
}

// Compose builds a single transform from several, applied left to right.
func Compose[T any](transforms ...func(T) T) func(T) T {
	return func(value T) T {
		return Apply(value, transforms...)
	}
}
