package form

import "errors"

var (
	// ErrUnknownField is returned for a field id outside the fixed field set.
	ErrUnknownField = errors.New("unknown form field")

	// ErrNilSurface is returned by New when no surface is supplied.
	ErrNilSurface = errors.New("form surface is required")
)
