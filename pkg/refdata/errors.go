package refdata

import "errors"

var (
	// ErrInvalidReference is returned when reference data fails to decode or validate.
	ErrInvalidReference = errors.New("invalid reference data")

	// ErrDuplicateCountry is returned when a country code appears twice.
	ErrDuplicateCountry = errors.New("duplicate country code")
)
