package formserver

import "errors"

var (
	ErrSessionNotFound = errors.New("form session not found")
	ErrServerClosed    = errors.New("form server is closed")
)
