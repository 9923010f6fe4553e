package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidRule   = errors.New("invalid rule")
	ErrInvalidConfig = errors.New("invalid configuration")
)
