package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyTable    = errors.New("empty table")
	ErrInvalidInput  = errors.New("invalid input")
)
