package jobs

import "errors"

var (
	// ErrNotFound indicates the requested job does not exist.
	ErrNotFound = errors.New("job not found")
	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
