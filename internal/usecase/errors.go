package usecase

import "errors"

var (
	// ErrInvalidInput marks caller mistakes (bad parameters, out-of-range values).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrDependencyUnavailable marks a backing service that could not be reached.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
