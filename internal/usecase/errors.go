package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrAccessDenied          = errors.New("access denied by provider")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrInconsistentCheckpoint means the persisted previous and current
	// tables no longer line up and the run must stop.
	ErrInconsistentCheckpoint = errors.New("inconsistent checkpoint")
)
