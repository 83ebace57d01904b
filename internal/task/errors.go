package task

import "errors"

// Sentinel errors for the task domain. Callers match with errors.Is;
// the adapter and service layers wrap these with context via fmt.Errorf.
var (
	// ErrValidation indicates malformed input (empty title, bad field value).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced task or checklist item id does not resolve.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidStatus indicates a status value outside the known lifecycle.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidFilter indicates an unrecognized task filter.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidTransition indicates the backend's workflow offers no
	// transition to the requested status. The in-process trackers are
	// permissive and never return it.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrBackendUnavailable indicates the issue tracker could not be reached
	// or answered with a server-side failure.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
