package domain

import "errors"

// Error taxonomy for the verification workflow. NotFound and Conflict values
// are business outcomes surfaced to callers and never retried automatically;
// ErrStorageUnavailable marks transient infrastructure failures that abort
// the whole operation and may be retried by the caller.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("verification request not found")
	ErrProfileNotFound = errors.New("tutor profile not found")

	// ErrDuplicateRequest: the user already has a verification request,
	// regardless of its state.
	ErrDuplicateRequest = errors.New("user already has a verification request")

	// ErrInvalidStateTransition: the request is terminal and cannot be
	// decided again.
	ErrInvalidStateTransition = errors.New("verification request already decided")

	ErrInvalidInput = errors.New("invalid input")

	ErrStorageUnavailable = errors.New("storage unavailable")
)
