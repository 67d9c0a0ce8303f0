package store

import "errors"

// Sentinel errors for store operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDuplicateID indicates an insert collided with an existing
	// session ID. With sequence-allocated IDs this points at a caller
	// reusing an ID rather than allocating one.
	ErrDuplicateID = errors.New("duplicate session id")

	// ErrNotFound indicates the requested session does not exist.
	ErrNotFound = errors.New("session not found")
)
