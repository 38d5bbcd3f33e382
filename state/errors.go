package state

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized reports a network operation attempted before
	// InitNetwork has completed.
	ErrNotInitialized = errors.New("state: network not initialized")

	// ErrTimeout reports that a request did not settle within its deadline.
	// Recoverable: callers may retry with a fresh request ID.
	ErrTimeout = errors.New("state: request timed out")

	// ErrNotInChain reports a publish of an address the source chain does
	// not hold.
	ErrNotInChain = errors.New("state: entry not found in source chain")
)

// ResponseError reports a malformed or unexpected-shape peer payload. It is
// stored as the settled value of the affected correlation entry, never
// dropped and never a panic.
type ResponseError struct {
	Op    string
	Cause error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("state: malformed peer response for %s: %v", e.Op, e.Cause)
}

func (e *ResponseError) Unwrap() error { return e.Cause }
