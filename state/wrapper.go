package state

import (
	"time"

	"github.com/google/uuid"
)

// ActionID is the process-unique identifier of one dispatched action.
type ActionID string

// ActionWrapper pairs an Action with its dispatch identity. Wrappers are
// identity-compared, never content-compared: dispatching the same Action
// twice yields two distinct wrappers.
type ActionWrapper struct {
	ID     ActionID
	Time   time.Time
	Action Action
}

// NewActionWrapper assigns a fresh identity and dispatch timestamp.
func NewActionWrapper(a Action) ActionWrapper {
	return ActionWrapper{
		ID:     ActionID(uuid.NewString()),
		Time:   time.Now().UTC(),
		Action: a,
	}
}

// NewRequestID mints an identifier scoping one network request, so that
// concurrent requests targeting the same address settle independently.
func NewRequestID() string { return uuid.NewString() }
