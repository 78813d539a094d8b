package lifecycle

import (
	"errors"
	"fmt"
)

// ValidationError is raised synchronously, before any Order Sink call.
// A failed validation blocks the action entirely; no side effects occur.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SinkFailure reports a rejected Order Sink call. Cart and ticket state
// are left exactly as they were before the call.
type SinkFailure struct {
	Action Action
	Err    error
}

func (e *SinkFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *SinkFailure) Unwrap() error {
	return e.Err
}

// ErrStaleSnapshot marks a sink result that resolved after the cart
// generation it targeted no longer existed. The result is discarded and
// logged; no state is applied.
var ErrStaleSnapshot = errors.New("result resolved against a stale cart generation")

// ErrActionInFlight is returned by callers that consult the in-flight
// flag before dispatching another call of the same kind.
var ErrActionInFlight = errors.New("action already in flight")
