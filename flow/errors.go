package flow

import (
	"errors"
	"fmt"
)

// ErrSessionStalled is returned when agents keep handing off to each other
// until the iteration cap is reached without yielding to the user.
var ErrSessionStalled = errors.New("session stalled: autonomous iteration limit reached")

// BackendError reports a transport failure of the completion backend. Nothing
// from the failed response is written to history, so the session can resume
// on the next input.
type BackendError struct {
	Agent string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("completion backend failed for agent %q: %v", e.Agent, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
