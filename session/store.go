package session

import (
	"errors"

	"github.com/hupe1980/recruitmesh/core"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store manages run states by session ID.
type Store interface {
	// Acquire returns the session's run state, creating it with entry as the
	// active agent when absent, and blocks until the caller holds the session
	// exclusively. The returned release func must be called exactly once.
	Acquire(sessionID string, entry core.Agent) (*core.RunState, func())
	// Get returns an existing run state without taking the lease.
	Get(sessionID string) (*core.RunState, error)
	// Delete forgets a session.
	Delete(sessionID string)
	// IDs lists known sessions.
	IDs() []string
}
