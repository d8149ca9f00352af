package agent

import (
	"errors"
	"fmt"
)

// ErrEmptyName is returned when an agent or graph entry has no name.
var ErrEmptyName = errors.New("agent name must not be empty")

// ToolNotAllowedError is returned when an agent references a tool that exists
// in the registry but is not part of its allowed set.
type ToolNotAllowedError struct {
	Agent string
	Tool  string
}

func (e *ToolNotAllowedError) Error() string {
	return fmt.Sprintf("tool %q is not allowed for agent %q", e.Tool, e.Agent)
}

// UnknownAgentError is returned when a graph lookup or handoff edge names an
// agent that is not part of the graph.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent %q", e.Name)
}
