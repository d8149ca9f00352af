// Package flow implements the dispatch loop that drives one user turn through
// the agent graph.
//
// For every iteration the loop builds a request for the active agent, streams
// the backend response to a Sink, executes the tool calls it contains and
// applies handoffs. Handoffs chain without user interaction; the first
// iteration that yields no handoff returns control to the caller. A per-run
// ModelLimiter bounds autonomous chaining.
package flow

import (
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/model"
)

// RequestProcessor populates part of the model request before each backend
// invocation.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the request for the given agent and state.
	ProcessRequest(st *core.RunState, req *model.Request, agent core.Agent) error
}

// Sink receives events as the loop produces them. Emit is called
// synchronously from the loop goroutine.
type Sink interface {
	Emit(ev core.Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev core.Event)

// Emit implements Sink.
func (f SinkFunc) Emit(ev core.Event) { f(ev) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(core.Event) {})

// Result summarizes one dispatch loop invocation.
type Result struct {
	// State is the run state after the invocation.
	State *core.RunState
	// Agent is the name of the agent that was active when the loop returned.
	Agent string
	// Text is the content streamed during the invocation, across all agents.
	Text string
	// Iterations counts backend invocations.
	Iterations int
	// Handoffs counts agent switches.
	Handoffs int
	// Stalled is set when the iteration cap forced a return to the caller.
	Stalled bool
}
