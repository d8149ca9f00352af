package core

import "time"

// EventKind categorizes events streamed from the dispatch loop to its caller.
type EventKind string

const (
	// EventFragment carries a streamed content fragment from the active agent.
	EventFragment EventKind = "fragment"
	// EventToolResult reports the outcome of an action tool call.
	EventToolResult EventKind = "tool_result"
	// EventHandoff reports a change of the active agent.
	EventHandoff EventKind = "handoff"
	// EventStalled reports that the autonomous iteration cap was reached.
	EventStalled EventKind = "stalled"
)

// Event is the unit of communication between the dispatch loop and the session
// driver. Events are emitted synchronously and in order; after emission they
// should be treated as immutable.
type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	Author    string    `json:"author"`           // Agent that produced the event
	Text      string    `json:"text,omitempty"`   // Fragment text, tool result or stall message
	Tool      string    `json:"tool,omitempty"`   // Tool name for tool_result and handoff
	Target    string    `json:"target,omitempty"` // New agent for handoff
	IsError   bool      `json:"is_error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates a bare event of the given kind authored by author.
func NewEvent(kind EventKind, author string) Event {
	return Event{ID: NewID(), Kind: kind, Author: author, Timestamp: time.Now().UTC()}
}

// NewFragmentEvent wraps a streamed content fragment.
func NewFragmentEvent(author, text string) Event {
	e := NewEvent(EventFragment, author)
	e.Text = text
	return e
}

// NewToolResultEvent mirrors a tool turn for display.
func NewToolResultEvent(t Turn) Event {
	e := NewEvent(EventToolResult, t.Author)
	e.Tool = t.ToolName
	e.Text = t.Content
	e.IsError = t.IsError
	return e
}

// NewHandoffEvent describes a recorded transition.
func NewHandoffEvent(tr Transition) Event {
	e := NewEvent(EventHandoff, tr.From)
	e.Tool = tr.Tool
	e.Target = tr.To
	return e
}

// NewStalledEvent reports that the loop gave control back after hitting its cap.
func NewStalledEvent(author, message string) Event {
	e := NewEvent(EventStalled, author)
	e.Text = message
	e.IsError = true
	return e
}
