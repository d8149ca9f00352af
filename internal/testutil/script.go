package testutil

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/model"
)

// Say builds a scripted step that streams the given fragments.
func Say(fragments ...string) model.Step {
	return model.Step{Fragments: fragments}
}

// Handoff builds a scripted step that calls the named handoff tool.
func Handoff(toolName string) model.Step {
	return model.Step{Calls: []core.ToolCall{Call(toolName, nil)}}
}

// Calls builds a scripted step that issues the given calls in order.
func Calls(calls ...core.ToolCall) model.Step {
	return model.Step{Calls: calls}
}

// Call builds a tool call with JSON-encoded args and a deterministic ID.
func Call(name string, args map[string]any) core.ToolCall {
	raw := ""
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			panic(fmt.Sprintf("testutil: marshal args: %v", err))
		}
		raw = string(b)
	}

	return core.ToolCall{ID: "call_" + name, Name: name, Arguments: raw}
}

// AlwaysHandoff returns a responder that answers every request with a call
// to the handoff tool offered to the active agent.
func AlwaysHandoff() model.Responder {
	return func(req model.Request, n int) model.Step {
		if len(req.Tools) == 0 {
			return model.Step{Fragments: []string{"no tools"}}
		}
		return model.Step{Calls: []core.ToolCall{{ID: fmt.Sprintf("call_%d", n), Name: req.Tools[0].Function.Name}}}
	}
}

// RecordingSink captures every emitted event. It is safe for concurrent use.
type RecordingSink struct {
	mu     sync.Mutex
	events []core.Event
}

// Emit records ev.
func (s *RecordingSink) Emit(ev core.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (s *RecordingSink) Events() []core.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Event(nil), s.events...)
}

// Kinds returns the recorded event kinds in order.
func (s *RecordingSink) Kinds() []core.EventKind {
	var kinds []core.EventKind
	for _, ev := range s.Events() {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

// Text concatenates all recorded fragment texts.
func (s *RecordingSink) Text() string {
	var out string
	for _, ev := range s.Events() {
		if ev.Kind == core.EventFragment {
			out += ev.Text
		}
	}
	return out
}

// Count returns how many events of kind were recorded.
func (s *RecordingSink) Count(kind core.EventKind) int {
	n := 0
	for _, ev := range s.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}
