package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/recruitmesh/core"
)

// ErrScriptExhausted is reported when a ScriptedModel has no response left.
var ErrScriptExhausted = errors.New("scripted model: no response left")

// Step is one canned backend response.
type Step struct {
	// Fragments are streamed as content events in order.
	Fragments []string
	// Calls are emitted after all fragments, in order.
	Calls []core.ToolCall
	// Err, when set, is reported after the fragments instead of the calls.
	Err error
}

// Responder computes a response from the request and the zero-based call index.
type Responder func(req Request, n int) Step

// ScriptedModel is a deterministic in-memory Model useful for tests and
// offline demos. It records every request it receives.
type ScriptedModel struct {
	mu        sync.Mutex
	info      Info
	steps     []Step
	responder Responder
	requests  []Request
}

// NewScriptedModel returns a model that replays steps in order.
func NewScriptedModel(steps ...Step) *ScriptedModel {
	return &ScriptedModel{
		info:  Info{Name: "scripted", Provider: "scripted", SupportsTools: true},
		steps: steps,
	}
}

// NewResponderModel returns a model that computes every response with fn.
func NewResponderModel(fn Responder) *ScriptedModel {
	m := NewScriptedModel()
	m.responder = fn
	return m
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Event, <-chan error) {
	out := make(chan Event, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	n := len(m.requests)
	m.requests = append(m.requests, cloneRequest(req))

	var (
		step Step
		ok   = true
	)

	switch {
	case m.responder != nil:
		step = m.responder(req, n)
	case n < len(m.steps):
		step = m.steps[n]
	default:
		ok = false
	}
	m.mu.Unlock()

	go func() {
		defer close(out)
		defer close(errCh)

		if !ok {
			errCh <- fmt.Errorf("%w (call %d)", ErrScriptExhausted, n+1)
			return
		}

		send := func(ev Event) bool {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return false
			case out <- ev:
				return true
			}
		}

		for _, f := range step.Fragments {
			if !send(ContentEvent(f)) {
				return
			}
		}

		if step.Err != nil {
			errCh <- step.Err
			return
		}

		for _, c := range step.Calls {
			if !send(ToolCallEvent(c)) {
				return
			}
		}

		finish := "stop"
		if len(step.Calls) > 0 {
			finish = "tool_calls"
		}

		send(EndEvent(finish))
	}()

	return out, errCh
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }

// Requests returns every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Calls returns how many times Generate was invoked.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func cloneRequest(req Request) Request {
	req.History = append([]core.Turn(nil), req.History...)
	req.Tools = append([]ToolDefinition(nil), req.Tools...)
	return req
}
