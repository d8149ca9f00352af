package core

import "sync"

// History is the ordered, append-only conversation log shared across a pipeline
// run. It is replayed verbatim into every completion request, so ordering is
// significant. Turns are copied in and out; callers never alias internal state.
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewHistory creates a history pre-populated with turns (copied).
func NewHistory(turns ...Turn) *History {
	h := &History{turns: make([]Turn, 0, len(turns))}
	for _, t := range turns {
		h.turns = append(h.turns, t.clone())
	}
	return h
}

// Append adds a turn to the end of the log.
func (h *History) Append(t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, t.clone())
}

// Turns returns a snapshot of all turns in order.
func (h *History) Turns() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Turn, len(h.turns))
	for i, t := range h.turns {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Last returns the most recent turn and false when the history is empty.
func (h *History) Last() (Turn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.turns) == 0 {
		return Turn{}, false
	}
	return h.turns[len(h.turns)-1].clone(), true
}

