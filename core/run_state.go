package core

import (
	"sync"
	"time"
)

// Transition records one handoff between agents.
type Transition struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Tool string    `json:"tool"`
	At   time.Time `json:"at"`
}

// RunState is the mutable state of one session: the active agent and the
// conversation history. It is owned by the session driver; the dispatch loop
// mutates it in place for the duration of one invocation and never keeps a
// reference afterwards.
type RunState struct {
	SessionID string
	History   *History
	Created   time.Time

	mu          sync.RWMutex
	activeAgent Agent
	transitions []Transition
}

// NewRunState creates a session with the entry agent and an empty history.
func NewRunState(sessionID string, entry Agent) *RunState {
	return &RunState{
		SessionID:   sessionID,
		History:     NewHistory(),
		Created:     time.Now().UTC(),
		activeAgent: entry,
	}
}

// ActiveAgent returns the agent currently answering.
func (s *RunState) ActiveAgent() Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeAgent
}

// AppendUserInput appends a user turn and returns it.
func (s *RunState) AppendUserInput(text string) Turn {
	t := NewUserTurn(text)
	s.History.Append(t)
	return t
}

// HandOff switches the active agent and records the transition. Calling a
// handoff tool is the only sanctioned path into this method.
func (s *RunState) HandOff(to Agent, via string) Transition {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr := Transition{To: to.Name(), Tool: via, At: time.Now().UTC()}
	if s.activeAgent != nil {
		tr.From = s.activeAgent.Name()
	}

	s.activeAgent = to
	s.transitions = append(s.transitions, tr)

	return tr
}

// Transitions returns a copy of all recorded handoffs.
func (s *RunState) Transitions() []Transition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transition(nil), s.transitions...)
}
