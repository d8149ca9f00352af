package session

import (
	"sort"
	"sync"

	"github.com/hupe1980/recruitmesh/core"
)

type entry struct {
	mu    sync.Mutex // serializes turns
	state *core.RunState
}

// InMemoryStore is a volatile Store keeping run states in a process local
// map. It is safe for concurrent access.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*entry)}
}

// Acquire implements Store.
func (s *InMemoryStore) Acquire(sessionID string, agent core.Agent) (*core.RunState, func()) {
	e := s.getOrCreate(sessionID, agent)
	e.mu.Lock()

	var once sync.Once

	return e.state, func() { once.Do(e.mu.Unlock) }
}

// Get implements Store.
func (s *InMemoryStore) Get(sessionID string) (*core.RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.sessions[sessionID]; ok {
		return e.state, nil
	}

	return nil, ErrNotFound
}

// Delete implements Store.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// IDs implements Store.
func (s *InMemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (s *InMemoryStore) getOrCreate(sessionID string, agent core.Agent) *entry {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[sessionID]; ok {
		return e
	}

	e = &entry{state: core.NewRunState(sessionID, agent)}
	s.sessions[sessionID] = e

	return e
}

var _ Store = (*InMemoryStore)(nil)
