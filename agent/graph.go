package agent

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/tool"
)

// Edge is one handoff between two personas.
type Edge struct {
	From string
	Tool string
	To   string
}

// Graph is the set of personas of one pipeline together with its entry
// point. Handoff edges may form cycles.
type Graph struct {
	mu    sync.RWMutex
	entry string
	order []string
	defs  map[string]*Definition
}

// NewGraph creates an empty graph whose entry persona is named entry.
func NewGraph(entry string) *Graph {
	return &Graph{entry: entry, defs: map[string]*Definition{}}
}

// Add registers definitions. Names must be unique within the graph.
func (g *Graph) Add(defs ...*Definition) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, d := range defs {
		if d == nil {
			return errors.New("add agent: nil definition")
		}

		if _, exists := g.defs[d.Name()]; exists {
			return fmt.Errorf("agent %q is already part of the graph", d.Name())
		}

		g.defs[d.Name()] = d
		g.order = append(g.order, d.Name())
	}

	return nil
}

// Get returns the named definition.
func (g *Graph) Get(name string) (*Definition, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.defs[name]
	return d, ok
}

// Resolver returns a lazy lookup suitable for tool.NewHandoffTool. It yields
// nil until the named agent has been added.
func (g *Graph) Resolver(name string) func() core.Agent {
	return func() core.Agent {
		if d, ok := g.Get(name); ok {
			return d
		}
		return nil
	}
}

// Entry returns the entry persona.
func (g *Graph) Entry() (*Definition, error) {
	if g.entry == "" {
		return nil, ErrEmptyName
	}

	d, ok := g.Get(g.entry)
	if !ok {
		return nil, &UnknownAgentError{Name: g.entry}
	}

	return d, nil
}

// Agents returns definitions in insertion order.
func (g *Graph) Agents() []*Definition {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Definition, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.defs[name])
	}

	return out
}

// Edges lists every handoff edge in declaration order.
func (g *Graph) Edges() []Edge {
	var edges []Edge

	for _, d := range g.Agents() {
		for _, t := range d.AllowedTools() {
			h, ok := t.(*tool.HandoffTool)
			if !ok {
				continue
			}

			e := Edge{From: d.Name(), Tool: h.Name()}
			if target := h.Target(); target != nil {
				e.To = target.Name()
			}

			edges = append(edges, e)
		}
	}

	return edges
}

// Validate checks that the entry persona exists and that every handoff
// target resolves to a member of the graph.
func (g *Graph) Validate() error {
	if _, err := g.Entry(); err != nil {
		return fmt.Errorf("graph entry: %w", err)
	}

	var errs []error

	for _, e := range g.Edges() {
		if e.To == "" {
			errs = append(errs, fmt.Errorf("agent %q: handoff %q has no target", e.From, e.Tool))
			continue
		}

		if _, ok := g.Get(e.To); !ok {
			errs = append(errs, fmt.Errorf("agent %q: handoff %q: %w", e.From, e.Tool, &UnknownAgentError{Name: e.To}))
		}
	}

	return errors.Join(errs...)
}
