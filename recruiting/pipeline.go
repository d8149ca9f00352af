package recruiting

import (
	"errors"
	"fmt"

	"github.com/hupe1980/recruitmesh/agent"
	"github.com/hupe1980/recruitmesh/artifact"
	"github.com/hupe1980/recruitmesh/tool"
)

// DefaultLanguage is the language the personas answer in.
const DefaultLanguage = "German"

// Options configures the pipeline.
type Options struct {
	// Fetcher backs the scrape tool.
	Fetcher Fetcher
	// Store backs the save tool.
	Store artifact.Store
	// Language is passed to every persona instruction.
	Language string
}

// Pipeline bundles the sealed tool registry and the validated agent graph.
type Pipeline struct {
	Registry *tool.Registry
	Graph    *agent.Graph
}

// New builds the recruiting pipeline.
func New(optFns ...func(o *Options)) (*Pipeline, error) {
	opts := Options{Language: DefaultLanguage}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Fetcher == nil {
		return nil, errors.New("recruiting: fetcher is required")
	}

	if opts.Store == nil {
		return nil, errors.New("recruiting: store is required")
	}

	graph := agent.NewGraph(AgentCoordinator)

	registry, err := tool.NewRegistry(NewScrapeTool(opts.Fetcher), NewSaveTool(opts.Store))
	if err != nil {
		return nil, fmt.Errorf("recruiting: %w", err)
	}

	for _, h := range handoffs {
		if err := registry.Register(tool.NewHandoffTool(h.tool, h.description, graph.Resolver(h.target))); err != nil {
			return nil, fmt.Errorf("recruiting: %w", err)
		}
	}

	for _, p := range personas {
		def, err := agent.New(registry, p.name, func(o *agent.Options) {
			o.Description = p.description
			o.Instruction = agent.NewInstructionFromText(p.instruction)
			o.Tools = p.tools
			o.Vars = map[string]any{"Language": opts.Language}
		})
		if err != nil {
			return nil, fmt.Errorf("recruiting: %w", err)
		}

		if err := graph.Add(def); err != nil {
			return nil, fmt.Errorf("recruiting: %w", err)
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("recruiting: %w", err)
	}

	registry.Seal()

	return &Pipeline{Registry: registry, Graph: graph}, nil
}
