package agent

import (
	"fmt"
	"time"

	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/internal/util"
	"github.com/hupe1980/recruitmesh/tool"
)

// Options configures a Definition.
type Options struct {
	// Description is a short summary used in listings and handoff descriptions.
	Description string
	// Instruction is the directive presented to the backend. Its text is
	// rendered as a text/template with .Agent, .SessionID, .Date and Vars.
	Instruction Instruction
	// Tools lists allowed tool names in the order they are offered to the model.
	Tools []string
	// Vars are extra template variables available to the instruction.
	Vars map[string]any
}

// Definition is an immutable persona. It implements core.Agent.
type Definition struct {
	name        string
	description string
	instruction Instruction
	vars        map[string]any
	tools       []core.Tool
	allowed     map[string]struct{}
}

// New creates a Definition whose allowed tools are resolved from registry.
// Every listed tool must already be registered.
func New(registry *tool.Registry, name string, optFns ...func(o *Options)) (*Definition, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	opts := Options{
		Description: fmt.Sprintf("Agent %s", name),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	d := &Definition{
		name:        name,
		description: opts.Description,
		instruction: opts.Instruction,
		vars:        make(map[string]any, len(opts.Vars)),
		tools:       make([]core.Tool, 0, len(opts.Tools)),
		allowed:     make(map[string]struct{}, len(opts.Tools)),
	}

	for k, v := range opts.Vars {
		d.vars[k] = v
	}

	for _, toolName := range opts.Tools {
		if _, dup := d.allowed[toolName]; dup {
			continue
		}

		if registry == nil {
			return nil, fmt.Errorf("agent %q: %w", name, &tool.UnknownToolError{Name: toolName})
		}

		t, err := registry.Resolve(toolName)
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", name, err)
		}

		d.tools = append(d.tools, t)
		d.allowed[toolName] = struct{}{}
	}

	return d, nil
}

// Must is New that panics on error, for static persona tables.
func Must(d *Definition, err error) *Definition {
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the persona name.
func (d *Definition) Name() string { return d.name }

// Description returns the persona description.
func (d *Definition) Description() string { return d.description }

// Instructions resolves and renders the instruction for the given state.
func (d *Definition) Instructions(st *core.RunState) (string, error) {
	text, err := d.instruction.Resolve(st)
	if err != nil {
		return "", fmt.Errorf("agent %q: resolve instruction: %w", d.name, err)
	}

	vars := make(map[string]any, len(d.vars)+3)
	for k, v := range d.vars {
		vars[k] = v
	}

	vars["Agent"] = d.name
	vars["Date"] = time.Now().Format("2006-01-02")

	if st != nil {
		vars["SessionID"] = st.SessionID
	}

	out, err := util.RenderTemplate(text, vars)
	if err != nil {
		return "", fmt.Errorf("agent %q: %w", d.name, err)
	}

	return out, nil
}

// AllowedTools returns the allowed tools in declaration order.
func (d *Definition) AllowedTools() []core.Tool {
	return append([]core.Tool(nil), d.tools...)
}

// Allows reports whether name is in the allowed set.
func (d *Definition) Allows(name string) bool {
	_, ok := d.allowed[name]
	return ok
}

// Tool returns the allowed tool with the given name.
func (d *Definition) Tool(name string) (core.Tool, error) {
	if !d.Allows(name) {
		return nil, &ToolNotAllowedError{Agent: d.name, Tool: name}
	}

	for _, t := range d.tools {
		if t.Name() == name {
			return t, nil
		}
	}

	return nil, &ToolNotAllowedError{Agent: d.name, Tool: name}
}

var _ core.Agent = (*Definition)(nil)
