package core

// Agent is a named persona: instruction text plus the ordered subset of tools
// it may invoke. Implementations are immutable after construction and safe to
// share across sessions.
type Agent interface {
	// Name returns the unique persona name.
	Name() string
	// Description is a short summary used in handoff tool descriptions.
	Description() string
	// Instructions returns the system-level directive presented to the backend
	// for the given run state.
	Instructions(state *RunState) (string, error)
	// AllowedTools returns the tools this agent may call, in declaration order.
	AllowedTools() []Tool
}

// Tool is a callable capability exposed to the completion backend.
//
// Two kinds exist, distinguished by the Result they return rather than by name:
// action tools return TextResult after performing a side effect, handoff tools
// return HandoffResult and never touch the outside world.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description is shown to the model to explain when to use the tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with decoded arguments.
	Call(toolCtx *ToolContext, args map[string]any) (Result, error)
}
