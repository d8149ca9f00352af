package tool

import (
	"fmt"

	"github.com/hupe1980/recruitmesh/core"
)

// HandoffTool is a parameterless tool whose only effect is to name the agent
// that should answer next. The target is resolved lazily so agents can refer
// to each other in cycles before all of them exist.
type HandoffTool struct {
	name        string
	description string
	target      func() core.Agent
}

// NewHandoffTool constructs a handoff tool. The target func is evaluated on
// every call.
func NewHandoffTool(name, description string, target func() core.Agent) *HandoffTool {
	return &HandoffTool{name: name, description: description, target: target}
}

// TransferToolName returns the conventional tool name for handing off to agent.
func TransferToolName(agent string) string { return "transfer_to_" + agent }

// Name returns the tool name.
func (t *HandoffTool) Name() string { return t.name }

// Description returns the description shown to the model.
func (t *HandoffTool) Description() string { return t.description }

// Parameters returns an empty object schema.
func (t *HandoffTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Target returns the agent this tool transfers to, or nil if unresolved.
func (t *HandoffTool) Target() core.Agent {
	if t.target == nil {
		return nil
	}
	return t.target()
}

// Call returns a HandoffResult naming the target agent. Arguments are ignored.
func (t *HandoffTool) Call(tc *core.ToolContext, _ map[string]any) (core.Result, error) {
	target := t.Target()
	if target == nil {
		return nil, NewToolError(t.name, "handoff target is not configured", CodeExecution)
	}

	tc.LogInfo("tool.transfer.request", "from_agent", tc.AgentName(), "to_agent", target.Name(), "call_id", tc.ToolCallID())

	return core.HandoffTo(target), nil
}

var _ Tool = (*HandoffTool)(nil)
var _ Tool = (*FunctionTool)(nil)

// Describe returns a one-line summary of a tool for listings.
func Describe(t Tool) string {
	if h, ok := t.(*HandoffTool); ok {
		if target := h.Target(); target != nil {
			return fmt.Sprintf("%s -> %s", h.Name(), target.Name())
		}
	}
	return t.Name()
}
