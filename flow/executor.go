package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/hupe1980/recruitmesh/agent"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/tool"
)

// Outcome is the result of executing one tool call.
type Outcome struct {
	Call   core.ToolCall
	Result core.Result
	Err    error
}

// Executor resolves and runs a single tool call on behalf of the active agent.
// Implementations must never panic and must return an Outcome for every call.
type Executor interface {
	Execute(ctx context.Context, st *core.RunState, active core.Agent, call core.ToolCall) Outcome
}

// sequentialExecutor resolves calls against the global registry and the
// agent's allowed set and runs them inline.
type sequentialExecutor struct {
	registry *tool.Registry
	logger   logging.Logger
}

// NewSequentialExecutor constructs the default executor.
func NewSequentialExecutor(registry *tool.Registry, logger logging.Logger) Executor {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &sequentialExecutor{registry: registry, logger: logger}
}

func (e *sequentialExecutor) Execute(ctx context.Context, st *core.RunState, active core.Agent, call core.ToolCall) Outcome {
	out := Outcome{Call: call}

	impl, err := e.resolve(active, call.Name)
	if err != nil {
		e.logger.Warn("flow.tool.rejected", "agent", active.Name(), "tool", call.Name, "error", err.Error())
		out.Err = err
		return out
	}

	toolCtx := core.NewToolContext(ctx, st.SessionID, active.Name(), call.ID, e.logger)

	start := time.Now()
	func() { // panic safety
		defer func() {
			if r := recover(); r != nil {
				out.Result = nil
				out.Err = panicError(call.Name, r)
				e.logger.Error("flow.tool.panic", "agent", active.Name(), "tool", call.Name, "recover", r)
			}
		}()
		out.Result, out.Err = executeTool(impl, toolCtx, call.Arguments)
	}()

	e.logger.Info(
		"flow.tool.executed",
		"agent", active.Name(),
		"tool", call.Name,
		"call_id", call.ID,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", out.Err != nil,
	)

	return out
}

// toolLookup is implemented by agents that index their allowed set, such as
// *agent.Definition.
type toolLookup interface {
	Tool(name string) (core.Tool, error)
}

// resolve checks the global registry first, then the agent's allowed set.
func (e *sequentialExecutor) resolve(active core.Agent, name string) (core.Tool, error) {
	if e.registry != nil {
		if _, err := e.registry.Resolve(name); err != nil {
			return nil, err
		}
	}

	if l, ok := active.(toolLookup); ok {
		return l.Tool(name)
	}

	for _, t := range active.AllowedTools() {
		if t.Name() == name {
			return t, nil
		}
	}

	return nil, &agent.ToolNotAllowedError{Agent: active.Name(), Tool: name}
}

// panicError converts a recovered panic value to a tool error carrying the stack.
func panicError(toolName string, r any) error {
	return &tool.ToolError{
		Tool:    toolName,
		Message: fmt.Sprintf("panic recovered: %v", r),
		Code:    tool.CodePanic,
		Details: string(debug.Stack()),
	}
}

// executeTool decodes the JSON arguments and calls the tool.
func executeTool(impl core.Tool, toolCtx *core.ToolContext, args string) (core.Result, error) {
	var argMap map[string]any
	if args == "" {
		argMap = map[string]any{}
	} else if err := json.Unmarshal([]byte(args), &argMap); err != nil {
		return nil, &tool.ToolError{
			Tool:    impl.Name(),
			Message: fmt.Sprintf("failed to unmarshal args: %v", err),
			Code:    tool.CodeValidation,
			Details: err,
		}
	}

	if argMap == nil { // literal "null"
		argMap = map[string]any{}
	}

	return impl.Call(toolCtx, argMap)
}
