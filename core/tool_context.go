package core

import (
	"context"

	"github.com/hupe1980/recruitmesh/logging"
)

// ToolContext provides a constrained surface for tool implementations invoked
// by an agent: the request context, the session and agent it runs for, and a
// logger. Tools never receive the RunState itself; state changes happen only
// through the Result they return.
type ToolContext struct {
	ctx        context.Context
	sessionID  string
	agentName  string
	toolCallID string

	*loggerAdapter
}

// NewToolContext constructs a tool context for a single tool call.
func NewToolContext(ctx context.Context, sessionID, agentName, toolCallID string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}

	return &ToolContext{
		ctx:           ctx,
		sessionID:     sessionID,
		agentName:     agentName,
		toolCallID:    toolCallID,
		loggerAdapter: newLoggerAdapter(logger),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionID returns the session ID associated with the tool invocation.
func (tc *ToolContext) SessionID() string { return tc.sessionID }

// AgentName returns the name of the agent that issued the call.
func (tc *ToolContext) AgentName() string { return tc.agentName }

// ToolCallID returns the backend-assigned identifier of the call.
func (tc *ToolContext) ToolCallID() string { return tc.toolCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }
