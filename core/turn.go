package core

import "time"

// Role identifies the producer of a Turn.
type Role string

const (
	// RoleUser marks input typed by the human operator.
	RoleUser Role = "user"
	// RoleAssistant marks aggregated model output for one backend response.
	RoleAssistant Role = "assistant"
	// RoleTool marks the result of one action tool call.
	RoleTool Role = "tool"
)

// ToolCall describes a tool invocation requested by the completion backend.
type ToolCall struct {
	ID        string `json:"id,omitempty"`        // Correlates the call with its tool Turn
	Name      string `json:"name"`                // Tool name as declared to the backend
	Arguments string `json:"arguments,omitempty"` // Serialized JSON argument object
}

// Turn is one role-tagged entry in the conversation history. Turns are values:
// once appended to a History they are never modified.
type Turn struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content,omitempty"`
	Author    string     `json:"author,omitempty"`     // Agent name for assistant and tool turns
	ToolCalls []ToolCall `json:"tool_calls,omitempty"` // Action calls issued by an assistant turn
	// ToolCallID and ToolName link a tool turn back to its originating call.
	ToolCallID string    `json:"tool_call_id,omitempty"`
	ToolName   string    `json:"tool_name,omitempty"`
	IsError    bool      `json:"is_error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewUserTurn creates a user-authored text turn.
func NewUserTurn(content string) Turn {
	return Turn{ID: NewID(), Role: RoleUser, Content: content, Author: string(RoleUser), Timestamp: time.Now().UTC()}
}

// NewAssistantTurn creates an assistant turn carrying the aggregated content of one
// backend response and the action tool calls it issued.
func NewAssistantTurn(author, content string, calls []ToolCall) Turn {
	return Turn{
		ID:        NewID(),
		Role:      RoleAssistant,
		Content:   content,
		Author:    author,
		ToolCalls: append([]ToolCall(nil), calls...),
		Timestamp: time.Now().UTC(),
	}
}

// NewToolTurn records the outcome of an action tool call. When err is non-nil its
// message becomes the turn content so agents can see and correct the failure.
func NewToolTurn(author string, call ToolCall, result string, err error) Turn {
	t := Turn{
		ID:         NewID(),
		Role:       RoleTool,
		Content:    result,
		Author:     author,
		ToolCallID: call.ID,
		ToolName:   call.Name,
		Timestamp:  time.Now().UTC(),
	}
	if err != nil {
		t.Content = err.Error()
		t.IsError = true
	}
	return t
}

// clone returns a copy whose slices do not alias the receiver.
func (t Turn) clone() Turn {
	t.ToolCalls = append([]ToolCall(nil), t.ToolCalls...)
	return t
}
