package model

import (
	"context"

	"github.com/hupe1980/recruitmesh/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// NewToolDefinition builds the declaration for a core.Tool.
func NewToolDefinition(t core.Tool) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}

// Request captures the normalized model input produced by the dispatch loop.
type Request struct {
	Agent        string           `json:"agent"`        // Name of the active agent
	Instructions string           `json:"instructions"` // System-level directive
	History      []core.Turn      `json:"history"`      // Full conversation, oldest first
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// EventKind tags a stream Event.
type EventKind string

const (
	// EventContent carries a text fragment.
	EventContent EventKind = "content"
	// EventToolCall carries one complete tool call.
	EventToolCall EventKind = "tool_call"
	// EventEnd terminates a successful response.
	EventEnd EventKind = "end"
)

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Event is one element of a backend response stream.
type Event struct {
	Kind         EventKind     `json:"kind"`
	Text         string        `json:"text,omitempty"`
	Call         core.ToolCall `json:"call,omitempty"`
	FinishReason string        `json:"finish_reason,omitempty"` // Set on EventEnd
	Usage        *TokenUsage   `json:"usage,omitempty"`         // Set on EventEnd when reported
}

// ContentEvent builds an EventContent.
func ContentEvent(text string) Event { return Event{Kind: EventContent, Text: text} }

// ToolCallEvent builds an EventToolCall.
func ToolCallEvent(call core.ToolCall) Event { return Event{Kind: EventToolCall, Call: call} }

// EndEvent builds an EventEnd.
func EndEvent(finishReason string) Event { return Event{Kind: EventEnd, FinishReason: finishReason} }

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by the dispatch loop.
//
// Generate must close the event channel when the response is complete and
// send at most one error. The stream is consumed once and not restarted.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Event, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}
