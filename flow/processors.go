package flow

import (
	"fmt"

	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/model"
)

// DefaultRequestProcessors returns the processors used when none are configured.
func DefaultRequestProcessors(logger logging.Logger) []RequestProcessor {
	return []RequestProcessor{
		NewInstructionsProcessor(logger),
		NewToolsProcessor(),
		NewContentsProcessor(),
	}
}

// InstructionsProcessor renders the active agent's instructions.
type InstructionsProcessor struct {
	logger logging.Logger
}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor(logger logging.Logger) *InstructionsProcessor {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &InstructionsProcessor{logger: logger}
}

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest sets the request instructions.
func (p *InstructionsProcessor) ProcessRequest(st *core.RunState, req *model.Request, agent core.Agent) error {
	instructions, err := agent.Instructions(st)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	p.logger.Debug("agent.instruction.resolved", "agent", agent.Name(), "length", len(instructions))

	req.Agent = agent.Name()
	req.Instructions = instructions

	return nil
}

// ToolsProcessor declares the active agent's allowed tools in order.
type ToolsProcessor struct{}

// NewToolsProcessor creates a new tools processor.
func NewToolsProcessor() *ToolsProcessor { return &ToolsProcessor{} }

// Name returns the processor's identifier.
func (p *ToolsProcessor) Name() string { return "tools" }

// ProcessRequest sets the request tool declarations.
func (p *ToolsProcessor) ProcessRequest(_ *core.RunState, req *model.Request, agent core.Agent) error {
	tools := agent.AllowedTools()
	if len(tools) == 0 {
		req.Tools = nil
		return nil
	}

	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.NewToolDefinition(t))
	}

	req.Tools = defs

	return nil
}

// ContentsProcessor copies the full conversation history into the request.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest sets the request history.
func (p *ContentsProcessor) ProcessRequest(st *core.RunState, req *model.Request, _ core.Agent) error {
	req.History = st.History.Turns()
	return nil
}
