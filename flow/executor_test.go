package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recruitmesh/agent"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/tool"
)

// listAgent exposes its tools only through AllowedTools.
type listAgent struct {
	tools []core.Tool
}

func (listAgent) Name() string                                { return "list" }
func (listAgent) Description() string                         { return "" }
func (listAgent) Instructions(*core.RunState) (string, error) { return "", nil }
func (a listAgent) AllowedTools() []core.Tool                 { return a.tools }

func TestExecutor_ResolvesThroughDefinition(t *testing.T) {
	f := newFixture(t)
	a, ok := f.graph.Get("a")
	require.True(t, ok)

	exec := NewSequentialExecutor(f.registry, nil)
	st := f.state(t, "go")

	out := exec.Execute(context.Background(), st, a, core.ToolCall{ID: "c1", Name: "first", Arguments: `{"n":1}`})
	require.NoError(t, out.Err)
	assert.Equal(t, core.Text("first:1"), out.Result)

	out = exec.Execute(context.Background(), st, a, core.ToolCall{ID: "c2", Name: "secret"})
	var notAllowed *agent.ToolNotAllowedError
	require.ErrorAs(t, out.Err, &notAllowed)
	assert.Equal(t, "a", notAllowed.Agent)
	assert.Equal(t, []string{"first"}, f.calls)
}

func TestExecutor_FallsBackToAllowedTools(t *testing.T) {
	echo := tool.NewFunctionTool("echo", "", nil, func(*core.ToolContext, map[string]any) (string, error) {
		return "echoed", nil
	})
	active := listAgent{tools: []core.Tool{echo}}

	exec := NewSequentialExecutor(nil, nil)
	st := core.NewRunState("s1", active)

	out := exec.Execute(context.Background(), st, active, core.ToolCall{ID: "c1", Name: "echo"})
	require.NoError(t, out.Err)
	assert.Equal(t, core.Text("echoed"), out.Result)

	out = exec.Execute(context.Background(), st, active, core.ToolCall{ID: "c2", Name: "other"})
	var notAllowed *agent.ToolNotAllowedError
	require.ErrorAs(t, out.Err, &notAllowed)
	assert.Equal(t, "other", notAllowed.Tool)
}
