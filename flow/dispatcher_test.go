package flow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recruitmesh/agent"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/internal/testutil"
	"github.com/hupe1980/recruitmesh/model"
	"github.com/hupe1980/recruitmesh/tool"
)

// fixture wires a small pipeline: a -> b -> c -> a with an action tool on a.
type fixture struct {
	registry *tool.Registry
	graph    *agent.Graph
	calls    []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{graph: agent.NewGraph("a")}

	record := func(name string) tool.Func {
		return func(_ *core.ToolContext, args map[string]any) (string, error) {
			f.calls = append(f.calls, name)
			return fmt.Sprintf("%s:%v", name, args["n"]), nil
		}
	}

	reg, err := tool.NewRegistry(
		tool.NewFunctionTool("first", "", nil, record("first")),
		tool.NewFunctionTool("second", "", nil, record("second")),
		tool.NewFunctionTool("fails", "", nil, func(*core.ToolContext, map[string]any) (string, error) {
			return "", errors.New("boom")
		}),
		tool.NewFunctionTool("panics", "", nil, func(*core.ToolContext, map[string]any) (string, error) {
			panic("kaboom")
		}),
		tool.NewFunctionTool("secret", "", nil, record("secret")),
		tool.NewHandoffTool("transfer_to_b", "", f.graph.Resolver("b")),
		tool.NewHandoffTool("transfer_to_c", "", f.graph.Resolver("c")),
		tool.NewHandoffTool("transfer_to_a", "", f.graph.Resolver("a")),
	)
	require.NoError(t, err)

	f.registry = reg

	require.NoError(t, f.graph.Add(
		agent.Must(agent.New(reg, "a", func(o *agent.Options) {
			o.Instruction = agent.NewInstructionFromText("You are {{.Agent}}.")
			o.Tools = []string{"first", "second", "fails", "panics", "transfer_to_b"}
		})),
		agent.Must(agent.New(reg, "b", func(o *agent.Options) { o.Tools = []string{"transfer_to_c"} })),
		agent.Must(agent.New(reg, "c", func(o *agent.Options) { o.Tools = []string{"transfer_to_a"} })),
	))
	require.NoError(t, f.graph.Validate())

	reg.Seal()

	return f
}

func (f *fixture) state(t *testing.T, input string) *core.RunState {
	t.Helper()
	entry, err := f.graph.Entry()
	require.NoError(t, err)

	st := core.NewRunState("s1", entry)
	st.AppendUserInput(input)

	return st
}

func turnRoles(st *core.RunState) []core.Role {
	var roles []core.Role
	for _, turn := range st.History.Turns() {
		roles = append(roles, turn.Role)
	}
	return roles
}

func TestRun_NoToolCallsSingleIteration(t *testing.T) {
	f := newFixture(t)
	m := model.NewScriptedModel(testutil.Say("Hello", ", world"))
	sink := &testutil.RecordingSink{}

	st := f.state(t, "hi")
	res, err := New(m, f.registry).Run(context.Background(), st, sink)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, 1, m.Calls())
	assert.Equal(t, "Hello, world", res.Text)
	assert.Equal(t, "Hello, world", sink.Text())
	assert.Equal(t, []core.EventKind{core.EventFragment, core.EventFragment}, sink.Kinds())
	assert.Equal(t, []core.Role{core.RoleUser, core.RoleAssistant}, turnRoles(st))
	assert.False(t, res.Stalled)
}

func TestRun_ToolCallsExecuteInOrderOneTurnEach(t *testing.T) {
	f := newFixture(t)
	m := model.NewScriptedModel(testutil.Calls(
		testutil.Call("second", map[string]any{"n": 1}),
		testutil.Call("first", map[string]any{"n": 2}),
		core.ToolCall{ID: "x", Name: "second", Arguments: `{"n":3}`},
	))

	st := f.state(t, "go")
	res, err := New(m, f.registry).Run(context.Background(), st, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, []string{"second", "first", "second"}, f.calls)

	turns := st.History.Turns()
	require.Len(t, turns, 5)
	assert.Equal(t, core.RoleAssistant, turns[1].Role)
	assert.Len(t, turns[1].ToolCalls, 3)

	var contents []string
	for _, turn := range turns[2:] {
		assert.Equal(t, core.RoleTool, turn.Role)
		contents = append(contents, turn.Content)
	}
	assert.Equal(t, []string{"second:1", "first:2", "second:3"}, contents)
}

func TestRun_HandoffProducesNoToolTurnAndSkipsRemainingCalls(t *testing.T) {
	f := newFixture(t)
	m := model.NewScriptedModel(
		testutil.Calls(
			testutil.Call("first", map[string]any{"n": 1}),
			testutil.Call("transfer_to_b", nil),
			testutil.Call("second", map[string]any{"n": 2}),
		),
		testutil.Say("b here"),
	)
	sink := &testutil.RecordingSink{}

	st := f.state(t, "go")
	res, err := New(m, f.registry).Run(context.Background(), st, sink)
	require.NoError(t, err)

	assert.Equal(t, "b", st.ActiveAgent().Name())
	assert.Equal(t, "b", res.Agent)
	assert.Equal(t, 1, res.Handoffs)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, []string{"first"}, f.calls, "calls after a handoff are skipped")

	for _, turn := range st.History.Turns() {
		assert.NotEqual(t, "transfer_to_b", turn.ToolName)
		for _, c := range turn.ToolCalls {
			assert.NotEqual(t, "transfer_to_b", c.Name)
		}
	}

	assert.Equal(t, []core.Role{core.RoleUser, core.RoleAssistant, core.RoleTool, core.RoleAssistant}, turnRoles(st))
	assert.Equal(t, 1, sink.Count(core.EventHandoff))

	tr := st.Transitions()
	require.Len(t, tr, 1)
	assert.Equal(t, core.Transition{From: "a", To: "b", Tool: "transfer_to_b", At: tr[0].At}, tr[0])

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "You are a.", reqs[0].Instructions)
	assert.Equal(t, "b", reqs[1].Agent)
	require.Len(t, reqs[1].Tools, 1)
	assert.Equal(t, "transfer_to_c", reqs[1].Tools[0].Function.Name)
}

func TestRun_NChainedHandoffs(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			f := newFixture(t)

			next := map[string]string{"a": "transfer_to_b", "b": "transfer_to_c", "c": "transfer_to_a"}
			m := model.NewResponderModel(func(req model.Request, i int) model.Step {
				if i < n {
					return testutil.Handoff(next[req.Agent])
				}
				return testutil.Say("done")
			})

			st := f.state(t, "go")
			res, err := New(m, f.registry).Run(context.Background(), st, nil)
			require.NoError(t, err)

			assert.Equal(t, n+1, m.Calls())
			assert.Equal(t, n+1, res.Iterations)
			assert.Equal(t, n, res.Handoffs)
			assert.Equal(t, "done", res.Text)
		})
	}
}

func TestRun_CycleGuardStalls(t *testing.T) {
	f := newFixture(t)
	m := model.NewResponderModel(func(req model.Request, _ int) model.Step {
		next := map[string]string{"a": "transfer_to_b", "b": "transfer_to_c", "c": "transfer_to_a"}
		return testutil.Handoff(next[req.Agent])
	})
	sink := &testutil.RecordingSink{}

	st := f.state(t, "go")
	res, err := New(m, f.registry, func(o *Options) { o.MaxIterations = 10 }).Run(context.Background(), st, sink)

	require.ErrorIs(t, err, ErrSessionStalled)
	assert.Equal(t, 10, m.Calls())
	assert.Equal(t, 10, res.Iterations)
	assert.True(t, res.Stalled)
	assert.Equal(t, 1, sink.Count(core.EventStalled))

	// The session stays usable after the guard fires.
	st.AppendUserInput("again")
	_, err = New(model.NewScriptedModel(testutil.Say("ok")), f.registry).Run(context.Background(), st, nil)
	assert.NoError(t, err)
}

func TestRun_DefaultCap(t *testing.T) {
	f := newFixture(t)
	m := model.NewResponderModel(testutil.AlwaysHandoff())

	d := New(m, f.registry)
	assert.Equal(t, DefaultMaxIterations, d.MaxIterations())

	_, err := d.Run(context.Background(), f.state(t, "go"), nil)
	require.ErrorIs(t, err, ErrSessionStalled)
	assert.Equal(t, DefaultMaxIterations, m.Calls())
}

func TestRun_ToolErrorsBecomeToolTurns(t *testing.T) {
	f := newFixture(t)
	m := model.NewScriptedModel(testutil.Calls(
		testutil.Call("fails", nil),
		testutil.Call("panics", nil),
		testutil.Call("secret", nil),
		testutil.Call("missing", nil),
		core.ToolCall{ID: "bad", Name: "first", Arguments: "{not json"},
	))
	sink := &testutil.RecordingSink{}

	st := f.state(t, "go")
	_, err := New(m, f.registry).Run(context.Background(), st, sink)
	require.NoError(t, err)

	turns := st.History.Turns()
	require.Len(t, turns, 7)

	tools := turns[2:]
	for _, turn := range tools {
		assert.True(t, turn.IsError, turn.ToolName)
	}

	assert.Contains(t, tools[0].Content, "boom")
	assert.Contains(t, tools[1].Content, "panic recovered")
	assert.Contains(t, tools[2].Content, `tool "secret" is not allowed for agent "a"`)
	assert.Contains(t, tools[3].Content, `unknown tool "missing"`)
	assert.Contains(t, tools[4].Content, "failed to unmarshal args")
	assert.Empty(t, f.calls)
	assert.Equal(t, 5, sink.Count(core.EventToolResult))
}

func TestRun_BackendErrorLeavesHistoryConsistent(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("connection reset")
	m := model.NewScriptedModel(model.Step{Fragments: []string{"partial"}, Err: cause})
	sink := &testutil.RecordingSink{}

	st := f.state(t, "go")
	_, err := New(m, f.registry).Run(context.Background(), st, sink)

	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "a", backendErr.Agent)

	assert.Equal(t, []core.Role{core.RoleUser}, turnRoles(st))
	assert.Equal(t, "partial", sink.Text(), "fragments are surfaced as they arrive")
}

func TestRun_AssignsMissingCallIDs(t *testing.T) {
	f := newFixture(t)
	m := model.NewScriptedModel(testutil.Calls(core.ToolCall{Name: "first"}))

	st := f.state(t, "go")
	_, err := New(m, f.registry).Run(context.Background(), st, nil)
	require.NoError(t, err)

	turns := st.History.Turns()
	require.Len(t, turns, 3)
	assert.NotEmpty(t, turns[1].ToolCalls[0].ID)
	assert.Equal(t, turns[1].ToolCalls[0].ID, turns[2].ToolCallID)
}

func TestRun_ContextCanceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := model.NewScriptedModel(testutil.Say("never"))
	_, err := New(m, f.registry).Run(ctx, f.state(t, "go"), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Calls())
}

func TestRun_NoActiveAgent(t *testing.T) {
	_, err := New(model.NewScriptedModel(), nil).Run(context.Background(), core.NewRunState("s", nil), nil)
	assert.Error(t, err)
}

func TestProcessors(t *testing.T) {
	f := newFixture(t)
	st := f.state(t, "hello")
	a, _ := f.graph.Get("a")

	req := model.Request{}
	for _, p := range DefaultRequestProcessors(nil) {
		require.NoError(t, p.ProcessRequest(st, &req, a))
	}

	assert.Equal(t, "a", req.Agent)
	assert.Equal(t, "You are a.", req.Instructions)
	require.Len(t, req.History, 1)
	assert.Equal(t, "hello", req.History[0].Content)

	var names []string
	for _, d := range req.Tools {
		names = append(names, d.Function.Name)
	}
	assert.Equal(t, []string{"first", "second", "fails", "panics", "transfer_to_b"}, names)

	assert.Equal(t, "instructions", NewInstructionsProcessor(nil).Name())
	assert.Equal(t, "tools", NewToolsProcessor().Name())
	assert.Equal(t, "contents", NewContentsProcessor().Name())
}
