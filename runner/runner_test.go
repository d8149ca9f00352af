package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recruitmesh/agent"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/flow"
	"github.com/hupe1980/recruitmesh/internal/testutil"
	"github.com/hupe1980/recruitmesh/model"
	"github.com/hupe1980/recruitmesh/session"
	"github.com/hupe1980/recruitmesh/tool"
)

func newGraph(t *testing.T) (*tool.Registry, *agent.Graph) {
	t.Helper()

	g := agent.NewGraph("front")

	reg, err := tool.NewRegistry(
		tool.NewHandoffTool("transfer_to_back", "", g.Resolver("back")),
		tool.NewHandoffTool("transfer_to_front", "", g.Resolver("front")),
	)
	require.NoError(t, err)

	require.NoError(t, g.Add(
		agent.Must(agent.New(reg, "front", func(o *agent.Options) { o.Tools = []string{"transfer_to_back"} })),
		agent.Must(agent.New(reg, "back", func(o *agent.Options) { o.Tools = []string{"transfer_to_front"} })),
	))
	require.NoError(t, g.Validate())

	return reg, g
}

func newRunner(t *testing.T, m model.Model, optFns ...func(o *Options)) (*Runner, *model.ScriptedModel) {
	t.Helper()

	reg, g := newGraph(t)
	entry, err := g.Entry()
	require.NoError(t, err)

	d := flow.New(m, reg, func(o *flow.Options) { o.MaxIterations = 3 })

	sm, _ := m.(*model.ScriptedModel)

	return New(d, entry, optFns...), sm
}

func TestTurn_PersistsStateAcrossInputs(t *testing.T) {
	r, m := newRunner(t, model.NewScriptedModel(
		testutil.Handoff("transfer_to_back"),
		testutil.Say("hello from back"),
		testutil.Say("still back"),
	))

	res, err := r.Turn(context.Background(), "s1", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "back", res.Agent)
	assert.Equal(t, "hello from back", res.Text)

	res, err = r.Turn(context.Background(), "s1", "again", nil)
	require.NoError(t, err)
	assert.Equal(t, "back", res.Agent)
	assert.Equal(t, "still back", res.Text)

	st, err := r.SessionStore().Get("s1")
	require.NoError(t, err)

	users := 0
	for _, turn := range st.History.Turns() {
		if turn.Role == core.RoleUser {
			users++
		}
	}
	assert.Equal(t, 2, users)
	assert.Len(t, m.Requests(), 3)
}

func TestTurn_SessionsAreIndependent(t *testing.T) {
	r, _ := newRunner(t, model.NewResponderModel(func(req model.Request, _ int) model.Step {
		return testutil.Say(req.Agent)
	}))

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := r.Turn(context.Background(), id, "hi", nil)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{"a", "b", "c"}, r.SessionStore().IDs())

	for _, id := range []string{"a", "b", "c"} {
		st, err := r.SessionStore().Get(id)
		require.NoError(t, err)
		assert.Equal(t, 2, st.History.Len())
	}
}

func TestTurn_StalledIsResumable(t *testing.T) {
	r, _ := newRunner(t, model.NewResponderModel(testutil.AlwaysHandoff()))

	sink := &testutil.RecordingSink{}

	res, err := r.Turn(context.Background(), "s1", "loop", sink)
	require.ErrorIs(t, err, flow.ErrSessionStalled)
	assert.True(t, res.Stalled)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, 1, sink.Count(core.EventStalled))

	_, err = r.Turn(context.Background(), "s1", "again", sink)
	require.ErrorIs(t, err, flow.ErrSessionStalled)
}

func TestTurn_NoEntry(t *testing.T) {
	r := New(nil, nil)
	_, err := r.Turn(context.Background(), "s1", "hi", nil)
	require.Error(t, err)
}

func TestLoop_TranscriptAndSentinel(t *testing.T) {
	r, m := newRunner(t, model.NewScriptedModel(
		testutil.Say("Hallo", "!"),
		testutil.Say("never"),
	), func(o *Options) { o.SessionID = "cli" })

	var out bytes.Buffer
	err := r.Loop(context.Background(), strings.NewReader("https://example.com/job\n\nEXIT\nignored\n"), &out)
	require.NoError(t, err)

	got := out.String()
	assert.True(t, strings.HasPrefix(got, DefaultBanner+"\n"))
	assert.Contains(t, got, "\nYou: \nAssistant: Hallo!\n")
	assert.True(t, strings.HasSuffix(got, DefaultFarewell+"\n"))
	assert.NotContains(t, got, "never")
	assert.Len(t, m.Requests(), 1)

	st, err := r.SessionStore().Get("cli")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/job", st.History.Turns()[0].Content)
}

func TestLoop_EOF(t *testing.T) {
	r, _ := newRunner(t, model.NewScriptedModel(testutil.Say("ok")), func(o *Options) { o.Banner = "" })

	var out bytes.Buffer
	require.NoError(t, r.Loop(context.Background(), strings.NewReader("hi"), &out))
	assert.Equal(t, "\nYou: \nAssistant: ok\n\nYou: \n", out.String())
}

func TestLoop_ReportsErrorsAndContinues(t *testing.T) {
	r, _ := newRunner(t, model.NewScriptedModel(
		model.Step{Err: errors.New("connection reset")},
		testutil.Say("recovered"),
	), func(o *Options) { o.Banner = "" })

	var out bytes.Buffer
	require.NoError(t, r.Loop(context.Background(), strings.NewReader("one\ntwo\nexit\n"), &out))

	got := out.String()
	assert.Contains(t, got, "Error: ")
	assert.Contains(t, got, "connection reset")
	assert.Contains(t, got, "Assistant: recovered")
}

func TestLoop_Stalled(t *testing.T) {
	r, _ := newRunner(t, model.NewResponderModel(testutil.AlwaysHandoff()), func(o *Options) {
		o.Banner = ""
		o.Verbose = true
	})

	var out bytes.Buffer
	require.NoError(t, r.Loop(context.Background(), strings.NewReader("go\n"), &out))

	got := out.String()
	assert.Contains(t, got, "[front -> back]")
	assert.Contains(t, got, "Stopped after 3 autonomous steps")
}

func TestLoop_Canceled(t *testing.T) {
	r, _ := newRunner(t, model.NewScriptedModel())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Loop(ctx, strings.NewReader("hi\n"), &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	r := New(nil, nil)
	assert.NotEmpty(t, r.opts.SessionID)
	assert.IsType(t, &session.InMemoryStore{}, r.SessionStore())
	assert.Equal(t, DefaultSentinel, r.opts.Sentinel)
}
