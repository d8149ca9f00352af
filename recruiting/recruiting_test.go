package recruiting

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recruitmesh/agent"
	"github.com/hupe1980/recruitmesh/artifact"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/flow"
	"github.com/hupe1980/recruitmesh/internal/testutil"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/model"
)

type fakeFetcher struct {
	mu   sync.Mutex
	urls []string
	text string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	return f.text
}

func newPipeline(t *testing.T, fetcher Fetcher, store artifact.Store) *Pipeline {
	t.Helper()

	p, err := New(func(o *Options) {
		o.Fetcher = fetcher
		o.Store = store
	})
	require.NoError(t, err)

	return p
}

func toolContext() *core.ToolContext {
	return core.NewToolContext(context.Background(), "s1", AgentResearch, "call_1", logging.NoOpLogger{})
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New()
	require.Error(t, err)

	_, err = New(func(o *Options) { o.Fetcher = &fakeFetcher{} })
	require.Error(t, err)
}

func TestNew_GraphShape(t *testing.T) {
	p := newPipeline(t, &fakeFetcher{}, artifact.NewInMemoryStore())

	entry, err := p.Graph.Entry()
	require.NoError(t, err)
	assert.Equal(t, AgentCoordinator, entry.Name())

	assert.True(t, p.Registry.Sealed())

	assert.Equal(t, []agent.Edge{
		{From: AgentCoordinator, Tool: ToolTransferToResearch, To: AgentResearch},
		{From: AgentResearch, Tool: ToolTransferToCopy, To: AgentCopy},
		{From: AgentCopy, Tool: ToolTransferToReview, To: AgentReview},
		{From: AgentReview, Tool: ToolTransferToFinalization, To: AgentFinalization},
	}, p.Graph.Edges())

	research, ok := p.Graph.Get(AgentResearch)
	require.True(t, ok)
	assert.True(t, research.Allows(ToolScrapeWebsite))
	assert.False(t, research.Allows(ToolSaveCampaign))

	final, ok := p.Graph.Get(AgentFinalization)
	require.True(t, ok)
	assert.True(t, final.Allows(ToolSaveCampaign))
	assert.Len(t, final.AllowedTools(), 1)
}

func TestInstructions_Language(t *testing.T) {
	p, err := New(func(o *Options) {
		o.Fetcher = &fakeFetcher{}
		o.Store = artifact.NewInMemoryStore()
		o.Language = "English"
	})
	require.NoError(t, err)

	for _, d := range p.Graph.Agents() {
		text, err := d.Instructions(nil)
		require.NoError(t, err)
		assert.Contains(t, text, "English", d.Name())
		assert.NotContains(t, text, "{{", d.Name())
	}
}

func TestScrapeTool(t *testing.T) {
	f := &fakeFetcher{text: "Electrician wanted"}
	scrape := NewScrapeTool(f)

	res, err := scrape.Call(toolContext(), map[string]any{"url": "example.com/jobs/1"})
	require.NoError(t, err)
	assert.Equal(t, core.Text("Electrician wanted"), res)
	assert.Equal(t, []string{"example.com/jobs/1"}, f.urls)

	_, err = scrape.Call(toolContext(), map[string]any{})
	require.Error(t, err)

	_, err = scrape.Call(toolContext(), map[string]any{"url": "  "})
	require.Error(t, err)
}

func TestSaveTool(t *testing.T) {
	store := artifact.NewInMemoryStore()
	save := NewSaveTool(store)

	res, err := save.Call(toolContext(), map[string]any{
		"job_title":        "Elektriker (m/w/d)",
		"campaign_content": "👨‍🔧 Ad body",
	})
	require.NoError(t, err)

	text, ok := res.(core.TextResult)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text.Text, "Recruiting ad saved to "))
	assert.Contains(t, text.Text, "elektriker_m_w_d"+artifact.FileSuffix)

	got, err := store.Get("Elektriker (m/w/d)")
	require.NoError(t, err)
	assert.Equal(t, "👨‍🔧 Ad body", got)

	_, err = save.Call(toolContext(), map[string]any{"job_title": "x"})
	require.Error(t, err)
}

func TestTools_SchemaFromArgs(t *testing.T) {
	scrape := NewScrapeTool(&fakeFetcher{})
	assert.Equal(t, []string{"url"}, scrape.Parameters()["required"])

	save := NewSaveTool(artifact.NewInMemoryStore())
	params := save.Parameters()
	assert.ElementsMatch(t, []string{"job_title", "campaign_content"}, params["required"])

	props, ok := params["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "campaign_content")
	assert.Equal(t, map[string]any{
		"type":        "string",
		"description": "Job title of the position, used as file name.",
	}, props["job_title"])

	_, err := save.Call(toolContext(), map[string]any{"job_title": 7, "campaign_content": "ad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected type string")
}

func TestSaveTool_FileStore(t *testing.T) {
	store := artifact.NewFileStore(t.TempDir())
	save := NewSaveTool(store)

	_, err := save.Call(toolContext(), map[string]any{"job_title": "Koch", "campaign_content": "ad"})
	require.NoError(t, err)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "koch", entries[0].Name)
}

func TestPipeline_EndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{text: "Electrician in Berlin, ACME GmbH, 30 days vacation"}
	store := artifact.NewInMemoryStore()
	p := newPipeline(t, fetcher, store)

	m := model.NewScriptedModel(
		testutil.Handoff(ToolTransferToResearch),
		testutil.Calls(testutil.Call(ToolScrapeWebsite, map[string]any{"url": "https://acme.example/jobs/1"})),
		testutil.Handoff(ToolTransferToCopy),
		testutil.Handoff(ToolTransferToReview),
		testutil.Handoff(ToolTransferToFinalization),
		testutil.Calls(testutil.Call(ToolSaveCampaign, map[string]any{
			"job_title":        "Electrician",
			"campaign_content": "Apply now",
		})),
		testutil.Say("Campaign ", "saved"),
	)

	d := flow.New(m, p.Registry)

	entry, err := p.Graph.Entry()
	require.NoError(t, err)

	st := core.NewRunState("s1", entry)
	sink := &testutil.RecordingSink{}

	// The coordinator hands off and research returns after scraping.
	st.AppendUserInput("https://acme.example/jobs/1")

	res, err := d.Run(context.Background(), st, sink)
	require.NoError(t, err)
	assert.Equal(t, AgentResearch, res.Agent)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, []string{"https://acme.example/jobs/1"}, fetcher.urls)

	// Research chains through copy and review down to finalization.
	st.AppendUserInput("no special benefits")

	res, err = d.Run(context.Background(), st, sink)
	require.NoError(t, err)
	assert.Equal(t, AgentFinalization, res.Agent)
	assert.Equal(t, 4, res.Iterations)
	assert.Equal(t, 3, res.Handoffs)

	got, err := store.Get("Electrician")
	require.NoError(t, err)
	assert.Equal(t, "Apply now", got)

	st.AppendUserInput("thanks")

	res, err = d.Run(context.Background(), st, sink)
	require.NoError(t, err)
	assert.Equal(t, "Campaign saved", res.Text)
	assert.Equal(t, 1, res.Iterations)

	var path []string
	for _, tr := range st.Transitions() {
		path = append(path, tr.To)
	}
	assert.Equal(t, []string{AgentResearch, AgentCopy, AgentReview, AgentFinalization}, path)
	assert.Equal(t, 4, sink.Count(core.EventHandoff))
}
