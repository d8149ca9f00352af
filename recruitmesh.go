// Package recruitmesh provides a high-level façade over the recruiting
// pipeline and its session driver. Most applications interact with this
// package by:
//  1. Creating a Mesh via New() with a completion backend
//  2. Invoking it asynchronously (Invoke) or synchronously (InvokeSync) with
//     one user input per call
//
// Every unset collaborator defaults to a local implementation: pages are
// fetched with webfetch, ads are written to the "work" directory and sessions
// are held in memory.
package recruitmesh

import (
	"context"
	"errors"

	"github.com/hupe1980/recruitmesh/artifact"
	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/flow"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/model"
	"github.com/hupe1980/recruitmesh/recruiting"
	"github.com/hupe1980/recruitmesh/runner"
	"github.com/hupe1980/recruitmesh/session"
	"github.com/hupe1980/recruitmesh/webfetch"
)

// DefaultWorkDir is where ads are saved unless a Store is given.
const DefaultWorkDir = "work"

// Options configures the Mesh instance.
type Options struct {
	// Fetcher backs scrape_website. Defaults to a webfetch.Extractor.
	Fetcher recruiting.Fetcher
	// Store backs save_campaign_to_file. Defaults to a FileStore in DefaultWorkDir.
	Store artifact.Store
	// SessionStore holds one RunState per session.
	SessionStore session.Store
	// Language of the agent answers.
	Language string
	// MaxIterations caps autonomous backend invocations per input.
	MaxIterations int
	// EventBufferSize sets the channel buffer used by Invoke.
	EventBufferSize int
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh aggregates the pipeline and the session driver.
type Mesh struct {
	opts     Options
	pipeline *recruiting.Pipeline
	runner   *runner.Runner
}

// New builds the recruiting pipeline around m.
func New(m model.Model, optFns ...func(o *Options)) (*Mesh, error) {
	if m == nil {
		return nil, errors.New("recruitmesh: model is required")
	}

	opts := Options{
		SessionStore:    session.NewInMemoryStore(),
		Language:        recruiting.DefaultLanguage,
		MaxIterations:   flow.DefaultMaxIterations,
		EventBufferSize: 100,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Fetcher == nil {
		opts.Fetcher = webfetch.New(func(o *webfetch.Options) { o.Logger = opts.Logger })
	}

	if opts.Store == nil {
		opts.Store = artifact.NewFileStore(DefaultWorkDir)
	}

	p, err := recruiting.New(func(o *recruiting.Options) {
		o.Fetcher = opts.Fetcher
		o.Store = opts.Store
		o.Language = opts.Language
	})
	if err != nil {
		return nil, err
	}

	entry, err := p.Graph.Entry()
	if err != nil {
		return nil, err
	}

	d := flow.New(m, p.Registry, func(o *flow.Options) {
		o.MaxIterations = opts.MaxIterations
		o.Logger = opts.Logger
	})

	r := runner.New(d, entry, func(o *runner.Options) {
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
	})

	return &Mesh{opts: opts, pipeline: p, runner: r}, nil
}

// Pipeline returns the tool registry and agent graph.
func (m *Mesh) Pipeline() *recruiting.Pipeline { return m.pipeline }

// Runner returns the session driver, e.g. for an interactive Loop.
func (m *Mesh) Runner() *runner.Runner { return m.runner }

// Invoke processes one user input asynchronously. The event channel is
// closed when the turn is over; the error channel then yields at most one
// error.
func (m *Mesh) Invoke(ctx context.Context, sessionID, input string) (<-chan core.Event, <-chan error) {
	eventsCh := make(chan core.Event, m.opts.EventBufferSize)
	errorsCh := make(chan error, 1)

	go func() {
		defer close(errorsCh)
		defer close(eventsCh)

		sink := flow.SinkFunc(func(ev core.Event) {
			select {
			case eventsCh <- ev:
			case <-ctx.Done():
			}
		})

		if _, err := m.runner.Turn(ctx, sessionID, input, sink); err != nil {
			errorsCh <- err
		}
	}()

	return eventsCh, errorsCh
}

// InvokeSync processes one user input and returns every event together with
// the turn result.
func (m *Mesh) InvokeSync(ctx context.Context, sessionID, input string) ([]core.Event, *flow.Result, error) {
	var events []core.Event

	res, err := m.runner.Turn(ctx, sessionID, input, flow.SinkFunc(func(ev core.Event) {
		events = append(events, ev)
	}))

	return events, res, err
}
