package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/flow"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/session"
)

// Defaults for the interactive loop.
const (
	DefaultBanner   = "📢 Willkommen bei deinem Social Recruiting Kampagnen-Creator!\nGib eine Stellenanzeigen URL ein.\nTippe 'exit' zum Beenden."
	DefaultFarewell = "Peace out..."
	DefaultSentinel = "exit"

	promptPrefix    = "\nYou: "
	assistantPrefix = "\nAssistant: "
	maxLineBytes    = 1 << 20
)

// Options holds dependency and presentation overrides passed to New().
type Options struct {
	// SessionStore holds one RunState per session.
	SessionStore session.Store
	// SessionID is the session used by Loop. Defaults to a fresh ID.
	SessionID string
	// Banner is printed once when Loop starts.
	Banner string
	// Farewell is printed when the sentinel is read.
	Farewell string
	// Sentinel ends Loop. It is compared case-insensitively.
	Sentinel string
	// Verbose prints handoffs and tool results in Loop.
	Verbose bool
	// Logger records turn boundaries.
	Logger logging.Logger
}

// Runner drives sessions through the dispatch loop. Public methods are safe
// for concurrent use.
type Runner struct {
	dispatcher *flow.Dispatcher
	entry      core.Agent
	opts       Options
}

// New constructs a Runner. entry becomes the active agent of new sessions.
func New(dispatcher *flow.Dispatcher, entry core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		SessionID:    core.NewID(),
		Banner:       DefaultBanner,
		Farewell:     DefaultFarewell,
		Sentinel:     DefaultSentinel,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{dispatcher: dispatcher, entry: entry, opts: opts}
}

// SessionStore returns the backing session store.
func (r *Runner) SessionStore() session.Store { return r.opts.SessionStore }

// Turn appends input as a user turn to the session and runs the dispatch
// loop once. Errors are those of flow.Dispatcher.Run; the session stays
// usable after ErrSessionStalled and backend errors.
func (r *Runner) Turn(ctx context.Context, sessionID, input string, sink flow.Sink) (*flow.Result, error) {
	if r.entry == nil {
		return nil, errors.New("runner: no entry agent")
	}

	st, release := r.opts.SessionStore.Acquire(sessionID, r.entry)
	defer release()

	st.AppendUserInput(input)

	r.opts.Logger.Info("runner.turn.start", "session_id", sessionID, "agent", st.ActiveAgent().Name(), "history", st.History.Len())

	res, err := r.dispatcher.Run(ctx, st, sink)
	if err != nil {
		r.opts.Logger.Warn("runner.turn.error", "session_id", sessionID, "error", err.Error())
		return res, err
	}

	r.opts.Logger.Info("runner.turn.done", "session_id", sessionID, "agent", res.Agent, "iterations", res.Iterations, "handoffs", res.Handoffs)

	return res, nil
}

// Loop reads lines from in until EOF, the sentinel or cancellation of ctx.
// Each non-empty line is one Turn whose fragments are written to out as they
// arrive. Stalled sessions and backend failures are reported and the loop
// continues.
func (r *Runner) Loop(ctx context.Context, in io.Reader, out io.Writer) error {
	w := &errWriter{w: out}

	if r.opts.Banner != "" {
		w.printf("%s\n", r.opts.Banner)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.printf("%s", promptPrefix)

		if !scanner.Scan() {
			w.printf("\n")
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return w.err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.EqualFold(line, r.opts.Sentinel) {
			w.printf("%s\n", r.opts.Farewell)
			return w.err
		}

		w.printf("%s", assistantPrefix)

		_, err := r.Turn(ctx, r.opts.SessionID, line, flow.SinkFunc(func(ev core.Event) {
			r.print(w, ev)
		}))

		switch {
		case err == nil, errors.Is(err, flow.ErrSessionStalled):
			// stalled message already printed by the sink
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			w.printf("\n")
			return err
		default:
			w.printf("\nError: %v", err)
		}

		w.printf("\n")

		if w.err != nil {
			return w.err
		}
	}
}

func (r *Runner) print(w *errWriter, ev core.Event) {
	switch ev.Kind {
	case core.EventFragment:
		w.printf("%s", ev.Text)
	case core.EventStalled:
		w.printf("\n⚠️ %s", ev.Text)
	case core.EventHandoff:
		if r.opts.Verbose {
			w.printf("\n[%s -> %s]\n", ev.Author, ev.Target)
		}
	case core.EventToolResult:
		if r.opts.Verbose {
			w.printf("\n[%s] %s\n", ev.Tool, ev.Text)
		}
	}
}

// errWriter keeps the first write error so the loop can stop on a broken
// output stream.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
