package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/recruitmesh/core"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/model"
	"github.com/hupe1980/recruitmesh/tool"
)

// DefaultMaxIterations caps autonomous backend invocations per user input.
const DefaultMaxIterations = 10

// Options configures a Dispatcher.
type Options struct {
	// MaxIterations caps backend invocations per Run. Zero disables the cap.
	MaxIterations int
	// RequestProcessors build each request. Defaults to DefaultRequestProcessors.
	RequestProcessors []RequestProcessor
	// Executor runs tool calls. Defaults to a sequential executor over the registry.
	Executor Executor
	// Logger receives structured diagnostics.
	Logger logging.Logger
}

// Dispatcher runs the dispatch loop against a completion backend. It holds no
// per-session state and may be shared by concurrent sessions.
type Dispatcher struct {
	model    model.Model
	registry *tool.Registry
	opts     Options
}

// New creates a Dispatcher.
func New(m model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Dispatcher {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.RequestProcessors == nil {
		opts.RequestProcessors = DefaultRequestProcessors(opts.Logger)
	}

	if opts.Executor == nil {
		opts.Executor = NewSequentialExecutor(registry, opts.Logger)
	}

	return &Dispatcher{model: m, registry: registry, opts: opts}
}

// MaxIterations returns the configured cap.
func (d *Dispatcher) MaxIterations() int { return d.opts.MaxIterations }

// Run drives the active agent until an iteration yields no handoff. The
// state's history must already end with the new user turn. Fragments, tool
// results and handoffs are reported to sink as they happen.
//
// Run returns ErrSessionStalled when the iteration cap is reached and a
// *BackendError when the backend fails. In both cases the returned Result
// and state remain usable.
func (d *Dispatcher) Run(ctx context.Context, st *core.RunState, sink Sink) (*Result, error) {
	if st == nil || st.ActiveAgent() == nil {
		return nil, errors.New("dispatch: run state has no active agent")
	}

	if sink == nil {
		sink = Discard
	}

	logger := logging.With(d.opts.Logger, "session_id", st.SessionID)
	limiter := core.NewModelLimiter(d.opts.MaxIterations)
	res := &Result{State: st}

	for {
		active := st.ActiveAgent()
		res.Agent = active.Name()

		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := limiter.Increment(); err != nil {
			res.Stalled = true
			msg := fmt.Sprintf("Stopped after %d autonomous steps without an answer. Please try again or rephrase.", limiter.Max())
			sink.Emit(core.NewStalledEvent(active.Name(), msg))
			logger.Warn("flow.stalled", "agent", active.Name(), "iterations", limiter.Count(), "handoffs", res.Handoffs)

			return res, ErrSessionStalled
		}

		res.Iterations = limiter.Count()
		logger.Debug("flow.iteration", "agent", active.Name(), "iteration", res.Iterations, "remaining", limiter.Remaining())

		handedOff, err := d.runOnce(ctx, st, active, sink, res, logger)
		if err != nil {
			return res, err
		}

		if !handedOff {
			logger.Debug("flow.return_to_user", "agent", active.Name(), "iterations", res.Iterations)
			return res, nil
		}
	}
}

// runOnce performs one backend invocation and its tool calls. It reports
// whether a handoff occurred.
func (d *Dispatcher) runOnce(
	ctx context.Context,
	st *core.RunState,
	active core.Agent,
	sink Sink,
	res *Result,
	logger logging.Logger,
) (bool, error) {
	req := model.Request{}
	for _, processor := range d.opts.RequestProcessors {
		if err := processor.ProcessRequest(st, &req, active); err != nil {
			return false, fmt.Errorf("request processor %s failed: %w", processor.Name(), err)
		}
	}

	logger.Info("flow.model.call", "agent", active.Name(), "iteration", res.Iterations, "history", len(req.History), "tools", len(req.Tools))

	start := time.Now()
	events, errs := d.model.Generate(ctx, req)

	var (
		text  strings.Builder
		calls []core.ToolCall
	)

	for ev := range events {
		switch ev.Kind {
		case model.EventContent:
			if ev.Text == "" {
				continue
			}
			text.WriteString(ev.Text)
			sink.Emit(core.NewFragmentEvent(active.Name(), ev.Text))
		case model.EventToolCall:
			call := ev.Call
			if call.ID == "" {
				call.ID = core.NewID()
			}
			calls = append(calls, call)
		case model.EventEnd:
			if ev.Usage != nil {
				logger.Debug("flow.model.usage", "agent", active.Name(), "total_tokens", ev.Usage.TotalTokens)
			}
		}
	}

	if err, ok := <-errs; ok && err != nil {
		logger.Error("flow.model.error", "agent", active.Name(), "error", err.Error())
		return false, &BackendError{Agent: active.Name(), Err: err}
	}

	logger.Debug("flow.model.done", "agent", active.Name(), "duration_ms", time.Since(start).Milliseconds(), "tool_calls", len(calls))

	var (
		executed  []core.ToolCall
		toolTurns []core.Turn
		handedOff bool
	)

	for _, call := range calls {
		out := d.opts.Executor.Execute(ctx, st, active, call)

		if h, ok := out.Result.(core.HandoffResult); ok && out.Err == nil && h.Target != nil {
			tr := st.HandOff(h.Target, call.Name)
			res.Handoffs++
			handedOff = true

			sink.Emit(core.NewHandoffEvent(tr))
			logger.Info("flow.handoff", "from", tr.From, "to", tr.To, "tool", tr.Tool)

			break
		}

		var result string
		switch r := out.Result.(type) {
		case core.TextResult:
			result = r.Text
		case core.HandoffResult:
			if out.Err == nil {
				out.Err = tool.NewToolError(call.Name, "handoff without target", tool.CodeExecution)
			}
		}

		turn := core.NewToolTurn(active.Name(), call, result, out.Err)
		executed = append(executed, call)
		toolTurns = append(toolTurns, turn)

		sink.Emit(core.NewToolResultEvent(turn))
	}

	content := text.String()
	res.Text += content

	if content != "" || len(executed) > 0 {
		st.History.Append(core.NewAssistantTurn(active.Name(), content, executed))
	}

	for _, turn := range toolTurns {
		st.History.Append(turn)
	}

	return handedOff, nil
}
