package cli

import (
	"fmt"
	"io"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/recruitmesh/artifact"
	"github.com/hupe1980/recruitmesh/config"
	"github.com/hupe1980/recruitmesh/flow"
	"github.com/hupe1980/recruitmesh/logging"
	"github.com/hupe1980/recruitmesh/model"
	anthropicmodel "github.com/hupe1980/recruitmesh/model/anthropic"
	openaimodel "github.com/hupe1980/recruitmesh/model/openai"
	"github.com/hupe1980/recruitmesh/recruiting"
	"github.com/hupe1980/recruitmesh/runner"
	"github.com/hupe1980/recruitmesh/webfetch"
)

// app holds everything a command needs after flags and config are resolved.
type app struct {
	cfg    config.Config
	logger logging.Logger
	store  *artifact.FileStore
}

func newApp(flags *rootFlags, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(func(o *config.Options) {
		o.Path = flags.configPath
	})
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    logOut,
		Component: "recruitmesh",
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  artifact.NewFileStore(cfg.WorkDir),
	}, nil
}

func (a *app) pipeline() (*recruiting.Pipeline, error) {
	fetcher := webfetch.New(func(o *webfetch.Options) {
		o.Timeout = a.cfg.Fetch.Timeout
		o.MaxChars = a.cfg.Fetch.MaxChars
		o.CacheSize = a.cfg.Fetch.CacheSize
		o.CacheTTL = a.cfg.Fetch.CacheTTL
		o.Logger = a.logger
	})

	return recruiting.New(func(o *recruiting.Options) {
		o.Fetcher = fetcher
		o.Store = a.store
		o.Language = a.cfg.Language
	})
}

func (a *app) model() (model.Model, error) {
	switch a.cfg.Provider {
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if a.cfg.Model != "" {
				o.Model = a.cfg.Model
			}
			if a.cfg.Temperature != nil {
				o.Temperature = *a.cfg.Temperature
			}
			o.MaxCompletionTokens = int64(a.cfg.MaxTokens)
		}), nil
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if a.cfg.Model != "" {
				o.Model = anthropicsdk.Model(a.cfg.Model)
			}
			if a.cfg.Temperature != nil {
				o.Temperature = *a.cfg.Temperature
			}
			o.MaxTokens = int64(a.cfg.MaxTokens)
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", a.cfg.Provider)
	}
}

func (a *app) runner(m model.Model, p *recruiting.Pipeline, verbose bool) (*runner.Runner, error) {
	entry, err := p.Graph.Entry()
	if err != nil {
		return nil, err
	}

	d := flow.New(m, p.Registry, func(o *flow.Options) {
		o.MaxIterations = a.cfg.MaxIterations
		o.Logger = a.logger
	})

	return runner.New(d, entry, func(o *runner.Options) {
		o.Verbose = verbose
		o.Logger = a.logger
	}), nil
}
