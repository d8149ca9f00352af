package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "RECRUITMESH_"

// Config is the complete application configuration. An empty Model selects
// the provider default.
type Config struct {
	Provider      string      `yaml:"provider"`
	Model         string      `yaml:"model"`
	Temperature   *float64    `yaml:"temperature,omitempty"`
	MaxTokens     int         `yaml:"max_tokens"`
	MaxIterations int         `yaml:"max_iterations"`
	WorkDir       string      `yaml:"work_dir"`
	Language      string      `yaml:"language"`
	Fetch         FetchConfig `yaml:"fetch"`
	Log           LogConfig   `yaml:"log"`
}

// FetchConfig configures the web content extractor.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxChars  int           `yaml:"max_chars"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// LogConfig configures the slog-backed logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Provider:      ProviderOpenAI,
		MaxTokens:     2048,
		MaxIterations: 10,
		WorkDir:       "work",
		Language:      "German",
		Fetch: FetchConfig{
			Timeout:   10 * time.Second,
			MaxChars:  8000,
			CacheSize: 64,
			CacheTTL:  15 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Options controls Load.
type Options struct {
	// Path of the YAML file. An empty path skips the file.
	Path string
	// EnvFiles are loaded into the process environment when present.
	// Existing variables are never overwritten.
	EnvFiles []string
	// LookupEnv resolves overrides. Defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Load assembles the configuration and validates it.
func Load(optFns ...func(o *Options)) (Config, error) {
	opts := Options{
		EnvFiles:  []string{".env"},
		LookupEnv: os.LookupEnv,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := Default()

	if opts.Path != "" {
		b, err := os.ReadFile(opts.Path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", opts.Path, err)
		}

		if err := Parse(b, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", opts.Path, err)
		}
	}

	for _, file := range opts.EnvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	if err := cfg.applyEnv(opts.LookupEnv); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Parse decodes YAML on top of the values already in cfg. Unknown keys are
// rejected.
func Parse(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "PROVIDER"); ok {
		c.Provider = v
	}

	if v, ok := lookup(EnvPrefix + "MODEL"); ok {
		c.Model = v
	}

	if v, ok := lookup(EnvPrefix + "WORK_DIR"); ok {
		c.WorkDir = v
	}

	if v, ok := lookup(EnvPrefix + "LANGUAGE"); ok {
		c.Language = v
	}

	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	if v, ok := lookup(EnvPrefix + "MAX_ITERATIONS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sMAX_ITERATIONS: %w", EnvPrefix, err)
		}
		c.MaxIterations = n
	}

	return nil
}

// Validate rejects unknown providers and non-positive limits.
func (c Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", c.Provider))
	}

	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations))
	}

	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens))
	}

	if c.WorkDir == "" {
		errs = append(errs, errors.New("work_dir must not be empty"))
	}

	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch.timeout must be positive"))
	}

	if c.Fetch.MaxChars <= 0 {
		errs = append(errs, errors.New("fetch.max_chars must be positive"))
	}

	if c.Fetch.CacheSize < 0 || c.Fetch.CacheTTL < 0 {
		errs = append(errs, errors.New("fetch cache settings must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
