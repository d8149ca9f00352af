// Package logging provides a minimal logging interface and adapters for recruitmesh.
//
// The Logger interface defines the leveled, key/value logging methods that the
// dispatch loop, tools and backends use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - New, building a slog backed Logger from a Config (level, format, output)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: "text"})
//	dispatcher := flow.New(llm, func(o *flow.Options) { o.Logger = logger })
//
// Components default to NoOpLogger so logging is always optional.
package logging
