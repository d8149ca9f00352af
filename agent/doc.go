// Package agent defines personas: immutable definitions that bind a name,
// instruction text and an ordered set of allowed tools drawn from the global
// tool registry. A Graph groups the personas of one pipeline, names the entry
// persona and validates the handoff edges between them.
//
// Definitions carry no per-session state. All mutable conversation data lives
// in core.RunState, so a single Graph is shared by every session.
package agent
