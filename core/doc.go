// Package core provides the foundational domain types and contracts used by
// recruitmesh. It defines:
//
//   - Turns and the append-only conversation History
//   - RunState, the mutable per-session state (active agent + history)
//   - The Tool and Agent contracts shared by the tool, agent and flow packages
//   - Result, the tagged union returned by tools (text or handoff)
//   - Events streamed from the dispatch loop to the session driver
//   - ToolContext and ModelLimiter used while dispatching a turn
//
// The package keeps implementation concerns (registries, backends, stores)
// out of scope and exposes small interfaces so they can be swapped freely.
package core
