// Package recruiting wires the recruiting-ad pipeline: the scrape and save
// action tools, the handoff tools between personas and the five personas
// themselves (coordinator, research, copy, review, finalization).
//
// The resulting tool registry is sealed and the agent graph validated, so a
// Pipeline can be shared by every session of a process.
package recruiting
