// Package model defines the provider-agnostic completion backend contract used
// by the dispatch loop.
//
// A backend receives a Request (rendered instructions, tool declarations and
// the full conversation history) and answers with a lazy, finite stream of
// Events: content fragments, complete tool calls and a terminal end marker.
// Transport failures are reported on a separate error channel.
//
// Providers (OpenAI, Anthropic) live in sub-packages so the rest of the module
// stays decoupled from vendor SDKs. ScriptedModel replays canned responses for
// tests and offline runs.
package model
