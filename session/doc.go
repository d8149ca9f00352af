// Package session holds per-session run state for the session driver.
//
// A Store hands out the core.RunState of a session together with an exclusive
// lease, so turns on the same session are serialized while different sessions
// proceed independently. Run state lives for the lifetime of the process; only
// explicit save-tool side effects persist anything.
package session
