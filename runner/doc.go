// Package runner implements the session driver on top of the dispatch loop.
//
// A Runner owns the session store and the entry agent. Turn runs the
// dispatch loop once for one user input; Loop is the interactive
// read-input / run / print cycle used by the CLI:
//
//	r := runner.New(dispatcher, entry)
//	err := r.Loop(ctx, os.Stdin, os.Stdout)
//
// Turns on the same session are serialized through the store's lease.
// Different sessions share the dispatcher, the tool registry and the agent
// graph, which are read-only after startup.
package runner
