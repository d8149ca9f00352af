// Package testutil contains helper builders used across tests to script
// completion backends and capture dispatch events with little boilerplate.
// These helpers are not intended for production usage.
package testutil
