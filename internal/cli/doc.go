// Package cli wires configuration, backends and the recruiting pipeline
// into the recruitmesh command tree.
package cli
