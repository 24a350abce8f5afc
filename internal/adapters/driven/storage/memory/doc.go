// Package memory provides in-memory store implementations, used in
// tests and ephemeral runs. All stores are safe for concurrent use.
package memory
