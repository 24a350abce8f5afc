// Package driving defines the driving ports (primary ports) of the
// hexagonal architecture. These are the interfaces through which the
// outside world (CLI, MCP server) drives the application core.
//
// Import rules: this package may import only the domain package and
// the standard library.
package driving
