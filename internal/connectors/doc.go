// Package connectors provides implementations of the SourceConnector
// interface for the supported content sources. Each connector knows how
// to search one source and fetch full content for its records.
//
// Connectors are optional at runtime: the application is assembled with
// whatever subset is configured.
package connectors
