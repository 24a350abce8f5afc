// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants search the user's sources and read composed
// topic context.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingContextService is returned when the context service is not provided.
var ErrMissingContextService = errors.New("mcp: context service is required")
