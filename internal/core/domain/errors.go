package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCompletionProvider indicates no completion backend is
	// configured. This is a deployment error: it is surfaced
	// immediately and the system never attempts a degraded mode.
	ErrNoCompletionProvider = errors.New("no completion provider configured")

	// ErrCompletionUnavailable indicates the configured completion
	// backend could not be reached.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrSourceUnavailable indicates a source connector is not
	// connected or misconfigured.
	ErrSourceUnavailable = errors.New("source unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates the connector requires authentication
	// but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the authentication has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// SchemaViolation describes one way a value failed schema validation.
type SchemaViolation struct {
	// Field is the path of the offending field, "(root)" at top level.
	Field string

	// Message describes the violation.
	Message string
}

// SchemaValidationError indicates completion output never matched the
// schema, even after the repair attempts allowed by the retry policy.
// It is terminal for the call; callers decide whether to abort the
// larger operation or proceed in a degraded mode.
type SchemaValidationError struct {
	// Violations lists the failures from the final attempt.
	Violations []SchemaViolation

	// Raw is the last raw backend response.
	Raw string

	// Attempts is the number of completion calls made.
	Attempts int
}

// Error implements the error interface.
func (e *SchemaValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "completion output failed schema validation after %d attempts:", e.Attempts)
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, "\n  %s: %s", v.Field, v.Message)
	}
	return sb.String()
}
