package driven

import "context"

// CompletionInput is a single completion request to a backend.
type CompletionInput struct {
	// System is the system prompt, empty when not used.
	System string

	// User is the user prompt.
	User string

	// MaxTokens caps the response length, 0 for the backend default.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float64

	// JSONMode requests structured JSON output from backends that
	// support enforcing it. Backends without native support ignore it;
	// the prompt carries the instruction regardless.
	JSONMode bool
}

// CompletionOutput is the backend's response to one completion call.
type CompletionOutput struct {
	// Text is the response text with any provider framing removed.
	Text string

	// Raw is the unprocessed response text, kept for diagnostics.
	Raw string

	// TokensUsed is the total tokens consumed, 0 when unreported.
	TokensUsed int
}

// CompletionService generates text completions from an LLM backend.
type CompletionService interface {
	// Complete generates a completion for the given input.
	Complete(ctx context.Context, input CompletionInput) (*CompletionOutput, error)

	// ModelName returns the model identifier in use.
	ModelName() string

	// Ping checks that the backend is reachable and the credentials
	// are valid.
	Ping(ctx context.Context) error

	// Close releases any resources held by the service.
	Close() error
}
