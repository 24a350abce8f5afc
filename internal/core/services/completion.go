package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/logger"
)

const (
	jsonOnlyInstruction = "Respond with JSON only. No prose, no code fences, no explanation. " +
		"The response must conform to this JSON Schema:\n\n%s"

	repairPromptTemplate = "Your previous response was not valid against the required JSON Schema. " +
		"Problems:\n%s\n\nYour previous response was:\n%s\n\nProduce a corrected response. Respond with JSON only."

	badOutputSnippetLen = 200
)

// RetryPolicy controls schema-failure repair behaviour.
type RetryPolicy struct {
	// MaxRepairs is the number of corrective follow-up calls made
	// after a failed validation. 0 disables repair entirely.
	MaxRepairs int
}

// DefaultRetryPolicy returns the standard policy of one repair attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRepairs: 1}
}

// CompletionRequest is a schema-constrained completion request.
type CompletionRequest struct {
	// System is the caller's system prompt; the JSON-only instruction
	// and schema are appended to it.
	System string

	// User is the user prompt.
	User string

	// Schema is the contract the response must satisfy.
	Schema driven.Schema

	// MaxTokens caps the response length, 0 for the backend default.
	MaxTokens int

	// Temperature controls sampling randomness.
	Temperature float64
}

// CompletionResult is a validated structured completion.
type CompletionResult struct {
	// Data is the schema-conforming JSON payload.
	Data json.RawMessage

	// Raw is the unprocessed backend response that produced Data.
	Raw string

	// Model is the model that produced the result.
	Model string

	// TokensUsed is the total tokens across all attempts, including
	// failed ones.
	TokensUsed int
}

// Decode unmarshals the validated payload into v.
func (r *CompletionResult) Decode(v any) error {
	return json.Unmarshal(r.Data, v)
}

// SchemaCompleter wraps a completion backend with schema validation
// and bounded repair. Every structured AI call in the system goes
// through it.
type SchemaCompleter struct {
	backend driven.CompletionService
	policy  RetryPolicy
}

// NewSchemaCompleter creates a completer with the default retry policy.
func NewSchemaCompleter(backend driven.CompletionService) *SchemaCompleter {
	return NewSchemaCompleterWithPolicy(backend, DefaultRetryPolicy())
}

// NewSchemaCompleterWithPolicy creates a completer with an explicit
// retry policy.
func NewSchemaCompleterWithPolicy(backend driven.CompletionService, policy RetryPolicy) *SchemaCompleter {
	if policy.MaxRepairs < 0 {
		policy.MaxRepairs = 0
	}
	return &SchemaCompleter{backend: backend, policy: policy}
}

// ModelName returns the backing model identifier.
func (c *SchemaCompleter) ModelName() string {
	return c.backend.ModelName()
}

// Complete runs the request and validates the response against the
// schema, repairing up to the policy's limit. A response that never
// validates returns *domain.SchemaValidationError.
func (c *SchemaCompleter) Complete(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	if req.Schema == nil {
		return nil, fmt.Errorf("%w: completion request requires a schema", domain.ErrInvalidInput)
	}

	system := strings.TrimSpace(req.System) + "\n\n" +
		fmt.Sprintf(jsonOnlyInstruction, req.Schema.Definition())

	userPrompt := req.User
	totalTokens := 0
	attempts := 0
	var lastViolations []domain.SchemaViolation
	var lastRaw string

	for attempts <= c.policy.MaxRepairs {
		attempts++
		out, err := c.backend.Complete(ctx, driven.CompletionInput{
			System:      system,
			User:        userPrompt,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
			JSONMode:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("completion backend: %w", err)
		}
		totalTokens += out.TokensUsed

		candidate := stripCodeFence(out.Text)
		violations := validateCandidate(req.Schema, candidate)
		if violations == nil {
			return &CompletionResult{
				Data:       json.RawMessage(candidate),
				Raw:        out.Raw,
				Model:      c.backend.ModelName(),
				TokensUsed: totalTokens,
			}, nil
		}

		lastViolations = violations
		lastRaw = out.Raw
		logger.Warn("completion attempt %d failed schema validation (%d violations)", attempts, len(violations))
		userPrompt = buildRepairPrompt(violations, out.Text)
	}

	return nil, &domain.SchemaValidationError{
		Violations: lastViolations,
		Raw:        lastRaw,
		Attempts:   attempts,
	}
}

// validateCandidate returns nil when the candidate is valid JSON that
// satisfies the schema.
func validateCandidate(schema driven.Schema, candidate string) []domain.SchemaViolation {
	trimmed := strings.TrimSpace(candidate)
	var probe any
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		snippet := trimmed
		if len(snippet) > badOutputSnippetLen {
			snippet = snippet[:badOutputSnippetLen]
		}
		return []domain.SchemaViolation{{
			Field:   "(root)",
			Message: fmt.Sprintf("response is not valid JSON (%v): %q", err, snippet),
		}}
	}
	return schema.Validate([]byte(trimmed))
}

func buildRepairPrompt(violations []domain.SchemaViolation, previous string) string {
	var problems strings.Builder
	for i, v := range violations {
		fmt.Fprintf(&problems, "%d. %s: %s\n", i+1, v.Field, v.Message)
	}
	return fmt.Sprintf(repairPromptTemplate, problems.String(), previous)
}

// stripCodeFence removes a markdown code fence wrapping the response,
// a common failure mode even when the prompt forbids it.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		return strings.TrimSpace(trimmed)
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		// A language identifier may follow the opening fence.
		if nl := strings.Index(trimmed, "\n"); nl >= 0 {
			first := trimmed[:nl]
			if len(first) < 20 && !strings.Contains(first, " ") && !strings.Contains(first, "{") {
				trimmed = trimmed[nl+1:]
			}
		}
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
