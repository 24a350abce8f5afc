package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/adapters/driven/schema"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

const completionTestSchema = `{
  "type": "object",
  "properties": {
    "score": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["score"],
  "additionalProperties": false
}`

func compileTestSchema(t *testing.T, definition string) driven.Schema {
	t.Helper()
	compiled, err := schema.NewCompiler().Compile(definition)
	require.NoError(t, err)
	return compiled
}

func TestSchemaCompleterValidFirstAttempt(t *testing.T) {
	backend := &mockCompletionService{
		responses: []string{`{"score": 0.8}`},
		tokens:    []int{10},
	}
	completer := NewSchemaCompleter(backend)

	result, err := completer.Complete(context.Background(), CompletionRequest{
		System: "judge things",
		User:   "judge this",
		Schema: compileTestSchema(t, completionTestSchema),
	})
	require.NoError(t, err)

	var parsed struct {
		Score float64 `json:"score"`
	}
	require.NoError(t, result.Decode(&parsed))
	assert.InDelta(t, 0.8, parsed.Score, 0.001)
	assert.Equal(t, 10, result.TokensUsed)
	assert.Equal(t, "mock-model", result.Model)
	assert.Len(t, backend.calls, 1)
}

func TestSchemaCompleterRepairsOnce(t *testing.T) {
	backend := &mockCompletionService{
		responses: []string{`{"score": 2}`, `{"score": 0.5}`},
		tokens:    []int{10, 7},
	}
	completer := NewSchemaCompleter(backend)

	result, err := completer.Complete(context.Background(), CompletionRequest{
		User:   "judge this",
		Schema: compileTestSchema(t, completionTestSchema),
	})
	require.NoError(t, err)
	require.Len(t, backend.calls, 2)

	// Token usage accumulates across attempts, including the failed one.
	assert.Equal(t, 17, result.TokensUsed)

	// The repair prompt carries the violations and the bad response.
	repair := backend.calls[1].User
	assert.Contains(t, repair, "score")
	assert.Contains(t, repair, `{"score": 2}`)
}

func TestSchemaCompleterExhaustsRepairs(t *testing.T) {
	backend := &mockCompletionService{
		responses: []string{`{"score": 2}`},
	}
	completer := NewSchemaCompleter(backend)

	_, err := completer.Complete(context.Background(), CompletionRequest{
		User:   "judge this",
		Schema: compileTestSchema(t, completionTestSchema),
	})
	require.Error(t, err)

	var schemaErr *domain.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 2, schemaErr.Attempts)
	assert.NotEmpty(t, schemaErr.Violations)
}

func TestSchemaCompleterZeroRepairPolicy(t *testing.T) {
	backend := &mockCompletionService{
		responses: []string{`not json at all`},
	}
	completer := NewSchemaCompleterWithPolicy(backend, RetryPolicy{MaxRepairs: 0})

	_, err := completer.Complete(context.Background(), CompletionRequest{
		User:   "judge this",
		Schema: compileTestSchema(t, completionTestSchema),
	})
	require.Error(t, err)

	var schemaErr *domain.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 1, schemaErr.Attempts)
	assert.Len(t, backend.calls, 1)
}

func TestSchemaCompleterBackendError(t *testing.T) {
	backend := &mockCompletionService{err: errors.New("connection refused")}
	completer := NewSchemaCompleter(backend)

	_, err := completer.Complete(context.Background(), CompletionRequest{
		User:   "judge this",
		Schema: compileTestSchema(t, completionTestSchema),
	})
	assert.ErrorContains(t, err, "completion backend")
}

func TestSchemaCompleterNilSchema(t *testing.T) {
	completer := NewSchemaCompleter(&mockCompletionService{})
	_, err := completer.Complete(context.Background(), CompletionRequest{User: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSchemaCompleterSystemPromptCarriesSchema(t *testing.T) {
	backend := &mockCompletionService{responses: []string{`{"score": 0.5}`}}
	completer := NewSchemaCompleter(backend)

	_, err := completer.Complete(context.Background(), CompletionRequest{
		System: "judge things",
		User:   "judge this",
		Schema: compileTestSchema(t, completionTestSchema),
	})
	require.NoError(t, err)
	require.Len(t, backend.calls, 1)
	assert.Contains(t, backend.calls[0].System, "judge things")
	assert.Contains(t, backend.calls[0].System, "JSON Schema")
	assert.Contains(t, backend.calls[0].System, `"score"`)
	assert.True(t, backend.calls[0].JSONMode)
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language id", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  \n{\"a\": 1}\n", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.input))
		})
	}
}
