package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

func TestCreateCompletionService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.CompletionSettings
		wantNil   bool
		wantErr   bool
		wantModel string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.CompletionSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.CompletionSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
			wantModel: "llama3.2",
		},
		{
			name: "openai provider creates service",
			settings: &domain.CompletionSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantModel: "gpt-4o-mini",
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.CompletionSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-sonnet-4-20250514",
			},
			wantModel: "claude-sonnet-4-20250514",
		},
		{
			name: "unknown provider is not configured",
			settings: &domain.CompletionSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
		{
			name: "cloud provider without key is not configured",
			settings: &domain.CompletionSettings{
				Provider: domain.AIProviderAnthropic,
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateCompletionService(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestSelectCompletionServiceNoneConfigured(t *testing.T) {
	_, err := SelectCompletionService(&domain.AppSettings{
		Primary:  domain.CompletionSettings{Provider: domain.AIProviderAnthropic},
		Fallback: domain.CompletionSettings{Provider: domain.AIProviderOpenAI},
	})
	assert.ErrorIs(t, err, domain.ErrNoCompletionProvider)
}

func TestValidateCompletionUnconfigured(t *testing.T) {
	validator := NewConfigValidator()
	assert.NoError(t, validator.ValidateCompletion(nil))
	assert.NoError(t, validator.ValidateCompletion(&domain.CompletionSettings{}))
}
