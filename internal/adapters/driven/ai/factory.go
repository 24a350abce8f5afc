// Package ai provides factory functions for creating completion
// service adapters and routing between primary and fallback providers.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/topicos/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/topicos/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/topicos/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateCompletionService creates the appropriate completion service
// based on settings. Returns nil if the provider is not configured.
func CreateCompletionService(settings *domain.CompletionSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewCompletionService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewCompletionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewCompletionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", settings.Provider)
	}
}

// CreateAndValidateCompletionService creates a completion service and
// validates connectivity. Returns nil, nil when the settings are not
// configured.
func CreateAndValidateCompletionService(settings *domain.CompletionSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateCompletionService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'topicos settings completion' to fix",
			domain.ErrCompletionUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'topicos settings completion' to fix",
			domain.ErrCompletionUnavailable, err)
	}

	return svc, nil
}

// SelectCompletionService resolves the backend for a run: the primary
// provider when configured and reachable, otherwise the fallback.
// When neither slot yields a working backend the error is fatal; there
// is no degraded mode without a completion service.
func SelectCompletionService(settings *domain.AppSettings) (driven.CompletionService, error) {
	svc, primaryErr := CreateAndValidateCompletionService(&settings.Primary)
	if svc != nil {
		return svc, nil
	}
	if primaryErr != nil {
		logger.Warn("primary completion provider unavailable: %v", primaryErr)
	}

	svc, fallbackErr := CreateAndValidateCompletionService(&settings.Fallback)
	if svc != nil {
		logger.Info("using fallback completion provider %s", settings.Fallback.Provider)
		return svc, nil
	}
	if fallbackErr != nil {
		logger.Warn("fallback completion provider unavailable: %v", fallbackErr)
	}

	if primaryErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoCompletionProvider, primaryErr)
	}
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoCompletionProvider, fallbackErr)
	}
	return nil, domain.ErrNoCompletionProvider
}
