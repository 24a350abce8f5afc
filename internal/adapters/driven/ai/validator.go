package ai

import (
	"context"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.CompletionConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates completion provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new completion config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateCompletion validates a completion configuration by pinging
// the provider.
func (v *ConfigValidator) ValidateCompletion(config *domain.CompletionSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}

	svc, err := CreateCompletionService(config)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
