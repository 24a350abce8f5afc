package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/topicos/internal/core/domain"
	"github.com/custodia-labs/topicos/internal/core/ports/driven"
	"github.com/custodia-labs/topicos/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// Configuration keys.
//
//nolint:gosec // configuration key names, not credentials
const (
	keyCompletionProvider = "completion.provider"
	keyCompletionModel    = "completion.model"
	keyCompletionBaseURL  = "completion.base_url"
	keyCompletionAPIKey   = "completion.api_key"

	keyFallbackProvider = "completion.fallback.provider"
	keyFallbackModel    = "completion.fallback.model"
	keyFallbackBaseURL  = "completion.fallback.base_url"
	keyFallbackAPIKey   = "completion.fallback.api_key"

	keyPipelineDelayMS           = "pipeline.inter_topic_delay_ms"
	keyPipelineMaxContactRecords = "pipeline.max_contact_records"
)

// SettingsService manages application settings backed by the config
// store, validating completion settings against the live backend
// before persisting them.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.CompletionConfigValidator
}

// NewSettingsService creates a settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.CompletionConfigValidator) *SettingsService {
	return &SettingsService{configStore: configStore, aiValidator: aiValidator}
}

// Get returns the current settings with defaults filled in.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	if p := s.getProvider(keyCompletionProvider); p != "" {
		settings.Primary.Provider = p
	}
	settings.Primary.Model = s.configStore.GetString(keyCompletionModel)
	settings.Primary.BaseURL = s.configStore.GetString(keyCompletionBaseURL)
	settings.Primary.APIKey = s.configStore.GetString(keyCompletionAPIKey)

	if p := s.getProvider(keyFallbackProvider); p != "" {
		settings.Fallback.Provider = p
	}
	settings.Fallback.Model = s.configStore.GetString(keyFallbackModel)
	settings.Fallback.BaseURL = s.configStore.GetString(keyFallbackBaseURL)
	settings.Fallback.APIKey = s.configStore.GetString(keyFallbackAPIKey)

	if ms := s.configStore.GetInt(keyPipelineDelayMS); ms > 0 {
		settings.Pipeline.InterTopicDelay = time.Duration(ms) * time.Millisecond
	}
	if n := s.configStore.GetInt(keyPipelineMaxContactRecords); n > 0 {
		settings.Pipeline.MaxContactRecords = n
	}

	return settings, nil
}

// SetCompletion validates and stores completion provider settings.
func (s *SettingsService) SetCompletion(settings domain.CompletionSettings, fallback bool) error {
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Provider)
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return fmt.Errorf("%w: provider %s requires an API key", domain.ErrInvalidInput, settings.Provider)
	}

	if err := s.aiValidator.ValidateCompletion(&settings); err != nil {
		return fmt.Errorf("validate completion settings: %w", err)
	}

	keys := [4]string{keyCompletionProvider, keyCompletionModel, keyCompletionBaseURL, keyCompletionAPIKey}
	if fallback {
		keys = [4]string{keyFallbackProvider, keyFallbackModel, keyFallbackBaseURL, keyFallbackAPIKey}
	}

	values := [4]any{settings.Provider.String(), settings.Model, settings.BaseURL, settings.APIKey}
	for i, key := range keys {
		if err := s.configStore.Set(key, values[i]); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return s.configStore.Save()
}

// SetPipeline stores batch pipeline tuning.
func (s *SettingsService) SetPipeline(settings domain.PipelineSettings) error {
	if settings.InterTopicDelay < 0 || settings.MaxContactRecords < 0 {
		return fmt.Errorf("%w: pipeline settings must be non-negative", domain.ErrInvalidInput)
	}
	if err := s.configStore.Set(keyPipelineDelayMS, int(settings.InterTopicDelay/time.Millisecond)); err != nil {
		return fmt.Errorf("set %s: %w", keyPipelineDelayMS, err)
	}
	if err := s.configStore.Set(keyPipelineMaxContactRecords, settings.MaxContactRecords); err != nil {
		return fmt.Errorf("set %s: %w", keyPipelineMaxContactRecords, err)
	}
	return s.configStore.Save()
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	p := domain.AIProvider(s.configStore.GetString(key))
	if !p.IsValid() {
		return ""
	}
	return p
}
