package driving

import "github.com/custodia-labs/topicos/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the current settings, with defaults filled in for
	// anything unset.
	Get() (*domain.AppSettings, error)

	// SetCompletion validates and stores completion provider settings,
	// for the primary slot or the fallback slot.
	SetCompletion(settings domain.CompletionSettings, fallback bool) error

	// SetPipeline stores batch pipeline tuning.
	SetPipeline(settings domain.PipelineSettings) error
}
