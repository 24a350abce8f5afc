package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a completion backend provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderAnthropic, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderAnthropic || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// CompletionSettings holds completion provider configuration.
type CompletionSettings struct {
	// Provider is the completion backend provider.
	Provider AIProvider

	// Model is the model name, empty for the provider default.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for Anthropic/OpenAI).
	APIKey string
}

// IsConfigured returns true if the completion provider is set up.
func (c CompletionSettings) IsConfigured() bool {
	if !c.Provider.IsValid() {
		return false
	}
	if c.Provider.RequiresAPIKey() && c.APIKey == "" {
		return false
	}
	return true
}

// PipelineSettings holds batch pipeline tuning.
type PipelineSettings struct {
	// InterTopicDelay is the pause between topics, a throughput and
	// fairness control for backend rate limits.
	InterTopicDelay time.Duration

	// MaxContactRecords caps the records submitted to the
	// contact-extraction stage per topic.
	MaxContactRecords int
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	// Primary is the preferred completion provider.
	Primary CompletionSettings

	// Fallback is used when the primary is not configured.
	Fallback CompletionSettings

	// Pipeline tunes batch runs.
	Pipeline PipelineSettings
}

// DefaultAppSettings returns the default application settings.
func DefaultAppSettings() *AppSettings {
	return &AppSettings{
		Primary:  CompletionSettings{Provider: AIProviderAnthropic},
		Fallback: CompletionSettings{Provider: AIProviderOpenAI},
		Pipeline: PipelineSettings{
			InterTopicDelay:   2 * time.Second,
			MaxContactRecords: 15,
		},
	}
}
