package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/topicos/internal/core/domain"
)

// mockConfigStore implements driven.ConfigStore backed by a map.
type mockConfigStore struct {
	values map[string]any
	saved  int
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { m.saved++; return nil }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/test-config.toml" }

// mockAIValidator implements driven.CompletionConfigValidator.
type mockAIValidator struct {
	err   error
	calls int
}

func (m *mockAIValidator) ValidateCompletion(_ *domain.CompletionSettings) error {
	m.calls++
	return m.err
}

func TestSettingsGetDefaults(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), &mockAIValidator{})

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.Primary.Provider)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Fallback.Provider)
	assert.Equal(t, 2*time.Second, settings.Pipeline.InterTopicDelay)
}

func TestSettingsSetCompletionPersists(t *testing.T) {
	store := newMockConfigStore()
	validator := &mockAIValidator{}
	service := NewSettingsService(store, validator)

	err := service.SetCompletion(domain.CompletionSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3",
		BaseURL:  "http://localhost:11434",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, validator.calls)
	assert.Equal(t, 1, store.saved)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Primary.Provider)
	assert.Equal(t, "llama3", settings.Primary.Model)
	assert.Equal(t, "http://localhost:11434", settings.Primary.BaseURL)
}

func TestSettingsSetCompletionFallbackSlot(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, &mockAIValidator{})

	err := service.SetCompletion(domain.CompletionSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
	}, true)
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", settings.Fallback.APIKey)
	// The primary slot is untouched.
	assert.Empty(t, settings.Primary.APIKey)
}

func TestSettingsSetCompletionRejectsMissingKey(t *testing.T) {
	validator := &mockAIValidator{}
	service := NewSettingsService(newMockConfigStore(), validator)

	err := service.SetCompletion(domain.CompletionSettings{
		Provider: domain.AIProviderAnthropic,
	}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, validator.calls, "invalid settings must not reach the backend check")
}

func TestSettingsSetCompletionValidationFailure(t *testing.T) {
	store := newMockConfigStore()
	validator := &mockAIValidator{err: errors.New("401 unauthorized")}
	service := NewSettingsService(store, validator)

	err := service.SetCompletion(domain.CompletionSettings{
		Provider: domain.AIProviderAnthropic,
		APIKey:   "sk-bad",
	}, false)
	assert.ErrorContains(t, err, "401")
	assert.Zero(t, store.saved, "failed validation must not persist anything")
}

func TestSettingsSetPipeline(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, &mockAIValidator{})

	err := service.SetPipeline(domain.PipelineSettings{
		InterTopicDelay:   500 * time.Millisecond,
		MaxContactRecords: 10,
	})
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, settings.Pipeline.InterTopicDelay)
	assert.Equal(t, 10, settings.Pipeline.MaxContactRecords)

	err = service.SetPipeline(domain.PipelineSettings{InterTopicDelay: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
