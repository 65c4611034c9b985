package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// mockAIValidator records what it was asked to validate.
type mockAIValidator struct {
	err    error
	called *domain.GenerationSettings
}

func (m *mockAIValidator) ValidateGeneration(config *domain.GenerationSettings) error {
	m.called = config
	return m.err
}

func newTestSettings(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)
	svc.SetEnvLookup(func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	})
	return svc, store
}

func TestSettingsService_GetDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.False(t, settings.Generation.IsConfigured())
}

func TestSettingsService_GetFromStore(t *testing.T) {
	svc, store := newTestSettings(nil)
	require.NoError(t, store.Set(KeyTopK, 5))
	require.NoError(t, store.Set(KeyNormalization, "chunk"))
	require.NoError(t, store.Set(KeyProvider, "ollama"))
	require.NoError(t, store.Set(KeyBaseURL, "http://localhost:11434"))
	require.NoError(t, store.Set(KeyTimeout, "45s"))
	require.NoError(t, store.Set(KeyEvents, []string{"Cricket:cricket|box cricket", ":bad"}))
	require.NoError(t, store.Set(KeyBlocklist, []string{"noob"}))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, 5, settings.Retrieval.TopK)
	assert.Equal(t, domain.NormalizeChunk, settings.Retrieval.Normalization)
	assert.Equal(t, domain.AIProviderOllama, settings.Generation.Provider)
	assert.Equal(t, "http://localhost:11434", settings.Generation.BaseURL)
	assert.Equal(t, 45*time.Second, settings.Generation.Timeout)
	assert.Equal(t, []string{"noob"}, settings.Response.Blocklist)
	require.Len(t, settings.Retrieval.Events, 1)
	assert.Equal(t, domain.EventLabel("Cricket"), settings.Retrieval.Events[0].Label)
	assert.Equal(t, []string{"cricket", "box cricket"}, settings.Retrieval.Events[0].Terms)
}

func TestSettingsService_ZeroValuesHonoured(t *testing.T) {
	svc, store := newTestSettings(nil)
	require.NoError(t, store.Set(KeyContextBudget, 0))
	require.NoError(t, store.Set(KeyStopWords, false))
	require.NoError(t, store.Set(KeyRetry, false))
	require.NoError(t, store.Set(KeyTemperature, 0.0))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, 0, settings.Retrieval.ContextBudget)
	assert.False(t, settings.Retrieval.StopWords)
	assert.False(t, settings.Generation.Retry)
	assert.Zero(t, settings.Generation.Temperature)
}

func TestSettingsService_InvalidStoredValuesUseDefaults(t *testing.T) {
	svc, store := newTestSettings(nil)
	require.NoError(t, store.Set(KeyProvider, "skynet"))
	require.NoError(t, store.Set(KeyNormalization, "cosine"))
	require.NoError(t, store.Set(KeyTimeout, "soon"))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderGemini, settings.Generation.Provider)
	assert.Equal(t, domain.NormalizeQuery, settings.Retrieval.Normalization)
	assert.Equal(t, 30*time.Second, settings.Generation.Timeout)
}

func TestSettingsService_EnvOverrides(t *testing.T) {
	svc, store := newTestSettings(map[string]string{
		EnvGeminiAPIKey:   "env-key",
		EnvGeminiModel:    "gemini-2.0-flash",
		EnvTemperature:    "0.2",
		EnvMaxTokens:      "400",
		EnvAllowedOrigins: "https://a.example, https://b.example",
		EnvPort:           "8080",
		EnvKnowledge:      "/data/chunks.txt",
	})
	require.NoError(t, store.Set(KeyAPIKey, "file-key"))
	require.NoError(t, store.Set(KeyServerPort, 9000))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.Generation.APIKey)
	assert.Equal(t, "gemini-2.0-flash", settings.Generation.Model)
	assert.InDelta(t, 0.2, settings.Generation.Temperature, 1e-9)
	assert.Equal(t, 400, settings.Generation.MaxTokens)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, settings.Server.AllowedOrigins)
	assert.Equal(t, 8080, settings.Server.Port)
	assert.Equal(t, "/data/chunks.txt", settings.Knowledge.Path)
	assert.True(t, settings.Generation.IsConfigured())
}

func TestSettingsService_EnvIgnoredWhenInvalid(t *testing.T) {
	svc, _ := newTestSettings(map[string]string{
		EnvTemperature: "warm",
		EnvPort:        "http",
		EnvProvider:    "skynet",
		EnvHost:        "   ",
	})

	settings, err := svc.Get()

	require.NoError(t, err)
	d := domain.DefaultAppSettings()
	assert.InDelta(t, d.Generation.Temperature, settings.Generation.Temperature, 1e-9)
	assert.Equal(t, d.Server.Port, settings.Server.Port)
	assert.Equal(t, d.Generation.Provider, settings.Generation.Provider)
	assert.Equal(t, d.Server.Host, settings.Server.Host)
}

func TestSettingsService_GeminiEnvOnlyForGemini(t *testing.T) {
	svc, _ := newTestSettings(map[string]string{
		EnvProvider:     "ollama",
		EnvGeminiAPIKey: "env-key",
		EnvGeminiModel:  "gemini-2.0-flash",
	})

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Generation.Provider)
	assert.Empty(t, settings.Generation.APIKey)
	assert.Equal(t, domain.DefaultAppSettings().Generation.Model, settings.Generation.Model)
}

func TestSettingsService_SetCoercesStrings(t *testing.T) {
	svc, store := newTestSettings(nil)

	require.NoError(t, svc.Set(KeyTopK, "7"))
	require.NoError(t, svc.Set(KeyMinScore, "0.25"))
	require.NoError(t, svc.Set(KeyRetry, "false"))
	require.NoError(t, svc.Set(KeyExtraStopWords, "bhai, yaar,,"))
	require.NoError(t, svc.Set(KeyTimeout, "1m30s"))
	require.NoError(t, svc.Set(KeyTemperature, 1))

	assert.Equal(t, 7, store.GetInt(KeyTopK))
	assert.InDelta(t, 0.25, store.GetFloat(KeyMinScore), 1e-9)
	assert.False(t, store.GetBool(KeyRetry))
	assert.Equal(t, []string{"bhai", "yaar"}, store.GetStringSlice(KeyExtraStopWords))
	assert.Equal(t, 90*time.Second, store.GetDuration(KeyTimeout))
	assert.InDelta(t, 1.0, store.GetFloat(KeyTemperature), 1e-9)

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, settings.Retrieval.TopK)
	assert.Equal(t, []string{"bhai", "yaar"}, settings.Retrieval.ExtraStopWords)
}

func TestSettingsService_SetRejectsInvalid(t *testing.T) {
	svc, store := newTestSettings(nil)

	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"unknown key", "retrieval.magic", "1"},
		{"bad int", KeyTopK, "three"},
		{"bad float", KeyMinScore, "high"},
		{"bad bool", KeyRetry, "maybe"},
		{"bad duration", KeyTimeout, "soon"},
		{"wrong type", KeyModel, 42},
		{"bad provider", KeyProvider, "skynet"},
		{"bad normalization", KeyNormalization, "cosine"},
		{"bad event", KeyEvents, "Cricket:cricket, :orphan"},
		{"zero top_k", KeyTopK, "0"},
		{"negative top_k", KeyTopK, -2},
		{"negative context budget", KeyContextBudget, "-1"},
		{"negative max terms", KeyMaxTerms, -5},
		{"negative detail length", KeyDetailMaxLength, "-1"},
		{"negative min length", KeyMinLength, "-1"},
		{"max below default min", KeyMaxLength, "1"},
		{"min above default max", KeyMinLength, "801"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Set(tt.key, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.Keys())
}

func TestSettingsService_SetLengthWindow(t *testing.T) {
	svc, store := newTestSettings(nil)

	require.NoError(t, svc.Set(KeyMaxLength, "300"))
	require.NoError(t, svc.Set(KeyMinLength, "300"))

	err := svc.Set(KeyMaxLength, "299")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 300, store.GetInt(KeyMaxLength))

	// Zero lifts the ceiling, so any minimum fits.
	require.NoError(t, svc.Set(KeyMaxLength, 0))
	require.NoError(t, svc.Set(KeyMinLength, 5000))

	err = svc.Set(KeyMaxLength, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_ValidateGeneration(t *testing.T) {
	store := memory.NewConfigStore()
	validator := &mockAIValidator{err: errors.New("unreachable")}
	svc := NewSettingsService(store, validator)
	svc.SetEnvLookup(func(string) (string, bool) { return "", false })
	require.NoError(t, store.Set(KeyProvider, "ollama"))

	err := svc.ValidateGeneration()

	assert.EqualError(t, err, "unreachable")
	require.NotNil(t, validator.called)
	assert.Equal(t, domain.AIProviderOllama, validator.called.Provider)
}

func TestSettingsService_ValidateGenerationWithoutValidator(t *testing.T) {
	svc, _ := newTestSettings(nil)
	assert.NoError(t, svc.ValidateGeneration())
}

func TestKnownKeys_Sorted(t *testing.T) {
	keys := KnownKeys()
	require.NotEmpty(t, keys)
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyTopK)
}
