package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.AIConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_ValidateGeneration_NilConfig(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateGeneration(nil)

	// nil config returns nil (nothing to validate)
	assert.NoError(t, err)
}

func TestConfigValidator_ValidateGeneration_Unconfigured(t *testing.T) {
	validator := NewConfigValidator()

	// Gemini without a key is not configured, so nothing is contacted.
	err := validator.ValidateGeneration(&domain.GenerationSettings{Provider: domain.AIProviderGemini})

	assert.NoError(t, err)
}

func TestConfigValidator_ValidateGeneration_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateGeneration(&domain.GenerationSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})

	assert.NoError(t, err)
}

func TestConfigValidator_ValidateGeneration_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateGeneration(&domain.GenerationSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "bad",
		BaseURL:  server.URL,
	})

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}
