// Package ai provides factory functions for creating generation adapters.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	geminillm "github.com/custodia-labs/sportscom/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/sportscom/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sportscom/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sportscom/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of generation service initialisation.
type InitResult struct {
	LLMService driven.LLMService
	Warnings   []string // Non-fatal issues; chat falls back to canned replies.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the throttled generation service. When ping is set the
// provider is contacted once; a failed ping is reported as a warning but
// the service is kept, since outages are usually transient.
func Init(ctx context.Context, settings *domain.GenerationSettings, ping bool) *InitResult {
	result := &InitResult{}
	if settings == nil || !settings.IsConfigured() {
		result.Warnings = append(result.Warnings, unconfiguredWarning(settings))
		return result
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("generation disabled: %v", err))
		return result
	}

	if ping {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := svc.Ping(pingCtx); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s unreachable (%v), replies will fall back until it recovers", settings.Provider, err))
		}
	}

	result.LLMService = ratelimit.Wrap(svc, ratelimit.NewLimiter(ratelimit.Config{
		RequestsPerSecond: settings.RatePerSecond,
		Burst:             settings.Burst,
	}))
	return result
}

func unconfiguredWarning(settings *domain.GenerationSettings) string {
	if settings == nil || !settings.Provider.IsValid() {
		return "generation disabled: no valid provider configured"
	}
	if settings.Provider == domain.AIProviderGemini {
		return "generation disabled: GEMINI_API_KEY not set"
	}
	return fmt.Sprintf("generation disabled: %s API key not set", settings.Provider)
}

// ValidateLLMConfig validates a generation configuration by creating a
// service and pinging it.
func ValidateLLMConfig(settings *domain.GenerationSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the provider adapter for settings, without
// throttling. Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.GenerationSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return createGeminiLLM(settings)

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// DefaultModel returns the model used for provider when none is set.
func DefaultModel(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGemini:
		return geminillm.DefaultLLMModel
	case domain.AIProviderOpenAI:
		return openaillm.DefaultLLMModel
	case domain.AIProviderOllama:
		return ollamallm.DefaultLLMModel
	default:
		return ""
	}
}

// modelFor drops a Gemini model name left over from the defaults when
// another provider is selected, so that provider's default applies.
func modelFor(settings *domain.GenerationSettings) string {
	if settings.Provider != domain.AIProviderGemini && strings.HasPrefix(settings.Model, "gemini-") {
		return ""
	}
	return settings.Model
}

// createGeminiLLM creates a Gemini LLM service.
func createGeminiLLM(settings *domain.GenerationSettings) (driven.LLMService, error) {
	return geminillm.NewLLMService(context.Background(), geminillm.LLMConfig{
		APIKey:  settings.APIKey,
		Model:   modelFor(settings),
		BaseURL: settings.BaseURL,
		Timeout: settings.Timeout,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.GenerationSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   modelFor(settings),
		Timeout: settings.Timeout,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.GenerationSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   modelFor(settings),
		Timeout: settings.Timeout,
	})
}
