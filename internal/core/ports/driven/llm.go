// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// Generator is the single operation the chat pipeline needs from a
// language model. Tests substitute a deterministic stub.
type Generator interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// LLMService is a Generator backed by a concrete provider.
//
// Implementations include:
//   - Gemini (default)
//   - OpenAI and compatible servers
//   - Ollama (local models)
type LLMService interface {
	Generator

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight request.
	// Used at startup and by `config show` to report connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// SystemInstruction is the persona text sent alongside the prompt.
	SystemInstruction string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// TopK and TopP are sampling controls. Zero leaves the provider default.
	TopK int
	TopP float64
}
