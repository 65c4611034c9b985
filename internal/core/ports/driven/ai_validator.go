package driven

import "github.com/custodia-labs/sportscom/internal/core/domain"

// AIConfigValidator validates generation provider configurations by
// testing connectivity to the underlying service.
type AIConfigValidator interface {
	// ValidateGeneration pings the configured provider.
	// Returns nil if the configuration is valid or not configured.
	ValidateGeneration(config *domain.GenerationSettings) error
}
