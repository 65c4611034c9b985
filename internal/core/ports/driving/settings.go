package driving

import "github.com/custodia-labs/sportscom/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns defaults overlaid with the config file and environment.
	Get() (*domain.AppSettings, error)

	// Set stores one configuration key and persists it.
	Set(key string, value any) error

	// Defaults returns default settings.
	Defaults() domain.AppSettings

	// ValidateGeneration pings the configured generation provider.
	ValidateGeneration() error
}
