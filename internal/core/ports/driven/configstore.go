package driven

import "time"

// ConfigStore persists user settings as flat dot keys such as
// "retrieval.top_k". Typed getters return the zero value when a key is
// missing or holds something of another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	// GetInt truncates floats.
	GetInt(key string) int
	// GetFloat widens integers.
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string
	// GetDuration also parses strings like "30s".
	GetDuration(key string) time.Duration

	Set(key string, value any) error
	Save() error
	Load() error

	// Path names the backing file, or a placeholder for stores without one.
	Path() string
}
