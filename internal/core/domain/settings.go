package domain

import (
	"net"
	"strconv"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a hosted or local generation provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is the OpenAI API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// AllAIProviders returns every provider in display order.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderGemini, AIProviderOpenAI, AIProviderOllama}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
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
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// Normalization selects how raw overlap scores are scaled.
type Normalization string

// Available normalisations.
const (
	// NormalizeNone keeps the raw sum of shared-token minimums.
	NormalizeNone Normalization = "none"

	// NormalizeQuery divides by the query's token total.
	NormalizeQuery Normalization = "query"

	// NormalizeChunk divides by the chunk's token total so long chunks
	// do not win on size alone.
	NormalizeChunk Normalization = "chunk"
)

// IsValid returns true if the normalisation is recognised.
func (n Normalization) IsValid() bool {
	switch n {
	case NormalizeNone, NormalizeQuery, NormalizeChunk:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (n Normalization) String() string {
	return string(n)
}

// Description returns a human-readable description of the normalisation.
func (n Normalization) Description() string {
	switch n {
	case NormalizeNone:
		return "Raw overlap count"
	case NormalizeQuery:
		return "Overlap divided by query length"
	case NormalizeChunk:
		return "Overlap divided by chunk length"
	default:
		return unknownDescription
	}
}

// KnowledgeSettings locates and segments the knowledge base.
type KnowledgeSettings struct {
	// Path is the knowledge-base text file.
	Path string

	// SystemPromptPath is the persona/system instruction file.
	SystemPromptPath string

	// Delimiter is a marker line separating chunks.
	// Empty means chunks are separated by blank lines.
	Delimiter string

	// MaxTerms caps fingerprint size to the most frequent terms. Zero keeps all.
	MaxTerms int
}

// RetrievalSettings controls scoring and context assembly.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per query.
	TopK int

	// MinScore is the exclusive lower bound a match must beat.
	MinScore float64

	// Normalization scales raw overlap scores.
	Normalization Normalization

	// StopWords enables the English stop-word filter.
	StopWords bool

	// ExtraStopWords are dropped in addition to the English list.
	ExtraStopWords []string

	// ContextBudget is the maximum context size in characters.
	ContextBudget int

	// Events is the catalog used for event isolation.
	Events EventCatalog
}

// GenerationSettings holds provider and sampling configuration.
type GenerationSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string

	// Temperature controls randomness.
	Temperature float64

	// MaxTokens is the maximum number of output tokens.
	MaxTokens int

	// TopK and TopP are sampling parameters; zero leaves provider defaults.
	TopK int
	TopP float64

	// Timeout bounds one generation call.
	Timeout time.Duration

	// Retry allows one retry after a transient failure.
	Retry bool

	// RatePerSecond and Burst throttle outbound calls. Zero disables throttling.
	RatePerSecond float64
	Burst         int
}

// IsConfigured returns true if the provider is set up.
func (g GenerationSettings) IsConfigured() bool {
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// ResponseSettings holds the post-generation policy.
type ResponseSettings struct {
	// MinLength and MaxLength bound reply length in characters.
	MinLength int
	MaxLength int

	// DetailMaxLength replaces MaxLength when the message contains DetailKeyword.
	DetailMaxLength int
	DetailKeyword   string

	// Blocklist holds terms that trigger the profanity rule.
	Blocklist []string
}

// MaxLengthFor returns the length ceiling that applies to a message.
func (r ResponseSettings) MaxLengthFor(message string) int {
	if r.DetailKeyword != "" && r.DetailMaxLength > 0 &&
		strings.Contains(strings.ToLower(message), strings.ToLower(r.DetailKeyword)) {
		return r.DetailMaxLength
	}
	return r.MaxLength
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AppSettings holds all application settings.
type AppSettings struct {
	Knowledge  KnowledgeSettings
	Retrieval  RetrievalSettings
	Generation GenerationSettings
	Response   ResponseSettings
	Server     ServerSettings
}

// DefaultBlocklist is the built-in profanity list.
func DefaultBlocklist() []string {
	return []string{
		"fuck", "fucking", "shit", "bitch", "bastard", "asshole", "dick",
		"chutiya", "bhenchod", "madarchod", "gandu", "bsdk", "bc", "mc",
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// The generation provider defaults to Gemini but stays unconfigured until
// an API key is supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Knowledge: KnowledgeSettings{
			Path:             "processed_chunks.txt",
			SystemPromptPath: "system_prompt.txt",
			MaxTerms:         50,
		},
		Retrieval: RetrievalSettings{
			TopK:          3,
			MinScore:      0,
			Normalization: NormalizeQuery,
			StopWords:     true,
			ContextBudget: 2000,
			Events:        DefaultEventCatalog(),
		},
		Generation: GenerationSettings{
			Provider:      AIProviderGemini,
			Model:         "gemini-2.5-flash",
			Temperature:   0.7,
			MaxTokens:     800,
			TopK:          40,
			TopP:          0.8,
			Timeout:       30 * time.Second,
			Retry:         true,
			RatePerSecond: 1,
			Burst:         5,
		},
		Response: ResponseSettings{
			MinLength:       2,
			MaxLength:       800,
			DetailMaxLength: 1200,
			DetailKeyword:   "detail",
			Blocklist:       DefaultBlocklist(),
		},
		Server: ServerSettings{
			Host:           "0.0.0.0",
			Port:           5000,
			AllowedOrigins: []string{"*"},
		},
	}
}
