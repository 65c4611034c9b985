package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyKnowledgePath        = "knowledge.path"
	KeySystemPromptPath     = "knowledge.system_prompt_path"
	KeyKnowledgeDelimiter   = "knowledge.delimiter"
	KeyMaxTerms             = "knowledge.max_terms"
	KeyTopK                 = "retrieval.top_k"
	KeyMinScore             = "retrieval.min_score"
	KeyNormalization        = "retrieval.normalization"
	KeyStopWords            = "retrieval.stop_words"
	KeyExtraStopWords       = "retrieval.extra_stop_words"
	KeyContextBudget        = "retrieval.context_budget"
	KeyEvents               = "events"
	KeyProvider             = "generation.provider"
	KeyModel                = "generation.model"
	KeyBaseURL              = "generation.base_url"
	KeyAPIKey               = "generation.api_key"
	KeyTemperature          = "generation.temperature"
	KeyMaxTokens            = "generation.max_tokens"
	KeyGenTopK              = "generation.top_k"
	KeyTopP                 = "generation.top_p"
	KeyTimeout              = "generation.timeout"
	KeyRetry                = "generation.retry"
	KeyRatePerSecond        = "generation.rate_per_second"
	KeyBurst                = "generation.burst"
	KeyMinLength            = "response.min_length"
	KeyMaxLength            = "response.max_length"
	KeyDetailMaxLength      = "response.detail_max_length"
	KeyDetailKeyword        = "response.detail_keyword"
	KeyBlocklist            = "response.blocklist"
	KeyServerHost           = "server.host"
	KeyServerPort           = "server.port"
	KeyServerAllowedOrigins = "server.allowed_origins"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
	kindDuration
)

// knownKeys maps every settable key to its value type.
var knownKeys = map[string]valueKind{
	KeyKnowledgePath:        kindString,
	KeySystemPromptPath:     kindString,
	KeyKnowledgeDelimiter:   kindString,
	KeyMaxTerms:             kindInt,
	KeyTopK:                 kindInt,
	KeyMinScore:             kindFloat,
	KeyNormalization:        kindString,
	KeyStopWords:            kindBool,
	KeyExtraStopWords:       kindList,
	KeyContextBudget:        kindInt,
	KeyEvents:               kindList,
	KeyProvider:             kindString,
	KeyModel:                kindString,
	KeyBaseURL:              kindString,
	KeyAPIKey:               kindString,
	KeyTemperature:          kindFloat,
	KeyMaxTokens:            kindInt,
	KeyGenTopK:              kindInt,
	KeyTopP:                 kindFloat,
	KeyTimeout:              kindDuration,
	KeyRetry:                kindBool,
	KeyRatePerSecond:        kindFloat,
	KeyBurst:                kindInt,
	KeyMinLength:            kindInt,
	KeyMaxLength:            kindInt,
	KeyDetailMaxLength:      kindInt,
	KeyDetailKeyword:        kindString,
	KeyBlocklist:            kindList,
	KeyServerHost:           kindString,
	KeyServerPort:           kindInt,
	KeyServerAllowedOrigins: kindList,
}

// KnownKeys returns every settable key in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Environment variables that override the config file.
const (
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvGeminiModel    = "GEMINI_MODEL"
	EnvProvider       = "LLM_PROVIDER"
	EnvTemperature    = "API_TEMPERATURE"
	EnvMaxTokens      = "API_MAX_TOKENS"
	EnvAllowedOrigins = "ALLOWED_ORIGINS"
	EnvHost           = "HOST"
	EnvPort           = "PORT"
	EnvKnowledge      = "SPORTSCOM_KNOWLEDGE"
	EnvSystemPrompt   = "SPORTSCOM_SYSTEM_PROMPT"
)

// SettingsService resolves settings from defaults, the config store and
// the environment, in increasing priority.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service. aiValidator may be nil.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup. Tests use it to avoid
// touching the process environment.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// Get returns defaults overlaid with the config store and environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Knowledge: domain.KnowledgeSettings{
			Path:             s.getString(KeyKnowledgePath, d.Knowledge.Path),
			SystemPromptPath: s.getString(KeySystemPromptPath, d.Knowledge.SystemPromptPath),
			Delimiter:        s.getString(KeyKnowledgeDelimiter, d.Knowledge.Delimiter),
			MaxTerms:         s.getInt(KeyMaxTerms, d.Knowledge.MaxTerms),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:           s.getInt(KeyTopK, d.Retrieval.TopK),
			MinScore:       s.getFloat(KeyMinScore, d.Retrieval.MinScore),
			Normalization:  s.getNormalization(d.Retrieval.Normalization),
			StopWords:      s.getBool(KeyStopWords, d.Retrieval.StopWords),
			ExtraStopWords: s.getList(KeyExtraStopWords, d.Retrieval.ExtraStopWords),
			ContextBudget:  s.getInt(KeyContextBudget, d.Retrieval.ContextBudget),
			Events:         s.getEvents(d.Retrieval.Events),
		},
		Generation: domain.GenerationSettings{
			Provider:      s.getProvider(d.Generation.Provider),
			Model:         s.getString(KeyModel, d.Generation.Model),
			BaseURL:       s.configStore.GetString(KeyBaseURL),
			APIKey:        s.configStore.GetString(KeyAPIKey),
			Temperature:   s.getFloat(KeyTemperature, d.Generation.Temperature),
			MaxTokens:     s.getInt(KeyMaxTokens, d.Generation.MaxTokens),
			TopK:          s.getInt(KeyGenTopK, d.Generation.TopK),
			TopP:          s.getFloat(KeyTopP, d.Generation.TopP),
			Timeout:       s.getDuration(KeyTimeout, d.Generation.Timeout),
			Retry:         s.getBool(KeyRetry, d.Generation.Retry),
			RatePerSecond: s.getFloat(KeyRatePerSecond, d.Generation.RatePerSecond),
			Burst:         s.getInt(KeyBurst, d.Generation.Burst),
		},
		Response: domain.ResponseSettings{
			MinLength:       s.getInt(KeyMinLength, d.Response.MinLength),
			MaxLength:       s.getInt(KeyMaxLength, d.Response.MaxLength),
			DetailMaxLength: s.getInt(KeyDetailMaxLength, d.Response.DetailMaxLength),
			DetailKeyword:   s.getString(KeyDetailKeyword, d.Response.DetailKeyword),
			Blocklist:       s.getList(KeyBlocklist, d.Response.Blocklist),
		},
		Server: domain.ServerSettings{
			Host:           s.getString(KeyServerHost, d.Server.Host),
			Port:           s.getInt(KeyServerPort, d.Server.Port),
			AllowedOrigins: s.getList(KeyServerAllowedOrigins, d.Server.AllowedOrigins),
		},
	}

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv overlays environment variables. Unparseable numbers are ignored.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v, ok := s.env(EnvProvider); ok {
		if p := domain.AIProvider(strings.ToLower(v)); p.IsValid() {
			settings.Generation.Provider = p
		} else {
			logger.Warn("Ignoring %s=%q: unknown provider", EnvProvider, v)
		}
	}
	if v, ok := s.env(EnvGeminiAPIKey); ok && settings.Generation.Provider == domain.AIProviderGemini {
		settings.Generation.APIKey = v
	}
	if v, ok := s.env(EnvGeminiModel); ok && settings.Generation.Provider == domain.AIProviderGemini {
		settings.Generation.Model = v
	}
	if v, ok := s.env(EnvTemperature); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			settings.Generation.Temperature = f
		} else {
			logger.Warn("Ignoring %s=%q: %v", EnvTemperature, v, err)
		}
	}
	if v, ok := s.env(EnvMaxTokens); ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Generation.MaxTokens = n
		} else {
			logger.Warn("Ignoring %s=%q: %v", EnvMaxTokens, v, err)
		}
	}
	if v, ok := s.env(EnvAllowedOrigins); ok {
		settings.Server.AllowedOrigins = splitList(v)
	}
	if v, ok := s.env(EnvHost); ok {
		settings.Server.Host = v
	}
	if v, ok := s.env(EnvPort); ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Server.Port = n
		} else {
			logger.Warn("Ignoring %s=%q: %v", EnvPort, v, err)
		}
	}
	if v, ok := s.env(EnvKnowledge); ok {
		settings.Knowledge.Path = v
	}
	if v, ok := s.env(EnvSystemPrompt); ok {
		settings.Knowledge.SystemPromptPath = v
	}
}

func (s *SettingsService) env(name string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Set validates and stores one key. String values are parsed according to
// the key's type so the CLI can pass raw arguments.
func (s *SettingsService) Set(key string, value any) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := coerce(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	switch key {
	case KeyProvider:
		if p := domain.AIProvider(parsed.(string)); !p.IsValid() {
			return fmt.Errorf("%w: invalid provider: %s", domain.ErrInvalidInput, p)
		}
	case KeyNormalization:
		if n := domain.Normalization(parsed.(string)); !n.IsValid() {
			return fmt.Errorf("%w: invalid normalization: %s", domain.ErrInvalidInput, n)
		}
	case KeyEvents:
		for _, raw := range parsed.([]string) {
			if _, ok := domain.ParseEventRule(raw); !ok {
				return fmt.Errorf("%w: invalid event rule %q", domain.ErrInvalidInput, raw)
			}
		}
	case KeyTopK:
		if parsed.(int) <= 0 {
			return fmt.Errorf("%w: %s must be positive", domain.ErrInvalidInput, key)
		}
	case KeyMaxTerms, KeyContextBudget, KeyDetailMaxLength:
		if parsed.(int) < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
	case KeyMinLength, KeyMaxLength:
		if err := s.checkLengthWindow(key, parsed.(int)); err != nil {
			return err
		}
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// checkLengthWindow rejects a reply length bound that would leave no
// acceptable length. A zero max_length means unbounded.
func (s *SettingsService) checkLengthWindow(key string, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
	}

	current, err := s.Get()
	if err != nil {
		return err
	}
	minLen, maxLen := current.Response.MinLength, current.Response.MaxLength
	if key == KeyMinLength {
		minLen = n
	} else {
		maxLen = n
	}

	if maxLen > 0 && minLen > maxLen {
		return fmt.Errorf("%w: %s=%d must not exceed %s=%d",
			domain.ErrInvalidInput, KeyMinLength, minLen, KeyMaxLength, maxLen)
	}
	return nil
}

// coerce converts value to the Go type stored for kind.
func coerce(kind valueKind, value any) (any, error) {
	str, isString := value.(string)
	switch kind {
	case kindString:
		if !isString {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		return str, nil
	case kindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case string:
			return strconv.Atoi(strings.TrimSpace(v))
		}
	case kindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		}
	case kindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(v))
		}
	case kindList:
		switch v := value.(type) {
		case []string:
			return v, nil
		case string:
			return splitList(v), nil
		}
	case kindDuration:
		switch v := value.(type) {
		case time.Duration:
			return v.String(), nil
		case string:
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return nil, err
			}
			return d.String(), nil
		}
	}
	return nil, fmt.Errorf("unsupported value %v (%T)", value, value)
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Defaults returns default settings.
func (s *SettingsService) Defaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateGeneration pings the configured generation provider.
func (s *SettingsService) ValidateGeneration() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateGeneration(&settings.Generation)
}

// Helper methods for reading config with defaults. A key present in the
// store wins even when its value is zero.

func (s *SettingsService) has(key string) bool {
	_, exists := s.configStore.Get(key)
	return exists
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if !s.has(key) {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if !s.has(key) {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if !s.has(key) {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if !s.has(key) {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if d := s.configStore.GetDuration(key); d > 0 {
		return d
	}
	return defaultVal
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(KeyProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getNormalization(defaultVal domain.Normalization) domain.Normalization {
	val := s.configStore.GetString(KeyNormalization)
	if val == "" {
		return defaultVal
	}
	n := domain.Normalization(val)
	if !n.IsValid() {
		return defaultVal
	}
	return n
}

func (s *SettingsService) getEvents(defaultVal domain.EventCatalog) domain.EventCatalog {
	if !s.has(KeyEvents) {
		return defaultVal
	}
	var catalog domain.EventCatalog
	for _, raw := range s.configStore.GetStringSlice(KeyEvents) {
		if rule, ok := domain.ParseEventRule(raw); ok {
			catalog = append(catalog, rule)
		}
	}
	return catalog
}
