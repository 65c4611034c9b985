// Package ollama generates replies with a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the client. Zero values fall back to the defaults.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls /api/generate without streaming.
type LLMService struct {
	client  *http.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options *samplingParams `json:"options,omitempty"`
}

type samplingParams struct {
	NumPredict  int      `json:"num_predict,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopK        int      `json:"top_k,omitempty"`
	TopP        float64  `json:"top_p,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// NewLLMService builds a client. No network call is made.
func NewLLMService(cfg LLMConfig) *LLMService {
	svc := &LLMService{
		client:  &http.Client{Timeout: DefaultLLMTimeout},
		baseURL: DefaultBaseURL,
		model:   DefaultLLMModel,
	}
	if cfg.BaseURL != "" {
		svc.baseURL = cfg.BaseURL
	}
	if cfg.Model != "" {
		svc.model = cfg.Model
	}
	if cfg.Timeout > 0 {
		svc.client.Timeout = cfg.Timeout
	}
	return svc
}

// Generate runs one completion. Temperature is always sent so that zero
// is not replaced by the model's own default.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	temperature := opts.Temperature
	payload, err := json.Marshal(generateRequest{
		Model:  s.model,
		Prompt: prompt,
		System: opts.SystemInstruction,
		Options: &samplingParams{
			NumPredict:  opts.MaxTokens,
			Temperature: &temperature,
			TopK:        opts.TopK,
			TopP:        opts.TopP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	body, err := s.call(ctx, http.MethodPost, "/api/generate", payload)
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrGenerationFailed, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: ollama: %s", domain.ErrGenerationFailed, out.Error)
	}
	return out.Response, nil
}

// ModelName reports the configured model.
func (s *LLMService) ModelName() string { return s.model }

// Ping lists local models to confirm the server is up.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.call(ctx, http.MethodGet, "/api/tags", nil); err != nil {
		return fmt.Errorf("ollama: ping: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *LLMService) Close() error { return nil }

func (s *LLMService) call(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrGenerationFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return body, nil
}

// classifyStatus maps a failed reply onto a domain error. 404 means the
// model is not pulled, which retrying will not fix.
func classifyStatus(status int, body []byte) error {
	kind := domain.ErrGenerationFailed
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.ErrAuthInvalid
	case http.StatusNotFound:
		kind = domain.ErrLLMUnavailable
	case http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = domain.ErrTimeout
	}
	return fmt.Errorf("%w: ollama status %d: %s", kind, status, bytes.TrimSpace(body))
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: send request: %w", domain.ErrGenerationFailed, err)
}
