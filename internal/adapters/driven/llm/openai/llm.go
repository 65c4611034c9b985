// Package openai talks to OpenAI and any server exposing the same
// /chat/completions API.
package openai

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
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig configures the client. Only APIKey is required.
type LLMConfig struct {
	APIKey string
	// BaseURL may point at Azure or another compatible server.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService generates replies through the chat completions endpoint.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewLLMService builds a client, filling unset fields with defaults.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key is required", domain.ErrLLMUnavailable)
	}
	svc := &LLMService{
		client:  &http.Client{Timeout: orDuration(cfg.Timeout, DefaultLLMTimeout)},
		baseURL: orString(cfg.BaseURL, DefaultBaseURL),
		apiKey:  cfg.APIKey,
		model:   orString(cfg.Model, DefaultLLMModel),
	}
	return svc, nil
}

// Generate sends the system instruction as a leading system message.
// TopK is ignored; the API has no equivalent.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	temperature := opts.Temperature
	req := completionRequest{
		Model:       s.model,
		MaxTokens:   max(opts.MaxTokens, 0),
		Temperature: &temperature,
		TopP:        opts.TopP,
	}
	if opts.SystemInstruction != "" {
		req.Messages = append(req.Messages, message{Role: "system", Content: opts.SystemInstruction})
	}
	req.Messages = append(req.Messages, message{Role: "user", Content: prompt})

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	body, err := s.do(ctx, http.MethodPost, "/chat/completions", payload)
	if err != nil {
		return "", err
	}

	var out completionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrGenerationFailed, err)
	}
	switch {
	case out.Error != nil:
		return "", fmt.Errorf("%w: openai: %s", domain.ErrGenerationFailed, out.Error.Message)
	case len(out.Choices) == 0:
		return "", fmt.Errorf("openai: no choices: %w", domain.ErrEmptyResponse)
	}
	return out.Choices[0].Message.Content, nil
}

// ModelName reports the configured model.
func (s *LLMService) ModelName() string { return s.model }

// Ping lists models, which checks the key without spending tokens.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.do(ctx, http.MethodGet, "/models", nil); err != nil {
		return fmt.Errorf("openai: ping: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *LLMService) Close() error { return nil }

// do performs one authenticated request and returns the body of a 200 reply.
func (s *LLMService) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
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

func classifyStatus(status int, body []byte) error {
	kind := domain.ErrGenerationFailed
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.ErrAuthInvalid
	case http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = domain.ErrTimeout
	}
	return fmt.Errorf("%w: openai status %d: %s", kind, status, truncate(body, 200))
}

// classifyTransportError tags timeouts so callers can retry them.
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

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
