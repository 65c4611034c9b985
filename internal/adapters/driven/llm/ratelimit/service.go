package ratelimit

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// LLMService wraps another LLMService, waiting on a limiter before each
// Generate and backing off when the provider reports throttling.
type LLMService struct {
	next    driven.LLMService
	limiter driven.RateLimiter
}

// Wrap returns next throttled by limiter.
func Wrap(next driven.LLMService, limiter driven.RateLimiter) *LLMService {
	return &LLMService{next: next, limiter: limiter}
}

// Generate waits for the limiter, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("%w: waiting for rate limiter: %w", domain.ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}

	text, err := s.next.Generate(ctx, prompt, opts)
	if errors.Is(err, domain.ErrRateLimited) {
		logger.Warn("Provider throttled %s, backing off", s.next.ModelName())
		s.limiter.RecordRateLimitError(0)
	}
	return text, err
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.next.ModelName()
}

// Ping is not throttled.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.next.Close()
}
