package driven

import "context"

// RateLimiter throttles outbound generation calls.
type RateLimiter interface {
	// Wait blocks until a call may proceed or ctx is done.
	Wait(ctx context.Context) error

	// RecordRateLimitError backs off after the provider reports throttling.
	RecordRateLimitError(retryAfterSeconds int)
}
