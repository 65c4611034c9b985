package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates the knowledge base or system prompt is
	// missing or empty. It is fatal at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chat degrades to fallback replies.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrGenerationFailed indicates the generation API returned an error.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAuthInvalid indicates the API key was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrTimeout indicates the generation call ran out of time.
	ErrTimeout = errors.New("generation timed out")

	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("empty response")

	// ErrValidationRejected indicates generated text failed a response rule.
	ErrValidationRejected = errors.New("response rejected")
)

// ValidationError describes why generated text was rejected.
type ValidationError struct {
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return "response rejected: " + e.Reason
}

// Unwrap lets errors.Is match ErrValidationRejected.
func (e *ValidationError) Unwrap() error {
	return ErrValidationRejected
}

// IsTransient reports whether a generation error is worth one retry.
func IsTransient(err error) bool {
	if errors.Is(err, ErrAuthInvalid) || errors.Is(err, ErrLLMUnavailable) {
		return false
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrGenerationFailed)
}
