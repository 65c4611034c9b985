package driving

import (
	"context"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// RetrievalService exposes the knowledge index without generation.
type RetrievalService interface {
	// Search returns up to k matches with a positive score, best first.
	// k <= 0 uses the configured default.
	Search(ctx context.Context, query string, k int) ([]domain.Match, error)

	// Context returns the context that a chat request for query would use.
	Context(ctx context.Context, query string) (domain.AssembledContext, error)
}
