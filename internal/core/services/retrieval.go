package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService exposes ranking and context assembly without generation.
type RetrievalService struct {
	knowledge SnapshotProvider
	assembler *ContextAssembler
	defaultK  int
}

// NewRetrievalService creates a retrieval service. defaultK applies when
// Search is called with k <= 0.
func NewRetrievalService(knowledge SnapshotProvider, assembler *ContextAssembler, defaultK int) *RetrievalService {
	return &RetrievalService{
		knowledge: knowledge,
		assembler: assembler,
		defaultK:  defaultK,
	}
}

// Search returns up to k positively scored matches, best first.
func (s *RetrievalService) Search(_ context.Context, query string, k int) ([]domain.Match, error) {
	kb := s.knowledge.Snapshot()
	if kb == nil {
		return nil, ErrNotLoaded
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Match{}, nil
	}
	if k <= 0 {
		k = s.defaultK
	}

	matches := kb.Index().Query(query, k)
	logger.Debug("Search %q: %d matches", query, len(matches))
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

// Context returns the context a chat request for query would send.
func (s *RetrievalService) Context(ctx context.Context, query string) (domain.AssembledContext, error) {
	matches, err := s.Search(ctx, query, s.defaultK)
	if err != nil {
		return domain.AssembledContext{}, err
	}
	return s.assembler.Assemble(query, matches), nil
}
