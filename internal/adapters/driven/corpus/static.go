package corpus

import (
	"context"

	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// Ensure StaticSource implements the interface.
var _ driven.CorpusSource = (*StaticSource)(nil)

// StaticSource serves fixed text. Useful for tests and embedding.
type StaticSource struct {
	name         string
	knowledge    string
	systemPrompt string
}

// NewStaticSource creates a source that always returns the given texts.
func NewStaticSource(name, knowledge, systemPrompt string) *StaticSource {
	return &StaticSource{name: name, knowledge: knowledge, systemPrompt: systemPrompt}
}

// LoadKnowledge returns the fixed knowledge text.
func (s *StaticSource) LoadKnowledge(ctx context.Context) (string, error) {
	return s.knowledge, ctx.Err()
}

// LoadSystemPrompt returns the fixed persona text.
func (s *StaticSource) LoadSystemPrompt(ctx context.Context) (string, error) {
	return s.systemPrompt, ctx.Err()
}

// Describe returns the source name.
func (s *StaticSource) Describe() string {
	if s.name == "" {
		return "static"
	}
	return s.name
}
