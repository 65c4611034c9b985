package driven

import "context"

// CorpusSource provides the raw knowledge base and persona texts.
type CorpusSource interface {
	// LoadKnowledge returns the raw knowledge-base text.
	LoadKnowledge(ctx context.Context) (string, error)

	// LoadSystemPrompt returns the persona/system instruction text.
	LoadSystemPrompt(ctx context.Context) (string, error)

	// Describe names the source for logs, e.g. a file path.
	Describe() string
}
