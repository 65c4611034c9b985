package driving

import (
	"context"
	"time"
)

// KnowledgeStats summarises the loaded knowledge base.
type KnowledgeStats struct {
	// Source names where the corpus came from.
	Source string

	// Chunks is the number of chunks loaded.
	Chunks int

	// Indexed is the number of chunks with a non-empty fingerprint.
	Indexed int

	// LoadedAt is when the current snapshot was built.
	LoadedAt time.Time
}

// KnowledgeService owns the loaded corpus and its index.
type KnowledgeService interface {
	// Load builds the first snapshot. Missing or empty inputs are fatal.
	Load(ctx context.Context) error

	// Reload rebuilds the snapshot; on failure the previous one stays live.
	Reload(ctx context.Context) error

	// Stats describes the live snapshot.
	Stats() (KnowledgeStats, error)
}
