package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// ErrNotLoaded indicates the knowledge base has not been loaded yet.
var ErrNotLoaded = fmt.Errorf("%w: knowledge base not loaded", domain.ErrConfiguration)

// KnowledgeBase is one immutable snapshot of the corpus and its index.
// Request handlers receive it explicitly and never mutate it.
type KnowledgeBase struct {
	corpus   *Corpus
	index    *FingerprintIndex
	detector *EventDetector
	loadedAt time.Time
}

// NewKnowledgeBase assembles a snapshot from already-built parts.
func NewKnowledgeBase(corpus *Corpus, index *FingerprintIndex, detector *EventDetector) *KnowledgeBase {
	return &KnowledgeBase{
		corpus:   corpus,
		index:    index,
		detector: detector,
		loadedAt: time.Now(),
	}
}

// Index returns the fingerprint index.
func (kb *KnowledgeBase) Index() *FingerprintIndex {
	return kb.index
}

// Detector returns the event detector, which may be nil.
func (kb *KnowledgeBase) Detector() *EventDetector {
	return kb.detector
}

// SystemPrompt returns the persona text.
func (kb *KnowledgeBase) SystemPrompt() string {
	return kb.corpus.SystemPrompt
}

// Source names where the corpus came from.
func (kb *KnowledgeBase) Source() string {
	return kb.corpus.Source
}

// LoadedAt returns when the snapshot was built.
func (kb *KnowledgeBase) LoadedAt() time.Time {
	return kb.loadedAt
}

// SnapshotProvider hands out the live knowledge base.
type SnapshotProvider interface {
	// Snapshot returns the live knowledge base, or nil before the first load.
	Snapshot() *KnowledgeBase
}

// KnowledgeOptions configures how snapshots are built.
type KnowledgeOptions struct {
	Delimiter     string
	MaxTerms      int
	Normalization domain.Normalization
	MinScore      float64

	// Detector labels chunks with events. Optional.
	Detector *EventDetector
}

// KnowledgeService builds snapshots and swaps them atomically on reload.
type KnowledgeService struct {
	source    driven.CorpusSource
	tokenizer driven.Tokenizer
	opts      KnowledgeOptions
	current   atomic.Pointer[KnowledgeBase]
}

// NewKnowledgeService creates a knowledge service. Nothing is read until Load.
func NewKnowledgeService(
	source driven.CorpusSource,
	tokenizer driven.Tokenizer,
	opts KnowledgeOptions,
) *KnowledgeService {
	return &KnowledgeService{
		source:    source,
		tokenizer: tokenizer,
		opts:      opts,
	}
}

// Build reads the source and returns a fresh snapshot without installing it.
func (s *KnowledgeService) Build(ctx context.Context) (*KnowledgeBase, error) {
	if s.tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer", domain.ErrConfiguration)
	}

	fingerprinter := NewFingerprinter(s.tokenizer, s.opts.MaxTerms)
	corpus, err := LoadCorpus(ctx, s.source, CorpusOptions{
		Delimiter:     s.opts.Delimiter,
		Fingerprinter: fingerprinter,
		Detector:      s.opts.Detector,
	})
	if err != nil {
		return nil, err
	}

	index := NewFingerprintIndex(corpus.Chunks, fingerprinter, IndexOptions{
		Normalization: s.opts.Normalization,
		MinScore:      s.opts.MinScore,
	})
	if index.Indexed() == 0 {
		logger.Warn("No chunk in %s has scorable terms; every question will go without context", corpus.Source)
	}

	return NewKnowledgeBase(corpus, index, s.opts.Detector), nil
}

// Load builds and installs the first snapshot.
func (s *KnowledgeService) Load(ctx context.Context) error {
	logger.Section("Knowledge Load")
	kb, err := s.Build(ctx)
	if err != nil {
		return err
	}
	s.current.Store(kb)
	return nil
}

// Reload rebuilds the snapshot. On failure the previous snapshot stays live.
func (s *KnowledgeService) Reload(ctx context.Context) error {
	logger.Section("Knowledge Reload")
	kb, err := s.Build(ctx)
	if err != nil {
		if s.current.Load() != nil {
			logger.Error("Reload failed, keeping previous knowledge base: %v", err)
		}
		return fmt.Errorf("reload knowledge base: %w", err)
	}
	s.current.Store(kb)
	logger.Info("Knowledge base reloaded: %d chunks", kb.Index().Len())
	return nil
}

// Snapshot returns the live knowledge base, or nil before the first load.
func (s *KnowledgeService) Snapshot() *KnowledgeBase {
	return s.current.Load()
}

// Stats describes the live snapshot.
func (s *KnowledgeService) Stats() (driving.KnowledgeStats, error) {
	kb := s.current.Load()
	if kb == nil {
		return driving.KnowledgeStats{}, ErrNotLoaded
	}
	return driving.KnowledgeStats{
		Source:   kb.Source(),
		Chunks:   kb.Index().Len(),
		Indexed:  kb.Index().Indexed(),
		LoadedAt: kb.LoadedAt(),
	}, nil
}

// StaticSnapshot wraps a fixed knowledge base as a SnapshotProvider.
type StaticSnapshot struct {
	kb *KnowledgeBase
}

// NewStaticSnapshot returns a provider that always hands out kb.
func NewStaticSnapshot(kb *KnowledgeBase) StaticSnapshot {
	return StaticSnapshot{kb: kb}
}

// Snapshot returns the wrapped knowledge base.
func (s StaticSnapshot) Snapshot() *KnowledgeBase {
	return s.kb
}

// IsNotLoaded reports whether err means no snapshot was available.
func IsNotLoaded(err error) bool {
	return errors.Is(err, ErrNotLoaded)
}
