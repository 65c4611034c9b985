package services

import (
	"sort"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// IndexOptions controls scoring.
type IndexOptions struct {
	// Normalization scales raw overlap scores.
	Normalization domain.Normalization

	// MinScore is an exclusive lower bound; results must also be positive.
	MinScore float64
}

// FingerprintIndex scores a query against every chunk fingerprint.
// It is immutable after construction and safe for concurrent use.
type FingerprintIndex struct {
	chunks        []domain.Chunk
	fingerprinter *Fingerprinter
	opts          IndexOptions
	indexed       int
}

// NewFingerprintIndex builds an index over chunks. Chunks must carry
// fingerprints made by the same fingerprinter used for queries.
func NewFingerprintIndex(chunks []domain.Chunk, fingerprinter *Fingerprinter, opts IndexOptions) *FingerprintIndex {
	if !opts.Normalization.IsValid() {
		opts.Normalization = domain.NormalizeQuery
	}

	owned := make([]domain.Chunk, len(chunks))
	copy(owned, chunks)

	indexed := 0
	for _, c := range owned {
		if !c.Fingerprint.IsEmpty() {
			indexed++
		}
	}

	return &FingerprintIndex{
		chunks:        owned,
		fingerprinter: fingerprinter,
		opts:          opts,
		indexed:       indexed,
	}
}

// Len returns the number of chunks.
func (x *FingerprintIndex) Len() int {
	return len(x.chunks)
}

// Indexed returns the number of chunks that can match.
func (x *FingerprintIndex) Indexed() int {
	return x.indexed
}

// Chunks returns the indexed chunks in corpus order.
func (x *FingerprintIndex) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, len(x.chunks))
	copy(out, x.chunks)
	return out
}

// Score returns one match per chunk, in corpus order. Chunks with an empty
// fingerprint, and every chunk for an empty query, score zero.
func (x *FingerprintIndex) Score(query string) []domain.Match {
	qfp := x.fingerprinter.Fingerprint(query)

	matches := make([]domain.Match, len(x.chunks))
	for i, c := range x.chunks {
		matches[i] = domain.Match{Chunk: c}
		if qfp.IsEmpty() || c.Fingerprint.IsEmpty() {
			continue
		}
		matches[i].Score = Similarity(qfp, c.Fingerprint, x.opts.Normalization)
	}
	return matches
}

// Query returns up to k matches scoring above zero and above MinScore,
// best first. Equal scores keep corpus order.
func (x *FingerprintIndex) Query(query string, k int) []domain.Match {
	if k <= 0 {
		return nil
	}

	var hits []domain.Match
	for _, m := range x.Score(query) {
		if m.Score > 0 && m.Score > x.opts.MinScore {
			hits = append(hits, m)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}
