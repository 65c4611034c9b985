package services

import (
	"sort"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// Fingerprinter turns text into word-frequency fingerprints.
// One instance serves both index build and query so the two paths
// always tokenise identically.
type Fingerprinter struct {
	tokenizer driven.Tokenizer
	maxTerms  int
}

// NewFingerprinter creates a fingerprinter. maxTerms keeps only the most
// frequent terms (ties by first occurrence); zero or less keeps every term.
func NewFingerprinter(tokenizer driven.Tokenizer, maxTerms int) *Fingerprinter {
	return &Fingerprinter{tokenizer: tokenizer, maxTerms: maxTerms}
}

// Tokens returns the normalised terms of text.
func (f *Fingerprinter) Tokens(text string) []string {
	return f.tokenizer.Tokens(text)
}

// Fingerprint counts the normalised terms of text.
func (f *Fingerprinter) Fingerprint(text string) domain.Fingerprint {
	return f.fromTokens(f.tokenizer.Tokens(text))
}

func (f *Fingerprinter) fromTokens(tokens []string) domain.Fingerprint {
	counts := make(map[string]int, len(tokens))
	var order []string
	for _, tok := range tokens {
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	if f.maxTerms > 0 && len(order) > f.maxTerms {
		// order is first-occurrence order, so a stable sort breaks ties by it
		sort.SliceStable(order, func(i, j int) bool {
			return counts[order[i]] > counts[order[j]]
		})
		order = order[:f.maxTerms]
	}

	fp := make(domain.Fingerprint, len(order))
	for _, tok := range order {
		fp[tok] = counts[tok]
	}
	return fp
}

// Similarity scores how much of query is covered by chunk: the sum over
// shared terms of the smaller count, scaled by norm.
func Similarity(query, chunk domain.Fingerprint, norm domain.Normalization) float64 {
	small, large := query, chunk
	if len(small) > len(large) {
		small, large = large, small
	}

	shared := 0
	for term, n := range small {
		if m, ok := large[term]; ok {
			shared += min(n, m)
		}
	}
	if shared == 0 {
		return 0
	}

	switch norm {
	case domain.NormalizeQuery:
		return float64(shared) / float64(query.Total())
	case domain.NormalizeChunk:
		return float64(shared) / float64(chunk.Total())
	default:
		return float64(shared)
	}
}
