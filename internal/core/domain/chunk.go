package domain

// Chunk is an immutable unit of knowledge-base text.
// Chunks are created once when the corpus is loaded and never mutated.
type Chunk struct {
	// Position is the ordinal position within the corpus and identifies the chunk.
	Position int

	// Content is the trimmed chunk text.
	Content string

	// Fingerprint is the precomputed word-frequency signature.
	// Empty for chunks with no scorable tokens; such chunks never match.
	Fingerprint Fingerprint

	// Events holds the event labels attached to this chunk, in catalog order.
	Events []EventLabel
}

// HasEvent reports whether the chunk carries the given label.
func (c Chunk) HasEvent(label EventLabel) bool {
	for _, e := range c.Events {
		if e == label {
			return true
		}
	}
	return false
}

// Fingerprint maps a normalised token to its occurrence count.
type Fingerprint map[string]int

// Total returns the sum of all counts.
func (f Fingerprint) Total() int {
	total := 0
	for _, n := range f {
		total += n
	}
	return total
}

// IsEmpty returns true if the fingerprint has no tokens.
func (f Fingerprint) IsEmpty() bool {
	return len(f) == 0
}

// Match is a chunk paired with its similarity score for one query.
type Match struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the similarity score; higher is better.
	Score float64
}
