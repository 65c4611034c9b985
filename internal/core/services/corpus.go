package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// eventTagPrefix starts an optional first line that labels a chunk
// explicitly, e.g. "#events: Agility Cup, Marathon".
const eventTagPrefix = "#events:"

// Corpus is the loaded, segmented knowledge base plus persona text.
type Corpus struct {
	// Source names where the corpus was read from.
	Source string

	// Chunks are in file order; Position equals the slice index.
	Chunks []domain.Chunk

	// SystemPrompt is the persona/system instruction.
	SystemPrompt string
}

// CorpusOptions controls segmentation and chunk enrichment.
type CorpusOptions struct {
	// Delimiter is a marker line between chunks; empty means blank lines.
	Delimiter string

	// Fingerprinter computes chunk fingerprints.
	Fingerprinter *Fingerprinter

	// Detector labels chunks with events. Optional.
	Detector *EventDetector
}

// SplitChunks segments raw text into trimmed, non-empty chunks.
// With an empty delimiter a chunk ends at any blank (whitespace-only) line;
// otherwise it ends at a line whose trimmed text equals the delimiter.
func SplitChunks(raw, delimiter string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	delimiter = strings.TrimSpace(delimiter)

	var chunks []string
	var current []string
	flush := func() {
		if text := strings.TrimSpace(strings.Join(current, "\n")); text != "" {
			chunks = append(chunks, text)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		boundary := trimmed == ""
		if delimiter != "" {
			boundary = trimmed == delimiter
		}
		if boundary {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return chunks
}

// LoadCorpus reads, segments and fingerprints the knowledge base.
// A missing or empty knowledge base or system prompt is ErrConfiguration.
func LoadCorpus(ctx context.Context, source driven.CorpusSource, opts CorpusOptions) (*Corpus, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: no corpus source", domain.ErrConfiguration)
	}
	if opts.Fingerprinter == nil {
		return nil, fmt.Errorf("%w: no fingerprinter", domain.ErrConfiguration)
	}

	name := source.Describe()

	raw, err := source.LoadKnowledge(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load knowledge base %s: %w", domain.ErrConfiguration, name, err)
	}

	prompt, err := source.LoadSystemPrompt(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load system prompt %s: %w", domain.ErrConfiguration, name, err)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: system prompt %s is empty", domain.ErrConfiguration, name)
	}

	texts := SplitChunks(raw, opts.Delimiter)
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: knowledge base %s is empty", domain.ErrConfiguration, name)
	}

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		content, tagged, hasTag := parseEventTag(text)
		if content == "" {
			// A chunk holding only a tag line carries no knowledge
			logger.Debug("Skipping tag-only chunk %d", i)
			continue
		}

		chunk := domain.Chunk{
			Position:    len(chunks),
			Content:     content,
			Fingerprint: opts.Fingerprinter.Fingerprint(content),
		}
		switch {
		case hasTag && opts.Detector != nil:
			catalog := opts.Detector.Catalog()
			for j, label := range tagged {
				tagged[j] = catalog.Canonical(label)
			}
			chunk.Events = tagged
		case hasTag:
			chunk.Events = tagged
		case opts.Detector != nil:
			chunk.Events = opts.Detector.Detect(content)
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: knowledge base %s is empty", domain.ErrConfiguration, name)
	}

	logger.Info("Loaded %d chunks from %s", len(chunks), name)

	return &Corpus{
		Source:       name,
		Chunks:       chunks,
		SystemPrompt: prompt,
	}, nil
}

// parseEventTag strips a leading "#events:" line and returns its labels.
func parseEventTag(text string) (string, []domain.EventLabel, bool) {
	first, rest, _ := strings.Cut(text, "\n")
	trimmed := strings.TrimSpace(first)
	if len(trimmed) < len(eventTagPrefix) || !strings.EqualFold(trimmed[:len(eventTagPrefix)], eventTagPrefix) {
		return text, nil, false
	}

	var labels []domain.EventLabel
	for _, l := range strings.Split(trimmed[len(eventTagPrefix):], ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, domain.EventLabel(l))
		}
	}
	return strings.TrimSpace(rest), labels, true
}
