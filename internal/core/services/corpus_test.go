package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

func TestSplitChunks_BlankLines(t *testing.T) {
	raw := "first chunk\nstill first\n\nsecond\n   \n\t\nthird\n\n\n"

	chunks := SplitChunks(raw, "")

	assert.Equal(t, []string{"first chunk\nstill first", "second", "third"}, chunks)
}

func TestSplitChunks_CRLF(t *testing.T) {
	chunks := SplitChunks("a\r\n\r\nb\r\n", "")

	assert.Equal(t, []string{"a", "b"}, chunks)
}

func TestSplitChunks_Delimiter(t *testing.T) {
	raw := "one\n\nstill one\n---\ntwo\n  ---  \n---\n"

	chunks := SplitChunks(raw, "---")

	assert.Equal(t, []string{"one\n\nstill one", "two"}, chunks)
}

func TestSplitChunks_EmptyInput(t *testing.T) {
	assert.Empty(t, SplitChunks("", ""))
	assert.Empty(t, SplitChunks(" \n\n \t", ""))
}

func TestSplitChunks_Deterministic(t *testing.T) {
	assert.Equal(t, SplitChunks(sampleCorpus, ""), SplitChunks(sampleCorpus, ""))
}

func newCorpusOptions() CorpusOptions {
	tok := newWordTokenizer()
	return CorpusOptions{
		Fingerprinter: NewFingerprinter(tok, 50),
		Detector:      NewEventDetector(domain.DefaultEventCatalog(), tok),
	}
}

func TestLoadCorpus_Success(t *testing.T) {
	source := &mockCorpusSource{knowledge: sampleCorpus, systemPrompt: "  persona  \n"}

	corpus, err := LoadCorpus(context.Background(), source, newCorpusOptions())

	require.NoError(t, err)
	require.Len(t, corpus.Chunks, 2)
	assert.Equal(t, "persona", corpus.SystemPrompt)
	assert.Equal(t, "mock", corpus.Source)

	assert.Equal(t, 0, corpus.Chunks[0].Position)
	assert.Equal(t, "Agility Cup trials are on Monday at the ground.", corpus.Chunks[0].Content)
	assert.Equal(t, []domain.EventLabel{"Agility Cup"}, corpus.Chunks[0].Events)
	assert.Equal(t, 1, corpus.Chunks[0].Fingerprint["agility"])

	assert.Equal(t, 1, corpus.Chunks[1].Position)
	assert.Equal(t, []domain.EventLabel{"Spoorthi"}, corpus.Chunks[1].Events)
}

func TestLoadCorpus_EventTagLine(t *testing.T) {
	source := &mockCorpusSource{
		knowledge:    "#events: Marathon, Agility Cup\nRoute opens at 6am.\n\n#EVENTS:\nGeneral rules apply to all.\n\n#events: Spoorthi",
		systemPrompt: "persona",
	}

	corpus, err := LoadCorpus(context.Background(), source, newCorpusOptions())

	require.NoError(t, err)
	require.Len(t, corpus.Chunks, 2, "tag-only chunk is dropped")
	assert.Equal(t, "Route opens at 6am.", corpus.Chunks[0].Content)
	assert.Equal(t, []domain.EventLabel{"Marathon", "Agility Cup"}, corpus.Chunks[0].Events)
	assert.Equal(t, "General rules apply to all.", corpus.Chunks[1].Content)
	assert.Empty(t, corpus.Chunks[1].Events, "an empty tag line means explicitly unlabelled")
	assert.Equal(t, 1, corpus.Chunks[1].Position)
}

func TestLoadCorpus_EventTagMatchesCatalogCase(t *testing.T) {
	source := &mockCorpusSource{
		knowledge:    "#events: agility cup, MARATHON, Kabaddi\nTeams of five per college.",
		systemPrompt: "persona",
	}

	corpus, err := LoadCorpus(context.Background(), source, newCorpusOptions())

	require.NoError(t, err)
	require.Len(t, corpus.Chunks, 1)
	assert.Equal(t, []domain.EventLabel{"Agility Cup", "Marathon", "Kabaddi"}, corpus.Chunks[0].Events)
}

func TestLoadCorpus_ConfigurationErrors(t *testing.T) {
	ioErr := errors.New("no such file")

	tests := []struct {
		name   string
		source *mockCorpusSource
	}{
		{"knowledge missing", &mockCorpusSource{knowledgeErr: ioErr, systemPrompt: "p"}},
		{"knowledge empty", &mockCorpusSource{knowledge: " \n\n ", systemPrompt: "p"}},
		{"prompt missing", &mockCorpusSource{knowledge: sampleCorpus, promptErr: ioErr}},
		{"prompt empty", &mockCorpusSource{knowledge: sampleCorpus, systemPrompt: "\n"}},
		{"only tag lines", &mockCorpusSource{knowledge: "#events: Marathon", systemPrompt: "p"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus, err := LoadCorpus(context.Background(), tt.source, newCorpusOptions())

			assert.Nil(t, corpus)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestLoadCorpus_WrapsSourceError(t *testing.T) {
	ioErr := errors.New("permission denied")
	source := &mockCorpusSource{knowledgeErr: ioErr, systemPrompt: "p"}

	_, err := LoadCorpus(context.Background(), source, newCorpusOptions())

	assert.ErrorIs(t, err, ioErr)
	assert.Contains(t, err.Error(), "mock")
}

func TestLoadCorpus_MissingDependencies(t *testing.T) {
	_, err := LoadCorpus(context.Background(), nil, newCorpusOptions())
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = LoadCorpus(context.Background(), &mockCorpusSource{knowledge: "x", systemPrompt: "p"}, CorpusOptions{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadCorpus_NoDetectorLeavesChunksUnlabelled(t *testing.T) {
	opts := newCorpusOptions()
	opts.Detector = nil

	corpus, err := LoadCorpus(context.Background(), &mockCorpusSource{knowledge: sampleCorpus, systemPrompt: "p"}, opts)

	require.NoError(t, err)
	for _, c := range corpus.Chunks {
		assert.Empty(t, c.Events)
	}
}
