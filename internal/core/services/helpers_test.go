package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// wordTokenizer lower-cases and splits on anything that is not a letter
// or digit, dropping the given stop-words.
type wordTokenizer struct {
	stop map[string]bool
}

func newWordTokenizer(stop ...string) *wordTokenizer {
	t := &wordTokenizer{stop: make(map[string]bool)}
	for _, s := range stop {
		t.stop[s] = true
	}
	return t
}

func (t *wordTokenizer) Tokens(text string) []string {
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if !t.stop[w] {
			out = append(out, w)
		}
	}
	return out
}

// mockCorpusSource serves fixed texts.
type mockCorpusSource struct {
	mu           sync.Mutex
	knowledge    string
	systemPrompt string
	knowledgeErr error
	promptErr    error
}

func (m *mockCorpusSource) LoadKnowledge(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.knowledge, m.knowledgeErr
}

func (m *mockCorpusSource) LoadSystemPrompt(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.systemPrompt, m.promptErr
}

func (m *mockCorpusSource) Describe() string {
	return "mock"
}

func (m *mockCorpusSource) set(knowledge string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.knowledge = knowledge
}

// mockGenerator returns queued responses and records calls.
type mockGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
	prompts   []string
	opts      []driven.GenerateOptions
	block     bool
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	block := m.block
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}

	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	if len(m.responses) > 0 {
		return m.responses[len(m.responses)-1], nil
	}
	return "", errors.New("no response queued")
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPromptStore serves templates from a map.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// sampleCorpus is the two-chunk corpus used across the package tests.
const sampleCorpus = "Agility Cup trials are on Monday at the ground.\n\nSpoorthi registrations open next week."

// buildKnowledge loads text into a snapshot with default catalog and the
// word tokenizer.
func buildKnowledge(text string, norm domain.Normalization) (*KnowledgeBase, *EventDetector) {
	tok := newWordTokenizer()
	detector := NewEventDetector(domain.DefaultEventCatalog(), tok)
	svc := NewKnowledgeService(&mockCorpusSource{knowledge: text, systemPrompt: "You are a senior."}, tok, KnowledgeOptions{
		MaxTerms:      50,
		Normalization: norm,
		Detector:      detector,
	})
	kb, err := svc.Build(context.Background())
	if err != nil {
		panic(err)
	}
	return kb, detector
}
