package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

func match(pos int, content string, score float64, events ...domain.EventLabel) domain.Match {
	return domain.Match{
		Chunk: domain.Chunk{Position: pos, Content: content, Events: events},
		Score: score,
	}
}

func newTestDetector() *EventDetector {
	return NewEventDetector(domain.DefaultEventCatalog(), newWordTokenizer())
}

func TestContextAssembler_Scenario(t *testing.T) {
	kb, detector := buildKnowledge(sampleCorpus, domain.NormalizeQuery)
	a := NewContextAssembler(2000, detector)

	query := "when are agility cup trials"
	ctx := a.Assemble(query, kb.Index().Query(query, 3))

	assert.Equal(t, "Agility Cup trials are on Monday at the ground.", ctx.Text)
	assert.NotContains(t, ctx.Text, "Spoorthi")
	assert.Equal(t, []domain.EventLabel{"Agility Cup"}, ctx.QueryEvents)
}

func TestContextAssembler_LowercaseTagKeepsQueriedEvent(t *testing.T) {
	kb, detector := buildKnowledge(
		"#events: agility cup\nTeams of five for the Agility Cup.\n\n#events: Spoorthi\nTeams of five for Spoorthi.",
		domain.NormalizeQuery)
	a := NewContextAssembler(2000, detector)

	query := "Agility Cup teams of five?"
	ctx := a.Assemble(query, kb.Index().Query(query, 3))

	assert.Equal(t, "Teams of five for the Agility Cup.", ctx.Text)
	require.Len(t, ctx.Included, 1)
	assert.Equal(t, []domain.EventLabel{"Agility Cup"}, ctx.Included[0].Chunk.Events)
}

func TestContextAssembler_NoMatchesIsEmpty(t *testing.T) {
	a := NewContextAssembler(2000, newTestDetector())

	ctx := a.Assemble("anything", nil)

	assert.True(t, ctx.IsEmpty())
	assert.Empty(t, ctx.Included)
}

func TestContextAssembler_JoinsInRankOrder(t *testing.T) {
	a := NewContextAssembler(0, nil)

	ctx := a.Assemble("q", []domain.Match{
		match(4, "second ranked first", 0.9),
		match(1, "then this", 0.5),
	})

	assert.Equal(t, "second ranked first\nthen this", ctx.Text)
	require.Len(t, ctx.Included, 2)
	assert.Equal(t, 4, ctx.Included[0].Chunk.Position)
}

func TestContextAssembler_BudgetSkipsWholeChunks(t *testing.T) {
	a := NewContextAssembler(12, nil)

	ctx := a.Assemble("q", []domain.Match{
		match(0, "12345", 1),   // 5
		match(1, "1234567", 1), // 5 + 1 + 7 = 13 > 12
		match(2, "123456", 1),  // 5 + 1 + 6 = 12
	})

	assert.Equal(t, "12345\n123456", ctx.Text)
	assert.Len(t, ctx.Included, 2)
}

func TestContextAssembler_TruncatesOversizedFirstChunk(t *testing.T) {
	a := NewContextAssembler(5, nil)

	ctx := a.Assemble("q", []domain.Match{match(0, "Spōōrthī registrations", 1)})

	assert.Equal(t, "Spōōr", ctx.Text)
	assert.Len(t, ctx.Included, 1)
}

func TestContextAssembler_NeverExceedsBudget(t *testing.T) {
	a := NewContextAssembler(50, nil)
	var matches []domain.Match
	for i := 0; i < 20; i++ {
		matches = append(matches, match(i, strings.Repeat("x", i+3), 1))
	}

	ctx := a.Assemble("q", matches)

	assert.LessOrEqual(t, len([]rune(ctx.Text)), 50)
	assert.False(t, ctx.IsEmpty())
}

func TestContextAssembler_EventIsolation(t *testing.T) {
	a := NewContextAssembler(2000, newTestDetector())
	matches := []domain.Match{
		match(0, "Spoorthi only", 0.9, "Spoorthi"),
		match(1, "Agility details", 0.8, "Agility Cup"),
		match(2, "General rules", 0.7),
		match(3, "Both events", 0.6, "Agility Cup", "Spoorthi"),
	}

	ctx := a.Assemble("agility cup registration?", matches)

	assert.Equal(t, "Agility details\nGeneral rules\nBoth events", ctx.Text)
	require.Len(t, ctx.Excluded, 1)
	assert.Equal(t, 0, ctx.Excluded[0].Chunk.Position)
}

func TestContextAssembler_NoQueryEventMeansNoFiltering(t *testing.T) {
	a := NewContextAssembler(2000, newTestDetector())
	matches := []domain.Match{
		match(0, "Spoorthi only", 0.9, "Spoorthi"),
		match(1, "Marathon only", 0.8, "Marathon"),
	}

	ctx := a.Assemble("when are trials", matches)

	assert.Equal(t, "Spoorthi only\nMarathon only", ctx.Text)
	assert.Empty(t, ctx.Excluded)
	assert.Empty(t, ctx.QueryEvents)
}

func TestContextAssembler_AllExcludedIsEmpty(t *testing.T) {
	a := NewContextAssembler(2000, newTestDetector())

	ctx := a.Assemble("marathon route", []domain.Match{match(0, "Spoorthi", 1, "Spoorthi")})

	assert.True(t, ctx.IsEmpty())
	assert.Len(t, ctx.Excluded, 1)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("abc", 0))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
}
