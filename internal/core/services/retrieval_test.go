package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

func newTestRetrieval(t *testing.T) *RetrievalService {
	t.Helper()
	corpus := sampleCorpus + "\n\nAgility Cup finals are at the college ground in November."
	kb, detector := buildKnowledge(corpus, domain.NormalizeQuery)
	return NewRetrievalService(NewStaticSnapshot(kb), NewContextAssembler(2000, detector), 3)
}

func TestRetrievalService_Search(t *testing.T) {
	svc := newTestRetrieval(t)

	matches, err := svc.Search(context.Background(), "agility cup ground", 5)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Chunk.Position, "ties keep corpus order")
	assert.Equal(t, 2, matches[1].Chunk.Position)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
}

func TestRetrievalService_SearchLimitsK(t *testing.T) {
	svc := newTestRetrieval(t)

	matches, err := svc.Search(context.Background(), "agility cup ground", 1)

	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRetrievalService_SearchDefaultK(t *testing.T) {
	svc := newTestRetrieval(t)

	matches, err := svc.Search(context.Background(), "agility spoorthi ground", 0)

	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestRetrievalService_SearchEmptyQuery(t *testing.T) {
	svc := newTestRetrieval(t)

	matches, err := svc.Search(context.Background(), "   ", 3)

	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestRetrievalService_SearchNoOverlap(t *testing.T) {
	svc := newTestRetrieval(t)

	matches, err := svc.Search(context.Background(), "hostel fees", 3)

	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestRetrievalService_NotLoaded(t *testing.T) {
	svc := NewRetrievalService(NewStaticSnapshot(nil), NewContextAssembler(100, nil), 3)

	_, err := svc.Search(context.Background(), "agility", 3)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.Context(context.Background(), "agility")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestRetrievalService_ContextIsolatesEvents(t *testing.T) {
	svc := newTestRetrieval(t)

	assembled, err := svc.Context(context.Background(), "agility registrations ground")

	require.NoError(t, err)
	assert.Equal(t, []domain.EventLabel{"Agility Cup"}, assembled.QueryEvents)
	assert.NotContains(t, assembled.Text, "Spoorthi")
	assert.Contains(t, assembled.Text, "Agility Cup trials")
	require.Len(t, assembled.Excluded, 1)
	assert.Equal(t, 1, assembled.Excluded[0].Chunk.Position)
}
