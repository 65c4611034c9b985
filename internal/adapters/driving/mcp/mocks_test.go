package mcp

import (
	"context"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply   domain.Reply
	err     error
	message string
}

func (m *mockChatService) Ask(_ context.Context, message string) (domain.Reply, error) {
	m.message = message
	return m.reply, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	matches   []domain.Match
	assembled domain.AssembledContext
	err       error
	lastK     int
	lastQuery string
}

func (m *mockRetrievalService) Search(_ context.Context, query string, k int) ([]domain.Match, error) {
	m.lastQuery = query
	m.lastK = k
	return m.matches, m.err
}

func (m *mockRetrievalService) Context(_ context.Context, query string) (domain.AssembledContext, error) {
	m.lastQuery = query
	return m.assembled, m.err
}

// mockKnowledgeService is a mock implementation of driving.KnowledgeService.
type mockKnowledgeService struct {
	stats driving.KnowledgeStats
	err   error
}

func (m *mockKnowledgeService) Load(_ context.Context) error { return m.err }

func (m *mockKnowledgeService) Reload(_ context.Context) error { return m.err }

func (m *mockKnowledgeService) Stats() (driving.KnowledgeStats, error) {
	return m.stats, m.err
}

func newTestPorts() *Ports {
	return &Ports{
		Chat:      &mockChatService{},
		Retrieval: &mockRetrievalService{},
	}
}
