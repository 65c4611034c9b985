package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	AskFunc func(ctx context.Context, message string) (domain.Reply, error)
}

func (m *MockChatService) Ask(ctx context.Context, message string) (domain.Reply, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, message)
	}
	return domain.Reply{Text: "ok", Kind: domain.ReplyGenerated}, nil
}

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	SearchFunc func(ctx context.Context, query string, k int) ([]domain.Match, error)
}

func (m *MockRetrievalService) Search(ctx context.Context, query string, k int) ([]domain.Match, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, k)
	}
	return nil, nil
}

func (m *MockRetrievalService) Context(_ context.Context, _ string) (domain.AssembledContext, error) {
	return domain.AssembledContext{}, nil
}

// MockKnowledgeService implements driving.KnowledgeService for testing.
type MockKnowledgeService struct {
	StatsValue driving.KnowledgeStats
	Err        error
}

func (m *MockKnowledgeService) Load(_ context.Context) error   { return m.Err }
func (m *MockKnowledgeService) Reload(_ context.Context) error { return m.Err }
func (m *MockKnowledgeService) Stats() (driving.KnowledgeStats, error) {
	return m.StatsValue, m.Err
}

func TestNewPorts(t *testing.T) {
	chat := &MockChatService{}
	retrieval := &MockRetrievalService{}
	knowledge := &MockKnowledgeService{}

	ports := NewPorts(chat, retrieval, knowledge)

	assert.Equal(t, chat, ports.Chat)
	assert.Equal(t, retrieval, ports.Retrieval)
	assert.Equal(t, knowledge, ports.Knowledge)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil", nil, ErrInvalidPorts},
		{"missing chat", &Ports{Retrieval: &MockRetrievalService{}}, ErrMissingChatService},
		{"missing retrieval", &Ports{Chat: &MockChatService{}}, ErrMissingRetrievalService},
		{"knowledge optional", &Ports{Chat: &MockChatService{}, Retrieval: &MockRetrievalService{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
