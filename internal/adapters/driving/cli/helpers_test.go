package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sportscom/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/core/services"
)

// MockChatService implements driving.ChatService for CLI tests.
type MockChatService struct {
	AskFunc func(ctx context.Context, message string) (domain.Reply, error)
	Asked   []string
}

func (m *MockChatService) Ask(ctx context.Context, message string) (domain.Reply, error) {
	m.Asked = append(m.Asked, message)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, message)
	}
	return domain.Reply{Text: "Agility Cup is in November.", Kind: domain.ReplyGenerated}, nil
}

// MockRetrievalService implements driving.RetrievalService for CLI tests.
type MockRetrievalService struct {
	SearchFunc  func(ctx context.Context, query string, k int) ([]domain.Match, error)
	ContextFunc func(ctx context.Context, query string) (domain.AssembledContext, error)
}

func (m *MockRetrievalService) Search(ctx context.Context, query string, k int) ([]domain.Match, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, k)
	}
	return []domain.Match{
		{
			Chunk: domain.Chunk{
				Position: 4,
				Content:  "Agility Cup is an inter-department sports fest held in November.",
				Events:   []domain.EventLabel{"Agility Cup"},
			},
			Score: 0.75,
		},
	}, nil
}

func (m *MockRetrievalService) Context(ctx context.Context, query string) (domain.AssembledContext, error) {
	if m.ContextFunc != nil {
		return m.ContextFunc(ctx, query)
	}
	return domain.AssembledContext{
		Text:        "Agility Cup is an inter-department sports fest held in November.",
		QueryEvents: []domain.EventLabel{"Agility Cup"},
	}, nil
}

// MockKnowledgeService implements driving.KnowledgeService for CLI tests.
type MockKnowledgeService struct {
	Reloads int
}

func (m *MockKnowledgeService) Load(context.Context) error { return nil }

func (m *MockKnowledgeService) Reload(context.Context) error {
	m.Reloads++
	return nil
}

func (m *MockKnowledgeService) Stats() (driving.KnowledgeStats, error) {
	return driving.KnowledgeStats{
		Source:   "processed_chunks.txt",
		Chunks:   12,
		Indexed:  11,
		LoadedAt: time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
	}, nil
}

// setupTestServices installs in-memory services and returns a restore func.
func setupTestServices() func() {
	prevSettings := settingsService
	prevKnowledge := knowledgeService
	prevChat := chatService
	prevRetrieval := retrievalService
	prevEnvFile := envFile

	settings := services.NewSettingsService(memory.NewConfigStore(), nil)
	settings.SetEnvLookup(func(string) (string, bool) { return "", false })

	settingsService = settings
	knowledgeService = &MockKnowledgeService{}
	chatService = &MockChatService{}
	retrievalService = &MockRetrievalService{}
	envFile = ""

	return func() {
		settingsService = prevSettings
		knowledgeService = prevKnowledge
		chatService = prevChat
		retrievalService = prevRetrieval
		envFile = prevEnvFile
	}
}

// executeRoot runs the root command with ctx. Cobra only hands the root
// context to a subcommand whose own context is unset, so every command is
// pinned to ctx first; otherwise a context left by an earlier run sticks.
func executeRoot(ctx context.Context, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	setCommandContexts(rootCmd, ctx)
	defer setCommandContexts(rootCmd, context.Background())

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func setCommandContexts(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, sub := range cmd.Commands() {
		setCommandContexts(sub, ctx)
	}
}
