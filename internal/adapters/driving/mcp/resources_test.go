package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"plain", "sportscom://context/agility", "agility"},
		{"encoded", "sportscom://context/agility%20cup%20kab", "agility cup kab"},
		{"invalid prefix", "file://context/agility", ""},
		{"empty query", "sportscom://context/", ""},
		{"bad escape", "sportscom://context/%zz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractQuery(tt.uri))
		})
	}
}

func TestServer_handleKnowledgeResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil knowledge service reports not loaded", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		result, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("sportscom://knowledge"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.JSONEq(t, `{"loaded":false,"chunks":0,"indexed":0}`, result.Contents[0].Text)
	})

	t.Run("reports stats", func(t *testing.T) {
		ports := newTestPorts()
		ports.Knowledge = &mockKnowledgeService{stats: driving.KnowledgeStats{
			Source:   "processed_chunks.txt",
			Chunks:   12,
			Indexed:  11,
			LoadedAt: time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC),
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("sportscom://knowledge"))

		require.NoError(t, err)
		var info knowledgeInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.True(t, info.Loaded)
		assert.Equal(t, 12, info.Chunks)
		assert.Equal(t, 11, info.Indexed)
		assert.Equal(t, "2025-10-01T09:30:00Z", info.LoadedAt)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("stats error reports not loaded", func(t *testing.T) {
		ports := newTestPorts()
		ports.Knowledge = &mockKnowledgeService{err: errors.New("not loaded")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleKnowledgeResource(ctx, makeReadResourceRequest("sportscom://knowledge"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"loaded":false`)
	})
}

func TestServer_handleContextResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns assembled context", func(t *testing.T) {
		retrieval := &mockRetrievalService{assembled: domain.AssembledContext{Text: "Agility Cup trials Monday."}}
		ports := newTestPorts()
		ports.Retrieval = retrieval
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleContextResource(ctx, makeReadResourceRequest("sportscom://context/agility%20cup"))

		require.NoError(t, err)
		assert.Equal(t, "agility cup", retrieval.lastQuery)
		assert.Equal(t, "Agility Cup trials Monday.", result.Contents[0].Text)
	})

	t.Run("invalid uri returns not found", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		_, err = server.handleContextResource(ctx, makeReadResourceRequest("sportscom://invalid"))

		assert.Error(t, err)
	})

	t.Run("retrieval error", func(t *testing.T) {
		ports := newTestPorts()
		ports.Retrieval = &mockRetrievalService{err: errors.New("not loaded")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleContextResource(ctx, makeReadResourceRequest("sportscom://context/x"))

		assert.ErrorContains(t, err, "not loaded")
	})
}
