package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// defaultSearchLimit applies when the caller gives no limit.
const defaultSearchLimit = 3

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Message string `json:"message" jsonschema:"the question to ask the SportsCom bot"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Reply   string `json:"reply"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason,omitempty"`
	Context string `json:"context,omitempty"`
}

// SearchInput is the input schema for the search_knowledge tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to match against the knowledge base"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 3)"`
}

// SearchOutput is the output schema for the search_knowledge tool.
type SearchOutput struct {
	Results []ChunkOutput `json:"results"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single ranked chunk.
type ChunkOutput struct {
	Position int      `json:"position"`
	Score    float64  `json:"score"`
	Content  string   `json:"content"`
	Events   []string `json:"events,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the SPIT SportsCom bot a question about college sports events",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge",
		Description: "List the knowledge-base chunks that best match a query, with scores",
	}, s.handleSearch)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	reply, err := s.ports.Chat.Ask(ctx, input.Message)
	if err != nil && reply.Text == "" {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Reply:   reply.Text,
		Kind:    reply.Kind.String(),
		Reason:  reply.Reason,
		Context: reply.Context,
	}, nil
}

// handleSearch handles the search_knowledge tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, errors.New("query is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matches, err := s.ports.Retrieval.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]ChunkOutput, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		output.Results[i] = chunkOutput(m)
	}

	return nil, output, nil
}

func chunkOutput(m domain.Match) ChunkOutput {
	out := ChunkOutput{
		Position: m.Chunk.Position,
		Score:    m.Score,
		Content:  m.Chunk.Content,
	}
	for _, e := range m.Chunk.Events {
		out.Events = append(out.Events, string(e))
	}
	return out
}
