package mcp

import (
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions.
	Chat driving.ChatService

	// Retrieval exposes ranked chunks.
	Retrieval driving.RetrievalService

	// Knowledge reports corpus statistics. Optional.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
