// Package tui is the full-screen terminal interface: a menu, a chat
// transcript and a knowledge search screen.
package tui

import (
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// Ports holds the services the views call.
type Ports struct {
	// Chat answers messages.
	Chat driving.ChatService

	// Retrieval backs the knowledge search view.
	Retrieval driving.RetrievalService

	// Knowledge reports corpus statistics. Optional.
	Knowledge driving.KnowledgeService
}

func NewPorts(
	chat driving.ChatService,
	retrieval driving.RetrievalService,
	knowledge driving.KnowledgeService,
) *Ports {
	return &Ports{
		Chat:      chat,
		Retrieval: retrieval,
		Knowledge: knowledge,
	}
}

// Validate requires Chat and Retrieval.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
