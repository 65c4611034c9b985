// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversation view.
	ViewChat
	// ViewSearch inspects retrieval without generation.
	ViewSearch
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ReplyReceived carries the answer to one chat message.
type ReplyReceived struct {
	Message string
	Reply   domain.Reply
	Err     error
}

// SearchCompleted carries retrieval matches back to the model.
type SearchCompleted struct {
	Query   string
	Matches []domain.Match
	Err     error
}

// StatsLoaded carries knowledge-base statistics for the menu header.
type StatsLoaded struct {
	Stats driving.KnowledgeStats
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
