package driving

import (
	"context"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// ChatService answers one message at a time.
type ChatService interface {
	// Ask returns a reply for message. Reply.Text is always set; the error
	// is reserved for misuse such as asking before the knowledge base loaded.
	Ask(ctx context.Context, message string) (domain.Reply, error)
}
