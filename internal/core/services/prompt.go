package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// PromptBuilder renders the user-turn prompt around a message.
type PromptBuilder struct {
	store driven.PromptStore
}

// NewPromptBuilder creates a builder. A nil store uses the built-in templates.
func NewPromptBuilder(store driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{store: store}
}

// Build renders the with-context template when context is present and the
// without-context template otherwise.
func (b *PromptBuilder) Build(message string, assembled domain.AssembledContext) string {
	if assembled.IsEmpty() {
		return b.render(driven.PromptChatWithoutContext, message)
	}
	return b.render(driven.PromptChatWithContext, assembled.Text, message)
}

func (b *PromptBuilder) render(name string, args ...any) string {
	if b.store != nil {
		tmpl, err := b.store.Load(name)
		if err == nil {
			out := fmt.Sprintf(tmpl, args...)
			// %!s(MISSING) and %!(EXTRA ...) mean the template lost its placeholders
			if !strings.Contains(out, "%!") {
				return out
			}
			logger.Warn("Prompt %q has wrong placeholders, using built-in template", name)
		} else {
			logger.Warn("Load prompt %q: %v", name, err)
		}
	}
	return fmt.Sprintf(driven.DefaultPrompts[name], args...)
}
