package driven

// PromptStore provides access to prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptChatWithContext wraps retrieved context and the user message.
	// The template expects two %s placeholders: context, then message.
	PromptChatWithContext = "chat_with_context"

	// PromptChatWithoutContext is used when retrieval found nothing.
	// The template expects one %s placeholder for the message.
	PromptChatWithoutContext = "chat_without_context"
)

// DefaultPrompts holds the built-in templates. Stores seed user files from
// these and consumers fall back to them when a custom template is unusable.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var DefaultPrompts = map[string]string{
	PromptChatWithContext: `Context from SportsCom chat history:
%s

User: %s

Respond as a SPIT SportsCom senior student in Hinglish, following the rules strictly. Keep it under 800 characters unless user says "detail".`,

	PromptChatWithoutContext: `User: %s

Respond as a SPIT SportsCom senior student in Hinglish. If you don't know, say "Ask this on sports update group".`,
}
