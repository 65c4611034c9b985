package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatOptions configures the chat pipeline.
type ChatOptions struct {
	// TopK is the number of chunks retrieved per message.
	TopK int

	// Generation carries sampling parameters, timeout and retry policy.
	Generation domain.GenerationSettings
}

// ChatService answers messages: canned replies first, then retrieval,
// generation and validation, with a deterministic fallback on any failure.
type ChatService struct {
	knowledge SnapshotProvider
	generator driven.Generator
	assembler *ContextAssembler
	validator *ResponseValidator
	smallTalk *SmallTalk
	fallback  *Fallback
	prompts   *PromptBuilder
	opts      ChatOptions
	newID     func() string
}

// NewChatService creates a chat service. generator may be nil, in which
// case every non-canned message gets the fallback reply.
func NewChatService(
	knowledge SnapshotProvider,
	generator driven.Generator,
	assembler *ContextAssembler,
	validator *ResponseValidator,
	prompts *PromptBuilder,
	opts ChatOptions,
) *ChatService {
	if prompts == nil {
		prompts = NewPromptBuilder(nil)
	}
	if assembler == nil {
		assembler = NewContextAssembler(0, nil)
	}
	return &ChatService{
		knowledge: knowledge,
		generator: generator,
		assembler: assembler,
		validator: validator,
		smallTalk: NewSmallTalk(),
		fallback:  NewFallback(),
		prompts:   prompts,
		opts:      opts,
		newID:     func() string { return uuid.NewString() },
	}
}

// Ask returns a reply for message. Reply.Text is always set.
func (s *ChatService) Ask(ctx context.Context, message string) (domain.Reply, error) {
	log := logger.ForRequest(s.newID())
	message = strings.TrimSpace(message)
	log.Debug("Message: %q", message)

	if message == "" {
		return domain.Reply{Text: EmptyMessageReply, Kind: domain.ReplyEmpty}, nil
	}
	if s.validator != nil && s.validator.ContainsProfanity(message) {
		log.Info("Blocked language in message")
		return domain.Reply{Text: ProfanityReply, Kind: domain.ReplyProfanity}, nil
	}
	if text, ok := s.smallTalk.Reply(message); ok {
		return domain.Reply{Text: text, Kind: domain.ReplySmallTalk}, nil
	}

	kb := s.knowledge.Snapshot()
	if kb == nil {
		log.Error("Chat before knowledge base load")
		return s.fallbackReply(message, ErrNotLoaded.Error(), nil, domain.AssembledContext{}), ErrNotLoaded
	}

	matches := kb.Index().Query(message, s.opts.TopK)
	assembled := s.assembler.Assemble(message, matches)
	log.Info("Matched %d chunks, %d in context, %d excluded by event",
		len(matches), len(assembled.Included), len(assembled.Excluded))

	if s.generator == nil {
		return s.fallbackReply(message, domain.ErrLLMUnavailable.Error(), matches, assembled), nil
	}

	prompt := s.prompts.Build(message, assembled)
	text, err := s.generate(ctx, log, prompt, kb.SystemPrompt())
	if err != nil {
		log.Warn("Generation failed: %v", err)
		return s.fallbackReply(message, err.Error(), matches, assembled), nil
	}

	if s.validator != nil {
		if err := s.validator.Validate(message, text); err != nil {
			log.Warn("Validation failed: %v", err)
			return s.fallbackReply(message, err.Error(), matches, assembled), nil
		}
	}

	return domain.Reply{
		Text:    strings.TrimSpace(text),
		Kind:    domain.ReplyGenerated,
		Context: assembled.Text,
		Matches: matches,
	}, nil
}

// generate calls the generator with a per-attempt timeout and retries once
// after a transient failure.
func (s *ChatService) generate(ctx context.Context, log logger.Request, prompt, system string) (string, error) {
	g := s.opts.Generation
	opts := driven.GenerateOptions{
		SystemInstruction: system,
		MaxTokens:         g.MaxTokens,
		Temperature:       g.Temperature,
		TopK:              g.TopK,
		TopP:              g.TopP,
	}

	attempts := 1
	if g.Retry {
		attempts = 2
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := s.attempt(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil || !domain.IsTransient(err) {
			break
		}
		if attempt < attempts {
			log.Warn("Attempt %d failed, retrying: %v", attempt, err)
		}
	}
	return "", lastErr
}

func (s *ChatService) attempt(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	timeout := s.opts.Generation.Timeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
			err = fmt.Errorf("%w after %s: %w", domain.ErrTimeout, time.Since(start).Round(time.Millisecond), err)
		}
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyResponse
	}
	return text, nil
}

func (s *ChatService) fallbackReply(
	message, reason string, matches []domain.Match, assembled domain.AssembledContext,
) domain.Reply {
	return domain.Reply{
		Text:    s.fallback.Reply(message),
		Kind:    domain.ReplyFallback,
		Reason:  reason,
		Context: assembled.Text,
		Matches: matches,
	}
}
