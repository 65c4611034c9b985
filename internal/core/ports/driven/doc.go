// Package driven lists what the core needs from the outside world:
// tokenizing text, reading the knowledge base, settings, prompts and a
// language model. Adapters under internal/adapters/driven implement them.
//
// # Always wired
//
//   - Tokenizer: Shared term extraction for index build and query
//   - CorpusSource: Knowledge base and persona text
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # May be nil
//
//   - Generator / LLMService: Without it every non-small-talk message gets the
//     deterministic fallback reply.
//   - RateLimiter: Without it generation calls are not throttled.
//
// Only the domain package may be imported from here.
package driven
