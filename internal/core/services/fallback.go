package services

import (
	"strings"
	"unicode"
)

// Fixed replies used outside the keyword table.
const (
	// EmptyMessageReply answers a blank message.
	EmptyMessageReply = "Kuch toh bolo yaar!"

	// ProfanityReply answers abusive input.
	ProfanityReply = "Please use proper language."

	// DefaultFallbackReply is the last rule of the keyword table.
	DefaultFallbackReply = "Ask this on sports update group."

	// ErrorReply is shown when a request could not be processed at all.
	ErrorReply = "Something went wrong. Ask this on sports update group."
)

type fallbackRule struct {
	keywords []string
	reply    string
}

// Fallback produces deterministic keyword-based replies when generation
// is unavailable, fails, or is rejected.
type Fallback struct {
	rules []fallbackRule
}

// NewFallback returns the built-in keyword table. Rules are tried in order.
func NewFallback() *Fallback {
	return &Fallback{rules: []fallbackRule{
		{
			keywords: []string{"agility", "cup"},
			reply:    "Agility Cup open hai bro, apni team banao, mix branches/years chalega. November first week tentative hai. Final dates class groups pe aayenge.",
		},
		{
			keywords: []string{"spoorthi"},
			reply:    "Spoorthi Feb-Mar mein hai. Team sports ke liye college team selection chahiye, chess/TT jaise solos jab announce honge tab.",
		},
		{
			keywords: []string{"committee", "join", "selection"},
			reply:    "Committee selections after 10th October. Forms kal se float ho jayenge. Interview hogi but bakchodiyan bhi hongi, dw.",
		},
		{
			keywords: []string{"date", "when", "schedule"},
			reply:    "Seniors will post the final dates on official class groups.",
		},
		{
			keywords: []string{"basketball"},
			reply:    "Basketball trials early Oct. Venue: Wadia court.",
		},
		{
			keywords: []string{"cricket", "football"},
			reply:    "Cricket/Football trials tentatively 1st week Nov. Venue: Bhavan's ground (post-rains maintenance dependent).",
		},
		{
			keywords: []string{"badminton"},
			reply:    "Badminton venue: ASC courts (online booking available).",
		},
		{
			keywords: []string{"chess"},
			reply:    "FIDE Chess tournament bhi hai. Chess teams technical hai, practice groups banenge.",
		},
		{
			keywords: []string{"venue", "where", "court"},
			reply:    "Basketball: Wadia court, Cricket/Football: Bhavan's ground, Badminton: ASC courts, TT/Carrom: Gymkhana.",
		},
	}}
}

// Reply returns the first rule whose keyword appears as a word in message
// (a trailing plural "s" is accepted), or DefaultFallbackReply.
func (f *Fallback) Reply(message string) string {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		words[w] = struct{}{}
		words[strings.TrimSuffix(w, "s")] = struct{}{}
	}

	for _, rule := range f.rules {
		for _, k := range rule.keywords {
			if _, ok := words[k]; ok {
				return rule.reply
			}
		}
	}
	return DefaultFallbackReply
}

// Replies returns every reply the table can produce, default last.
func (f *Fallback) Replies() []string {
	out := make([]string, 0, len(f.rules)+1)
	for _, r := range f.rules {
		out = append(out, r.reply)
	}
	return append(out, DefaultFallbackReply)
}
