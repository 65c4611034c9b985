package services

import (
	"hash/fnv"
	"regexp"
	"strings"
)

// smallTalkRule answers one family of chit-chat.
type smallTalkRule struct {
	name     string
	patterns []*regexp.Regexp
	replies  []string
}

// SmallTalk answers greetings and pleasantries from a canned table,
// before any retrieval or generation happens.
type SmallTalk struct {
	rules []smallTalkRule
}

// NewSmallTalk returns the built-in table.
func NewSmallTalk() *SmallTalk {
	return &SmallTalk{rules: []smallTalkRule{
		{
			name: "greeting",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^\s*(hi+|hello+|hey+|yo|hola|namaste)\s*[!.]*\s*$`),
				regexp.MustCompile(`(?i)^\s*good\s*(morning|afternoon|evening|night)\s*[!.]*\s*$`),
			},
			replies: []string{"Hey! 👋", "Hello! 👋", "Hi! 👋"},
		},
		{
			name: "wellbeing",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^\s*(how\s*are\s*you|hru|how'?s\s*it\s*going)\s*\?*\s*$`),
			},
			replies: []string{"All good! How can I help with sports info?", "Doing great!! What do you need help with?"},
		},
		{
			name: "thanks",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^\s*(thanks|thank\s*you|ty|thx)\s*[!.]*\s*$`),
			},
			replies: []string{"Anytime!", "You're welcome!", "Glad to help!"},
		},
		{
			name: "acknowledgement",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^\s*(ok|okay|cool|nice)\s*[!.]*\s*$`),
			},
			replies: []string{"👍", "Got it!", "Cool."},
		},
		{
			name: "farewell",
			patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^\s*(bye|goodbye|see\s*ya|see\s*you)\s*[!.]*\s*$`),
			},
			replies: []string{"Bye! 👋", "See you around!", "Take care!"},
		},
	}}
}

// Reply returns a canned reply if message is small talk.
// The same message always gets the same reply.
func (s *SmallTalk) Reply(message string) (string, bool) {
	for _, rule := range s.rules {
		for _, p := range rule.patterns {
			if p.MatchString(message) {
				return rule.replies[pick(message, len(rule.replies))], true
			}
		}
	}
	return "", false
}

// pick maps a message to a stable index in [0, n).
func pick(message string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(message))))
	return int(h.Sum32() % uint32(n))
}
