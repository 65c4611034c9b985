package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

// ResponseValidator applies the post-generation policy.
type ResponseValidator struct {
	settings  domain.ResponseSettings
	detector  *EventDetector
	blocklist *regexp.Regexp
}

// NewResponseValidator creates a validator. A nil detector disables the
// event rule.
func NewResponseValidator(settings domain.ResponseSettings, detector *EventDetector) *ResponseValidator {
	return &ResponseValidator{
		settings:  settings,
		detector:  detector,
		blocklist: compileBlocklist(settings.Blocklist),
	}
}

// compileBlocklist builds one case-insensitive whole-word pattern.
func compileBlocklist(terms []string) *regexp.Regexp {
	var quoted []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(t)))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(^|[^\pL\pN])(` + strings.Join(quoted, "|") + `)($|[^\pL\pN])`)
}

// ContainsProfanity reports whether text contains a blocklisted word.
func (v *ResponseValidator) ContainsProfanity(text string) bool {
	return v.blocklist != nil && v.blocklist.MatchString(text)
}

// Validate checks a generated response against the message it answers.
// It returns a *domain.ValidationError describing the first broken rule.
func (v *ResponseValidator) Validate(message, response string) error {
	response = strings.TrimSpace(response)
	length := utf8.RuneCountInString(response)

	if length == 0 {
		return &domain.ValidationError{Reason: "empty response"}
	}
	if v.settings.MinLength > 0 && length < v.settings.MinLength {
		return &domain.ValidationError{
			Reason: fmt.Sprintf("response shorter than %d characters", v.settings.MinLength),
		}
	}
	if limit := v.settings.MaxLengthFor(message); limit > 0 && length > limit {
		return &domain.ValidationError{
			Reason: fmt.Sprintf("response exceeds %d character limit", limit),
		}
	}
	if v.ContainsProfanity(response) {
		return &domain.ValidationError{Reason: "response contains blocked language"}
	}

	if v.detector != nil {
		asked := v.detector.Detect(message)
		if len(asked) > 0 {
			wanted := domain.NewEventSet(asked...)
			for _, mentioned := range v.detector.Detect(response) {
				if !wanted.Has(mentioned) {
					return &domain.ValidationError{
						Reason: fmt.Sprintf("response mentions %s when user asked about %s", mentioned, joinLabels(asked)),
					}
				}
			}
		}
	}

	return nil
}

func joinLabels(labels []domain.EventLabel) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}
