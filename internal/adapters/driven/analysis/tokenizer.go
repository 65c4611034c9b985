// Package analysis provides the text tokenizer used for fingerprints and
// event detection, built on bleve's analysis pipeline.
package analysis

import (
	"strings"
	uni "unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"

	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// Ensure Tokenizer implements the interface.
var _ driven.Tokenizer = (*Tokenizer)(nil)

// Options configures the tokenizer.
type Options struct {
	// StopWords drops common English words.
	StopWords bool

	// ExtraStopWords are dropped in addition to (or, with StopWords off,
	// instead of) the English list. Matching is case-insensitive.
	ExtraStopWords []string
}

// Tokenizer splits text on Unicode word boundaries and again on any
// punctuation left inside a word, lower-cases every token and optionally
// drops stop-words. It is safe for concurrent use.
type Tokenizer struct {
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
}

// NewTokenizer builds a tokenizer from opts.
func NewTokenizer(opts Options) (*Tokenizer, error) {
	t := &Tokenizer{
		tokenizer: unicode.NewUnicodeTokenizer(),
		filters:   []analysis.TokenFilter{splitFilter{}, lowercase.NewLowerCaseFilter()},
	}

	stopWords := analysis.NewTokenMap()
	if opts.StopWords {
		if err := stopWords.LoadBytes(en.EnglishStopWords); err != nil {
			return nil, err
		}
	}
	for _, w := range opts.ExtraStopWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stopWords.AddToken(w)
		}
	}
	if len(stopWords) > 0 {
		t.filters = append(t.filters, stop.NewStopTokensFilter(stopWords))
	}

	return t, nil
}

// Tokens returns the tokens of text in order. Repeated words are kept.
func (t *Tokenizer) Tokens(text string) []string {
	if text == "" {
		return nil
	}

	stream := t.tokenizer.Tokenize([]byte(text))
	for _, f := range t.filters {
		stream = f.Filter(stream)
	}

	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		if len(tok.Term) > 0 {
			out = append(out, string(tok.Term))
		}
	}
	return out
}

// splitFilter breaks terms such as "bhavan's", "3.5km" or "u-17" at the
// apostrophes, periods and other punctuation UAX#29 keeps inside a word.
type splitFilter struct{}

func (splitFilter) Filter(input analysis.TokenStream) analysis.TokenStream {
	out := make(analysis.TokenStream, 0, len(input))
	position := 1
	for _, tok := range input {
		term := string(tok.Term)
		if strings.IndexFunc(term, isSeparator) < 0 {
			tok.Position = position
			position++
			out = append(out, tok)
			continue
		}

		offset := 0
		for _, part := range strings.FieldsFunc(term, isSeparator) {
			at := offset + strings.Index(term[offset:], part)
			offset = at + len(part)
			out = append(out, &analysis.Token{
				Term:     []byte(part),
				Start:    tok.Start + at,
				End:      tok.Start + offset,
				Position: position,
				Type:     tok.Type,
			})
			position++
		}
	}
	return out
}

func isSeparator(r rune) bool {
	return !uni.IsLetter(r) && !uni.IsDigit(r) && !uni.IsMark(r) && r != '_'
}
