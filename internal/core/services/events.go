package services

import (
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// EventDetector finds catalog events mentioned in text. Detection runs
// through the shared tokenizer, so "Agility-Cup" and "agility cup" agree.
type EventDetector struct {
	tokenizer driven.Tokenizer
	catalog   domain.EventCatalog
	rules     []compiledRule
}

type compiledRule struct {
	label domain.EventLabel
	terms [][]string
}

// NewEventDetector compiles catalog terms with tokenizer.
// Terms that tokenise to nothing (e.g. only stop-words) are ignored.
func NewEventDetector(catalog domain.EventCatalog, tokenizer driven.Tokenizer) *EventDetector {
	d := &EventDetector{tokenizer: tokenizer, catalog: catalog}
	for _, rule := range catalog {
		cr := compiledRule{label: rule.Label}
		for _, term := range rule.Terms {
			if toks := tokenizer.Tokens(term); len(toks) > 0 {
				cr.terms = append(cr.terms, toks)
			}
		}
		if len(cr.terms) > 0 {
			d.rules = append(d.rules, cr)
		}
	}
	return d
}

// Catalog returns the catalog the detector was built from.
func (d *EventDetector) Catalog() domain.EventCatalog {
	return d.catalog
}

// Detect returns the events mentioned in text, in catalog order.
func (d *EventDetector) Detect(text string) []domain.EventLabel {
	return d.detectTokens(d.tokenizer.Tokens(text))
}

func (d *EventDetector) detectTokens(tokens []string) []domain.EventLabel {
	if len(tokens) == 0 || len(d.rules) == 0 {
		return nil
	}

	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}

	var labels []domain.EventLabel
	for _, rule := range d.rules {
		for _, term := range rule.terms {
			if containsAll(present, term) {
				labels = append(labels, rule.label)
				break
			}
		}
	}
	return labels
}

func containsAll(present map[string]struct{}, tokens []string) bool {
	for _, t := range tokens {
		if _, ok := present[t]; !ok {
			return false
		}
	}
	return true
}
