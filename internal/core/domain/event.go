package domain

import "strings"

// EventLabel names a sports event, e.g. "Agility Cup".
type EventLabel string

// String returns the string representation.
func (l EventLabel) String() string {
	return string(l)
}

// EventRule associates a label with the terms that signal it.
// A term may span several words ("agility cup"); it matches when every
// one of its tokens is present.
type EventRule struct {
	Label EventLabel
	Terms []string
}

// EventCatalog is the ordered set of known events.
type EventCatalog []EventRule

// DefaultEventCatalog returns the events the committee runs.
func DefaultEventCatalog() EventCatalog {
	return EventCatalog{
		{Label: "Agility Cup", Terms: []string{"agility"}},
		{Label: "Spoorthi", Terms: []string{"spoorthi"}},
		{Label: "Marathon", Terms: []string{"marathon"}},
	}
}

// ParseEventRule parses "Label:term1|term2". The label alone is used as
// the term when no terms are given.
func ParseEventRule(s string) (EventRule, bool) {
	label, terms, _ := strings.Cut(s, ":")
	label = strings.TrimSpace(label)
	if label == "" {
		return EventRule{}, false
	}

	rule := EventRule{Label: EventLabel(label)}
	for _, term := range strings.Split(terms, "|") {
		if term = strings.TrimSpace(term); term != "" {
			rule.Terms = append(rule.Terms, term)
		}
	}
	if len(rule.Terms) == 0 {
		rule.Terms = []string{label}
	}
	return rule, true
}

// Labels returns the labels in catalog order.
func (c EventCatalog) Labels() []EventLabel {
	labels := make([]EventLabel, len(c))
	for i, rule := range c {
		labels[i] = rule.Label
	}
	return labels
}

// Canonical returns the catalog's spelling of label, matched
// case-insensitively. Unknown labels come back unchanged.
func (c EventCatalog) Canonical(label EventLabel) EventLabel {
	for _, rule := range c {
		if strings.EqualFold(string(rule.Label), string(label)) {
			return rule.Label
		}
	}
	return label
}

// EventSet is a set of event labels.
type EventSet map[EventLabel]struct{}

// NewEventSet builds a set from labels.
func NewEventSet(labels ...EventLabel) EventSet {
	s := make(EventSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s EventSet) Has(label EventLabel) bool {
	_, ok := s[label]
	return ok
}

// Intersects reports whether any of labels is in the set.
func (s EventSet) Intersects(labels []EventLabel) bool {
	for _, l := range labels {
		if s.Has(l) {
			return true
		}
	}
	return false
}
