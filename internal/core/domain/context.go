package domain

// AssembledContext is the knowledge text injected into a prompt.
type AssembledContext struct {
	// Text is the concatenated chunk content, within the character budget.
	Text string

	// Included are the matches whose text made it into Text, in rank order.
	Included []Match

	// Excluded are matches dropped by event isolation.
	Excluded []Match

	// QueryEvents are the events detected in the query, in catalog order.
	QueryEvents []EventLabel
}

// IsEmpty returns true if no context was assembled.
func (c AssembledContext) IsEmpty() bool {
	return c.Text == ""
}
