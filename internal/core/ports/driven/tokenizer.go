package driven

// Tokenizer turns text into normalised terms. The same instance must serve
// both index build and query so that identical text yields identical terms.
type Tokenizer interface {
	// Tokens returns the lower-cased, punctuation-free terms of text in order.
	// Stop-words are dropped when the implementation is configured to do so.
	Tokens(text string) []string
}
