package domain

// ReplyKind records which path produced a reply.
type ReplyKind string

// Reply kinds.
const (
	// ReplyEmpty answers a blank message.
	ReplyEmpty ReplyKind = "empty"

	// ReplyProfanity answers a message containing blocked language.
	ReplyProfanity ReplyKind = "profanity"

	// ReplySmallTalk answers greetings and chit-chat from the canned table.
	ReplySmallTalk ReplyKind = "small_talk"

	// ReplyGenerated is validated output from the generation API.
	ReplyGenerated ReplyKind = "generated"

	// ReplyFallback replaces a failed or rejected generation.
	ReplyFallback ReplyKind = "fallback"
)

// String returns the string representation.
func (k ReplyKind) String() string {
	return string(k)
}

// Reply is the outcome of one chat request.
// Text is always set, whatever path produced it.
type Reply struct {
	// Text is shown to the user.
	Text string

	// Kind records the path that produced Text.
	Kind ReplyKind

	// Reason explains a fallback; empty otherwise.
	Reason string

	// Context is the assembled knowledge context sent to the model, if any.
	Context string

	// Matches are the retrieval results for the message.
	Matches []Match
}
