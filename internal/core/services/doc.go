// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval pipeline is:
//
//	CorpusSource -> LoadCorpus -> FingerprintIndex   (once per load)
//	message -> SmallTalk | Query -> ContextAssembler -> Generator -> ResponseValidator
//
// Any failure after retrieval ends in the deterministic Fallback reply.
package services
