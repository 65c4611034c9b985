package services

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// chunkSeparator joins chunk texts inside the context.
const chunkSeparator = "\n"

// ContextAssembler turns ranked matches into prompt context.
type ContextAssembler struct {
	budget   int
	detector *EventDetector
}

// NewContextAssembler creates an assembler. budget is in characters;
// zero or less means unlimited. A nil detector disables event isolation.
func NewContextAssembler(budget int, detector *EventDetector) *ContextAssembler {
	return &ContextAssembler{budget: budget, detector: detector}
}

// Assemble concatenates match texts in rank order within the budget.
//
// When the query names one or more events, a chunk labelled only with other
// events is dropped; unlabelled chunks always stay. Whole chunks are added
// while they fit. If the first surviving chunk alone exceeds the budget it
// is truncated, so some context is returned whenever a match survived.
func (a *ContextAssembler) Assemble(query string, matches []domain.Match) domain.AssembledContext {
	var out domain.AssembledContext
	if len(matches) == 0 {
		return out
	}

	var wanted domain.EventSet
	if a.detector != nil {
		out.QueryEvents = a.detector.Detect(query)
		if len(out.QueryEvents) > 0 {
			wanted = domain.NewEventSet(out.QueryEvents...)
		}
	}

	var b strings.Builder
	used := 0
	for _, m := range matches {
		if wanted != nil && len(m.Chunk.Events) > 0 && !wanted.Intersects(m.Chunk.Events) {
			out.Excluded = append(out.Excluded, m)
			continue
		}

		text := m.Chunk.Content
		size := utf8.RuneCountInString(text)
		sep := 0
		if used > 0 {
			sep = utf8.RuneCountInString(chunkSeparator)
		}

		if a.budget > 0 && used+sep+size > a.budget {
			if used > 0 {
				logger.Debug("Context budget reached, skipping chunk %d", m.Chunk.Position)
				continue
			}
			text = truncateRunes(text, a.budget)
			size = a.budget
		}

		if used > 0 {
			b.WriteString(chunkSeparator)
		}
		b.WriteString(text)
		used += sep + size
		out.Included = append(out.Included, m)
	}

	out.Text = b.String()
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
