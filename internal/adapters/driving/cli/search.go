package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchContext bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Ranks knowledge-base chunks by word overlap with the query and prints
the best matches without calling the language model.

Use --context to print the exact context a chat message would send.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 3, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchContext, "context", false, "print the assembled chat context instead")
	needsKnowledge(searchCmd)
	rootCmd.AddCommand(searchCmd)
}

// searchResult is the JSON shape of one match.
type searchResult struct {
	Position int      `json:"position"`
	Score    float64  `json:"score"`
	Events   []string `json:"events,omitempty"`
	Content  string   `json:"content"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	if searchContext {
		assembled, err := retrievalService.Context(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("assemble context: %w", err)
		}
		return outputContext(cmd, assembled)
	}

	matches, err := retrievalService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, matches)
	}

	return outputSearchTable(cmd, matches)
}

func eventNames(labels []domain.EventLabel) []string {
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out
}

func outputSearchJSON(cmd *cobra.Command, matches []domain.Match) error {
	results := make([]searchResult, len(matches))
	for i, m := range matches {
		results[i] = searchResult{
			Position: m.Chunk.Position,
			Score:    m.Score,
			Events:   eventNames(m.Chunk.Events),
			Content:  m.Chunk.Content,
		}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, matches []domain.Match) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, m := range matches {
		// Format: [N] chunk #P [events] (score)
		cmd.Printf("  [%d] chunk #%d", i+1, m.Chunk.Position)
		if names := eventNames(m.Chunk.Events); len(names) > 0 {
			cmd.Printf(" [%s]", strings.Join(names, ", "))
		}
		cmd.Printf(" (%.2f)\n", m.Score)
		cmd.Printf("      %s\n", preview(m.Chunk.Content, 160))
		cmd.Println()
	}

	return nil
}

func outputContext(cmd *cobra.Command, assembled domain.AssembledContext) error {
	if len(assembled.QueryEvents) > 0 {
		cmd.Printf("Query events: %s\n", strings.Join(eventNames(assembled.QueryEvents), ", "))
	}
	cmd.Printf("Included: %d, excluded by event: %d\n\n", len(assembled.Included), len(assembled.Excluded))
	if assembled.IsEmpty() {
		cmd.Println("(no context)")
		return nil
	}
	cmd.Println(assembled.Text)
	return nil
}

// preview collapses whitespace and cuts s to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
