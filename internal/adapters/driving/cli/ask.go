package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sportscom/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single question",
	Long: `Sends one message through the full chat pipeline and prints the reply.

Examples:
  sportscom ask "agility cup kab hai"
  sportscom ask --json "who won spoorthi last year"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the reply as JSON")
	needsKnowledge(askCmd)
	rootCmd.AddCommand(askCmd)
}

// askResult is the JSON shape of a reply.
type askResult struct {
	Response string `json:"response"`
	Kind     string `json:"kind"`
	Reason   string `json:"reason,omitempty"`
	Matches  int    `json:"matches"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	reply, err := chatService.Ask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputReplyJSON(cmd, reply)
	}
	cmd.Println(reply.Text)
	if reply.Kind == domain.ReplyFallback && reply.Reason != "" {
		cmd.PrintErrf("(fallback: %s)\n", reply.Reason)
	}
	return nil
}

func outputReplyJSON(cmd *cobra.Command, reply domain.Reply) error {
	data, err := json.MarshalIndent(askResult{
		Response: reply.Text,
		Kind:     reply.Kind.String(),
		Reason:   reply.Reason,
		Matches:  len(reply.Matches),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
