package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const chatGreeting = "SportsCom here. Ask about Agility Cup, Spoorthi or any committee event. Type 'quit' to leave."

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a conversation in the terminal",
	Long: `Reads messages line by line and prints each reply.
Type 'quit' or 'exit', or press Ctrl+D, to leave.

Input can also be piped:
  printf 'hi\nagility cup kab hai\n' | sportscom chat`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	needsKnowledge(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

// isInteractive reports whether stdin is a terminal; prompts are only
// printed when it is.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	interactive := isInteractive()
	if interactive {
		cmd.Println(chatGreeting)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if interactive {
			cmd.Print("You: ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}

		reply, err := chatService.Ask(cmd.Context(), line)
		if err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
		if reply.Text != "" {
			cmd.Printf("SportsCom: %s\n", reply.Text)
		}
		if err := cmd.Context().Err(); err != nil {
			return nil
		}
	}
	if interactive {
		cmd.Println()
	}
	return scanner.Err()
}
