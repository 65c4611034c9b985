package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/tui"
)

// tuiRunner starts the program; tests replace it to avoid taking the terminal.
var tuiRunner = func(app *tui.App) error {
	return app.Run()
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the full-screen terminal interface for SportsCom.

The menu leads to a chat view and a knowledge search view.

Controls:
  Enter    - Send / Search / Select
  Ctrl+O   - Show the context used for the last reply
  ↑/↓      - Scroll / Navigate results
  Esc      - Back
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	needsKnowledge(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tui.NewPorts(chatService, retrievalService, knowledgeService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := tuiRunner(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
