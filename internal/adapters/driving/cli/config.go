package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sportscom/internal/adapters/driven/ai"
	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change SportsCom configuration.

Settings are read from defaults, then config.toml in the config directory,
then environment variables (GEMINI_API_KEY, LLM_PROVIDER, PORT, ...),
each overriding the last. A .env file in the working directory is loaded first.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config directory",
	RunE:  runConfigPath,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one setting",
	Long: `Set one setting and save it to config.toml.

Lists are comma separated. Durations use Go syntax such as 30s.

Examples:
  sportscom config set retrieval.top_k 5
  sportscom config set generation.provider ollama
  sportscom config set response.blocklist "word1,word2"`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeConfigKeys,
	RunE:              runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, k := range services.KnownKeys() {
			cmd.Println(k)
		}
		return nil
	},
}

var configProviderCmd = &cobra.Command{
	Use:   "provider",
	Short: "Configure the generation provider interactively",
	RunE:  runConfigProvider,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configProviderCmd)
	rootCmd.AddCommand(configCmd)
}

func completeConfigKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return services.KnownKeys(), cobra.ShellCompDirectiveNoFileComp
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("SportsCom Settings")
	cmd.Println("==================")
	cmd.Println()

	cmd.Println("[Knowledge]")
	cmd.Printf("  Path: %s\n", settings.Knowledge.Path)
	cmd.Printf("  System prompt: %s\n", settings.Knowledge.SystemPromptPath)
	if settings.Knowledge.Delimiter != "" {
		cmd.Printf("  Delimiter: %q\n", settings.Knowledge.Delimiter)
	} else {
		cmd.Println("  Delimiter: (blank lines)")
	}
	cmd.Printf("  Max terms: %d\n", settings.Knowledge.MaxTerms)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Min score: %g\n", settings.Retrieval.MinScore)
	cmd.Printf("  Normalization: %s (%s)\n", settings.Retrieval.Normalization,
		settings.Retrieval.Normalization.Description())
	cmd.Printf("  Stop words: %t\n", settings.Retrieval.StopWords)
	cmd.Printf("  Context budget: %d chars\n", settings.Retrieval.ContextBudget)
	cmd.Printf("  Events: %d\n", len(settings.Retrieval.Events))
	cmd.Println()

	cmd.Println("[Generation]")
	gen := settings.Generation
	cmd.Printf("  Provider: %s\n", gen.Provider.Description())
	model := gen.Model
	if model == "" {
		model = ai.DefaultModel(gen.Provider)
	}
	cmd.Printf("  Model: %s\n", model)
	if gen.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", gen.BaseURL)
	}
	if gen.Provider.RequiresAPIKey() {
		if gen.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(gen.APIKey))
		} else {
			cmd.Println("  API Key: (not set)")
		}
	}
	cmd.Printf("  Temperature: %g, max tokens: %d, top-k: %d, top-p: %g\n",
		gen.Temperature, gen.MaxTokens, gen.TopK, gen.TopP)
	cmd.Printf("  Timeout: %s, retry: %t\n", gen.Timeout, gen.Retry)
	status := "configured"
	if !gen.IsConfigured() {
		status = "not configured (replies will use the fallback)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Response]")
	cmd.Printf("  Length: %d-%d chars (%d when asked for %q)\n",
		settings.Response.MinLength, settings.Response.MaxLength,
		settings.Response.DetailMaxLength, settings.Response.DetailKeyword)
	cmd.Printf("  Blocklist: %d terms\n", len(settings.Response.Blocklist))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr())
	cmd.Printf("  Allowed origins: %s\n", strings.Join(settings.Server.AllowedOrigins, ", "))

	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	dir, err := resolveConfigDir(configDir)
	if err != nil {
		return fmt.Errorf("config directory: %w", err)
	}
	cmd.Println(filepath.Join(dir, "config.toml"))
	cmd.Println(filepath.Join(dir, "prompts"))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return err
	}

	shown := value
	if key == services.KeyAPIKey {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runConfigProvider(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Select Generation Provider")
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := ai.DefaultModel(provider)
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.Set(services.KeyProvider, provider.String()); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	if err := settingsService.Set(services.KeyModel, model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}
	if apiKey != "" {
		if err := settingsService.Set(services.KeyAPIKey, apiKey); err != nil {
			return fmt.Errorf("failed to set API key: %w", err)
		}
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateGeneration(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("generation configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Generation provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal, otherwise from reader.
func readPassword(reader *bufio.Reader) string {
	if isInteractive() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
