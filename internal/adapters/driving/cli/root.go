// Package cli provides the sportscom command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sportscom/internal/adapters/driven/ai"
	"github.com/custodia-labs/sportscom/internal/adapters/driven/analysis"
	"github.com/custodia-labs/sportscom/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sportscom/internal/adapters/driven/corpus"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
	"github.com/custodia-labs/sportscom/internal/core/ports/driving"
	"github.com/custodia-labs/sportscom/internal/core/services"
	"github.com/custodia-labs/sportscom/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Annotation keys controlling what a command needs wired.
const (
	annotationKnowledge = "sportscom/knowledge"
	annotationNoWiring  = "sportscom/no-wiring"
)

// Global flags.
var (
	configDir string
	verbose   bool
	envFile   string
)

// Services shared by every command. Tests assign these directly; wiring
// only fills what is still nil.
var (
	settingsService  driving.SettingsService
	knowledgeService driving.KnowledgeService
	chatService      driving.ChatService
	retrievalService driving.RetrievalService

	// knowledgeSource is set when the knowledge base comes from files.
	knowledgeSource *corpus.FileSource

	// generation holds the provider client so it can be closed on exit.
	generation *ai.InitResult
)

var rootCmd = &cobra.Command{
	Use:   "sportscom",
	Short: "Sports committee chatbot",
	Long: `SportsCom answers questions about the college sports committee
(Agility Cup, Spoorthi and the rest of the calendar) from a plain text
knowledge base, using a hosted or local language model for phrasing.

Run 'sportscom serve' for the HTTP API, 'sportscom chat' for a terminal
conversation, or 'sportscom tui' for the full-screen interface.`,
	SilenceUsage:       true,
	PersistentPreRunE:  wire,
	PersistentPostRunE: release,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default ~/"+file.DefaultDirName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading settings")
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// needsKnowledge marks a command as requiring the loaded knowledge base.
func needsKnowledge(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationKnowledge] = "true"
}

func wire(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationNoWiring] != "" {
		return nil
	}

	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	if settingsService == nil {
		svc, err := newSettingsService(configDir)
		if err != nil {
			return err
		}
		settingsService = svc
	}

	if cmd.Annotations[annotationKnowledge] == "" || chatService != nil {
		return nil
	}
	return wireKnowledge(cmd.Context())
}

func release(_ *cobra.Command, _ []string) error {
	if generation != nil {
		generation.Close()
		generation = nil
	}
	return nil
}

// loadEnvFile applies a dotenv file without overriding variables already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("Loaded environment from %s", path)
	return nil
}

func resolveConfigDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return file.DefaultDir()
}

func newSettingsService(dir string) (*services.SettingsService, error) {
	dir, err := resolveConfigDir(dir)
	if err != nil {
		return nil, fmt.Errorf("config directory: %w", err)
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

// wireKnowledge loads the knowledge base and builds the chat and retrieval
// services from the resolved settings.
func wireKnowledge(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	tokenizer, err := analysis.NewTokenizer(analysis.Options{
		StopWords:      settings.Retrieval.StopWords,
		ExtraStopWords: settings.Retrieval.ExtraStopWords,
	})
	if err != nil {
		return fmt.Errorf("build tokenizer: %w", err)
	}
	detector := services.NewEventDetector(settings.Retrieval.Events, tokenizer)

	knowledgeSource = corpus.NewFileSource(settings.Knowledge.Path, settings.Knowledge.SystemPromptPath)
	knowledge := services.NewKnowledgeService(knowledgeSource, tokenizer, services.KnowledgeOptions{
		Delimiter:     settings.Knowledge.Delimiter,
		MaxTerms:      settings.Knowledge.MaxTerms,
		Normalization: settings.Retrieval.Normalization,
		MinScore:      settings.Retrieval.MinScore,
		Detector:      detector,
	})
	if err := knowledge.Load(ctx); err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}
	if stats, err := knowledge.Stats(); err == nil {
		logger.Info("Knowledge base ready: %d chunks (%d indexed) from %s",
			stats.Chunks, stats.Indexed, stats.Source)
	}

	assembler := services.NewContextAssembler(settings.Retrieval.ContextBudget, detector)
	validator := services.NewResponseValidator(settings.Response, detector)

	dir, err := resolveConfigDir(configDir)
	if err != nil {
		return fmt.Errorf("config directory: %w", err)
	}
	promptStore, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	generation = ai.Init(ctx, &settings.Generation, true)
	for _, w := range generation.Warnings {
		logger.Warn("%s", w)
	}
	var generator driven.Generator
	if generation.LLMService != nil {
		generator = generation.LLMService
	}

	knowledgeService = knowledge
	chatService = services.NewChatService(knowledge, generator, assembler, validator,
		services.NewPromptBuilder(promptStore), services.ChatOptions{
			TopK:       settings.Retrieval.TopK,
			Generation: settings.Generation,
		})
	retrievalService = services.NewRetrievalService(knowledge, assembler, settings.Retrieval.TopK)
	return nil
}
