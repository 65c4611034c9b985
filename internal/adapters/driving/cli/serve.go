package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sportscom/internal/adapters/driving/watcher"
	"github.com/custodia-labs/sportscom/internal/adapters/driving/web"
	"github.com/custodia-labs/sportscom/internal/logger"
)

var (
	serveHost  string
	servePort  int
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat API",
	Long: `Serves the chat API:

  GET  /            liveness message
  GET  /health      status and whether the knowledge base is loaded
  POST /chat        {"message": "..."} -> {"response": "..."}
  POST /keep-alive  runs a probe question to keep the model warm
  GET  /api/search  ?q=...&k=... ranked knowledge chunks

Host and port default to server.host and server.port (or HOST and PORT).
With --watch the knowledge base is rebuilt when its files change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from settings)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from settings)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload the knowledge base when its files change")
	needsKnowledge(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	host := settings.Server.Host
	if cmd.Flags().Changed("host") {
		host = serveHost
	}
	port := settings.Server.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	server, err := web.NewServer(chatService, retrievalService, knowledgeService, web.Config{
		AllowedOrigins: settings.Server.AllowedOrigins,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveWatch {
		if err := startWatcher(ctx); err != nil {
			return err
		}
	}

	cmd.Printf("SportsCom API listening on http://%s\n", addr)
	return server.Run(ctx, addr)
}

// startWatcher reloads the knowledge base in the background until ctx ends.
func startWatcher(ctx context.Context) error {
	if knowledgeSource == nil || knowledgeService == nil {
		return errors.New("--watch needs a file-backed knowledge base")
	}
	w, err := watcher.New(knowledgeSource.Paths(), knowledgeService, watcher.Options{})
	if err != nil {
		return fmt.Errorf("watch knowledge files: %w", err)
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watcher stopped: %v", err)
		}
	}()
	return nil
}
