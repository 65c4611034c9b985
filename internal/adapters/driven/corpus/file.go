// Package corpus provides CorpusSource implementations: plain files on
// disk and fixed in-memory text.
package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sportscom/internal/core/domain"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

// Ensure FileSource implements the interface.
var _ driven.CorpusSource = (*FileSource)(nil)

// FileSource reads the knowledge text and system prompt from two files.
// Files are read on every call so a reload picks up edits.
type FileSource struct {
	knowledgePath string
	promptPath    string
}

// NewFileSource creates a file-backed source. A leading "~/" in either path
// is expanded to the user's home directory.
func NewFileSource(knowledgePath, promptPath string) *FileSource {
	return &FileSource{
		knowledgePath: expandHome(knowledgePath),
		promptPath:    expandHome(promptPath),
	}
}

// LoadKnowledge returns the raw knowledge text.
func (s *FileSource) LoadKnowledge(ctx context.Context) (string, error) {
	return readFile(ctx, "knowledge", s.knowledgePath)
}

// LoadSystemPrompt returns the persona text.
func (s *FileSource) LoadSystemPrompt(ctx context.Context) (string, error) {
	return readFile(ctx, "system prompt", s.promptPath)
}

// Describe names the knowledge file.
func (s *FileSource) Describe() string {
	return s.knowledgePath
}

// Paths returns the files this source reads, for watching.
func (s *FileSource) Paths() []string {
	return []string{s.knowledgePath, s.promptPath}
}

func readFile(ctx context.Context, what, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w: %s path not set", domain.ErrConfiguration, what)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s %s: %w", what, path, err)
	}
	return string(data), nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
