package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts_readme.md
var promptsReadme []byte

// PromptStore reads templates from <dir>/<name>.txt. The directory is seeded
// with the built-in templates on first use, and any template that is blank
// or unreadable is replaced by its built-in version.
type PromptStore struct {
	dir string

	seed    sync.Once
	seedErr error

	mu    sync.Mutex
	cache map[string]string
}

// DefaultPrompt returns the built-in template for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := driven.DefaultPrompts[name]
	return p, ok
}

// NewPromptStore does not touch the disk. An empty dir means
// ~/.sportscom/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: map[string]string{}}, nil
}

func (s *PromptStore) Load(name string) (string, error) {
	s.seed.Do(func() { s.seedErr = s.writeDefaults() })

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.cache[name]; ok {
		return p, nil
	}

	var text string
	err := s.seedErr
	if err == nil {
		text, err = s.read(name)
	}
	if err != nil || text == "" {
		if builtin, ok := DefaultPrompt(name); ok {
			return builtin, nil
		}
		if err == nil {
			err = fs.ErrNotExist
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.cache[name] = text
	return text, nil
}

// Reload forgets cached templates so edited files are picked up.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

func (s *PromptStore) Dir() string { return s.dir }

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// writeDefaults creates the directory and any missing template or README.
// Existing files are left alone.
func (s *PromptStore) writeDefaults() error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	files := map[string][]byte{"README.md": promptsReadme}
	for name, text := range driven.DefaultPrompts {
		files[name+".txt"] = []byte(text)
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			return fmt.Errorf("seed %s: %w", file, err)
		}
	}
	return nil
}

func writeIfMissing(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
