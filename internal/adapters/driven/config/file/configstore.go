package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sportscom/internal/adapters/driven/config/values"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// DefaultDirName is the config directory under the user's home.
const DefaultDirName = ".sportscom"

const configFileName = "config.toml"

// ConfigStore keeps settings in config.toml. In memory every value sits under
// its dot key ("generation.model"); on disk the keys become nested tables.
type ConfigStore struct {
	values.Getters

	mu   sync.RWMutex
	path string
	flat map[string]any
}

// DefaultDir returns ~/.sportscom.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// NewConfigStore opens dir/config.toml, creating dir if needed. An empty dir
// means DefaultDir. A missing file is an empty store.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path: filepath.Join(dir, configFileName),
		flat: map[string]any{},
	}
	s.Getters = values.NewGetters(s.Get)

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flat[key]
	return v, ok
}

// Set stores value and writes the file straight away.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flat[key] = value
	return s.writeLocked()
}

func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked()
}

// writeLocked needs s.mu held. The file may contain an API key, hence 0600.
func (s *ConfigStore) writeLocked() error {
	data, err := toml.Marshal(nest(s.flat))
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Load replaces the in-memory values with the file contents.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		data, err = nil, nil
	}
	if err != nil {
		return err
	}

	tree := map[string]any{}
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}

	flat := map[string]any{}
	flatten(tree, "", flat)

	s.mu.Lock()
	s.flat = flat
	s.mu.Unlock()
	return nil
}

func (s *ConfigStore) Path() string { return s.path }

// Keys lists stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.flat)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// flatten writes every leaf of tree into out under its dotted path.
func flatten(tree map[string]any, prefix string, out map[string]any) {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(sub, k, out)
			continue
		}
		out[k] = v
	}
}

// nest rebuilds TOML tables from dotted keys. When a key is both a value and
// a table prefix, the value is kept at the top level under its full key.
func nest(flat map[string]any) map[string]any {
	root := map[string]any{}
	for _, key := range sortedKeys(flat) {
		path := strings.Split(key, ".")
		table, ok := tableFor(root, path[:len(path)-1])
		if !ok {
			root[key] = flat[key]
			continue
		}
		table[path[len(path)-1]] = flat[key]
	}
	return root
}

// tableFor walks path from root, creating tables on the way. It fails when a
// segment already holds a plain value.
func tableFor(root map[string]any, path []string) (map[string]any, bool) {
	table := root
	for _, seg := range path {
		next, exists := table[seg]
		if !exists {
			child := map[string]any{}
			table[seg] = child
			table = child
			continue
		}
		child, isTable := next.(map[string]any)
		if !isTable {
			return nil, false
		}
		table = child
	}
	return table, true
}
