// Package memory holds in-memory driven adapters for tests and runs that
// should not touch the user's config directory.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/sportscom/internal/adapters/driven/config/values"
	"github.com/custodia-labs/sportscom/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Save and Load do nothing.
type ConfigStore struct {
	values.Getters

	mu sync.RWMutex
	kv map[string]any
}

func NewConfigStore() *ConfigStore {
	return NewConfigStoreFrom(nil)
}

// NewConfigStoreFrom seeds the store with a copy of initial.
func NewConfigStoreFrom(initial map[string]any) *ConfigStore {
	s := &ConfigStore{kv: make(map[string]any, len(initial))}
	maps.Copy(s.kv, initial)
	s.Getters = values.NewGetters(s.Get)
	return s
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.kv[key]
	return v, ok
}

func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.kv[key] = value
	s.mu.Unlock()
	return nil
}

// Keys lists stored keys in sorted order.
func (s *ConfigStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.kv))
}

func (s *ConfigStore) Save() error { return nil }

func (s *ConfigStore) Load() error { return nil }

func (s *ConfigStore) Path() string { return ":memory:" }
