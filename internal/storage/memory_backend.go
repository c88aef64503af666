package storage

import (
	"fmt"
	"sync"
)

// Global in-memory storage shared by every MemoryStore in the process,
// keyed by namespace and then by key.
var globalMemoryStore = struct {
	sync.RWMutex
	spaces map[string]map[string][]byte
}{
	spaces: make(map[string]map[string][]byte),
}

// MemoryStore lives as long as the process does. Stores created with the
// same namespace see the same data. Values are copied on the way in and out.
type MemoryStore struct {
	namespace string
}

// NewMemoryStore returns a store over the given namespace.
func NewMemoryStore(namespace string) (*MemoryStore, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}
	return &MemoryStore{namespace: namespace}, nil
}

func (s *MemoryStore) Name() string { return "memory:" + s.namespace }

func (s *MemoryStore) Get(key string) ([]byte, error) {
	globalMemoryStore.RLock()
	defer globalMemoryStore.RUnlock()
	v, ok := globalMemoryStore.spaces[s.namespace][key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	globalMemoryStore.Lock()
	defer globalMemoryStore.Unlock()
	space := globalMemoryStore.spaces[s.namespace]
	if space == nil {
		space = make(map[string][]byte)
		globalMemoryStore.spaces[s.namespace] = space
	}
	space[key] = append([]byte{}, value...)
	return nil
}

// Close is a no-op; data outlives the store.
func (s *MemoryStore) Close() error { return nil }

// ClearAllMemory drops every in-memory namespace (for testing).
func ClearAllMemory() {
	globalMemoryStore.Lock()
	globalMemoryStore.spaces = make(map[string]map[string][]byte)
	globalMemoryStore.Unlock()
}

var _ Store = (*MemoryStore)(nil)
