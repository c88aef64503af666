package storage

import (
	"fmt"
	"sort"
)

// BackendFactory creates the user-wide store.
type BackendFactory func() (Store, error)

// BackendRegistry maps backend names to their factory functions.
var BackendRegistry = make(map[string]BackendFactory)

// LocalNamespace is the memory namespace used when the memory backend
// stands in for the user-wide store.
const LocalNamespace = "local"

func init() {
	// Register the file system backend as the default
	BackendRegistry["fs"] = func() (Store, error) {
		return NewFileSystemStore()
	}

	BackendRegistry["sqlite"] = func() (Store, error) {
		return NewSQLiteStore()
	}

	// Register an in-memory backend for testing
	BackendRegistry["memory"] = func() (Store, error) {
		return NewMemoryStore(LocalNamespace)
	}
}

// OpenLocal creates the user-wide store using the named backend.
func OpenLocal(name string) (Store, error) {
	factory, ok := BackendRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend: %s", name)
	}
	return factory()
}

// BackendNames returns the registered backend names, sorted.
func BackendNames() []string {
	names := make([]string, 0, len(BackendRegistry))
	for name := range BackendRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
