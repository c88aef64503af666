package shop

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// TabNamespace is the in-memory namespace that plays the part of the
// per-window store.
const TabNamespace = "tab"

// StoreOptions selects the stores a shop persists its cart to.
type StoreOptions struct {
	// LocalBackend names a storage.BackendRegistry entry. Empty means "fs".
	LocalBackend string
	// SessionID scopes the session store. Empty disables it.
	SessionID string
}

// Stores is the ordered set of cart stores: user-wide, session, then tab.
type Stores struct {
	local   *storage.WriteTracker
	session storage.Store
	tab     storage.Store
}

// OpenStores opens all three stores. A store that cannot be opened is
// replaced by storage.Unavailable, so the result is always complete.
func OpenStores(opts StoreOptions, logger *slog.Logger) *Stores {
	if logger == nil {
		logger = slog.Default()
	}
	backend := opts.LocalBackend
	if backend == "" {
		backend = "fs"
	}

	s := &Stores{}

	if local, err := storage.OpenLocal(backend); err != nil {
		logger.Debug("local cart store unavailable", "backend", backend, "error", err)
		s.local = storage.TrackWrites(storage.Unavailable("local:"+backend, err))
	} else {
		s.local = storage.TrackWrites(local)
	}

	if opts.SessionID == "" {
		s.session = storage.Unavailable("session", errors.New("no session id"))
	} else if session, err := storage.OpenSessionStore(opts.SessionID, storage.WithSessionLogger(logger)); err != nil {
		logger.Debug("session cart store unavailable", "session", opts.SessionID, "error", err)
		s.session = storage.Unavailable("session:"+opts.SessionID, err)
	} else {
		s.session = session
	}

	if tab, err := storage.NewMemoryStore(TabNamespace); err != nil {
		s.tab = storage.Unavailable("memory:"+TabNamespace, err)
	} else {
		s.tab = tab
	}
	return s
}

// List returns the stores in priority order.
func (s *Stores) List() []storage.Store {
	return []storage.Store{s.local, s.session, s.tab}
}

// Local returns the user-wide store, the one other processes write to.
func (s *Stores) Local() *storage.WriteTracker { return s.local }

// Close closes every store, releasing the session lock.
func (s *Stores) Close() error {
	var errs []error
	for _, st := range s.List() {
		if err := st.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", st.Name(), err))
		}
	}
	return errors.Join(errs...)
}
