package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const sessionSchemaVersion = "1"

// sessionFile is the on-disk layout of a session store.
type sessionFile struct {
	Version   string            `json:"version"`
	SessionID string            `json:"sessionId"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Values    map[string]string `json:"values"`
}

// SessionStore scopes values to one terminal session. Only one process may
// hold a session at a time: the store takes an exclusive lock on open and
// keeps it until Close.
type SessionStore struct {
	sessionID string
	logger    *slog.Logger

	mu       sync.Mutex
	lockFile *os.File
}

// SessionStoreOption configures OpenSessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionLogger sets the logger for repairs of the session file.
// The default is slog.Default.
func WithSessionLogger(logger *slog.Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// OpenSessionStore opens the store for sessionID. It returns an error
// wrapping ErrWouldBlock if another process holds the session.
func OpenSessionStore(sessionID string, opts ...SessionStoreOption) (*SessionStore, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}
	if err := validateKey(sessionID); err != nil {
		return nil, fmt.Errorf("invalid session id: %w", err)
	}

	sessionDir, err := SessionDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get session directory: %w", err)
	}
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	lockPath, err := SessionLockFilePath(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lock file path: %w", err)
	}
	lockFile, err := acquireFileLock(lockPath)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}

	s := &SessionStore{sessionID: sessionID, logger: slog.Default(), lockFile: lockFile}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SessionStore) Name() string { return "session:" + s.sessionID }

// SessionID returns the session this store is bound to.
func (s *SessionStore) SessionID() string { return s.sessionID }

func (s *SessionStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockFile == nil {
		return nil, fmt.Errorf("session store %q is closed", s.sessionID)
	}
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}
	v, ok := f.Values[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

func (s *SessionStore) Set(key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockFile == nil {
		return fmt.Errorf("session store %q is closed", s.sessionID)
	}

	f, err := s.read()
	if err != nil {
		// The file is ours; an unreadable one is replaced rather than kept.
		s.logger.Warn("discarding unreadable session file", "session", s.sessionID, "error", err)
		f = nil
	}
	if f == nil {
		f = &sessionFile{Values: make(map[string]string)}
	}
	f.Version = sessionSchemaVersion
	f.SessionID = s.sessionID
	f.UpdatedAt = time.Now()
	f.Values[key] = string(value)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	path, err := SessionFilePath(s.sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session file path: %w", err)
	}
	if err := AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Close releases the session lock. Closing twice is a no-op.
func (s *SessionStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lockFile == nil {
		return nil
	}
	if err := releaseFileLock(s.lockFile); err != nil {
		return fmt.Errorf("failed to release session lock: %w", err)
	}
	s.lockFile = nil
	return nil
}

// read returns (nil, nil) if the session has never been written.
func (s *SessionStore) read() (*sessionFile, error) {
	path, err := SessionFilePath(s.sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session file path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: session file %s: %v", ErrMalformed, path, err)
	}
	if f.Values == nil {
		f.Values = make(map[string]string)
	}
	return &f, nil
}

var _ Store = (*SessionStore)(nil)
