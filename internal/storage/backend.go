// Package storage provides the key-value stores that back the persisted cart:
// a user-wide durable store (files or SQLite), a per-terminal-session store,
// and a process-wide in-memory store.
package storage

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks operations on a store that could not be opened.
var ErrUnavailable = errors.New("store unavailable")

// ErrMalformed marks a read from a store whose own container could not be
// decoded, as opposed to a value that decodes to something other than a cart.
var ErrMalformed = errors.New("malformed store data")

// Store is a small key-value store holding opaque values.
type Store interface {
	// Name identifies the store in reports and logs.
	Name() string

	// Get returns the value stored under key.
	// It MUST return (nil, nil) if the key does not exist.
	Get(key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(key string, value []byte) error

	// Close releases any resources held by the store, such as file locks.
	Close() error
}

// Unavailable returns a Store whose every read and write fails with an
// error wrapping both ErrUnavailable and cause. It stands in for a store
// that could not be opened, so callers can keep a fixed set of stores.
func Unavailable(name string, cause error) Store {
	return &unavailableStore{name: name, cause: cause}
}

type unavailableStore struct {
	name  string
	cause error
}

func (s *unavailableStore) Name() string { return s.name }

func (s *unavailableStore) Get(string) ([]byte, error) { return nil, s.err() }

func (s *unavailableStore) Set(string, []byte) error { return s.err() }

func (s *unavailableStore) Close() error { return nil }

func (s *unavailableStore) err() error {
	if s.cause == nil {
		return fmt.Errorf("%s: %w", s.name, ErrUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", s.name, ErrUnavailable, s.cause)
}

// validateKey rejects keys that would not be safe as a file name.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	for _, r := range key {
		if !isFilenameSafe(r) {
			return fmt.Errorf("key %q contains unsupported character %q", key, r)
		}
	}
	return nil
}

func isFilenameSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '.' ||
		r == '-' ||
		r == '_'
}
