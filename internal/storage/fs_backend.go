package storage

import (
	"fmt"
	"os"
)

// FileSystemStore keeps one file per key under the local directory.
// It is the default user-wide store and may be shared by any number of
// processes; writes are atomic renames, so readers never see partial data.
type FileSystemStore struct{}

// NewFileSystemStore creates the local directory if needed and returns a
// store over it.
func NewFileSystemStore() (*FileSystemStore, error) {
	dir, err := LocalDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get local directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local directory: %w", err)
	}
	return &FileSystemStore{}, nil
}

func (s *FileSystemStore) Name() string { return "local:fs" }

// Get returns (nil, nil) if no file exists for key.
func (s *FileSystemStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (s *FileSystemStore) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := AtomicWriteFile(path, value, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *FileSystemStore) Close() error { return nil }

func (s *FileSystemStore) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return LocalFilePath(key)
}

var _ Store = (*FileSystemStore)(nil)
