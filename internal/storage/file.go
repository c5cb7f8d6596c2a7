package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one <key>.json file per key in a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the value stored under key. A file that does not hold valid JSON
// is moved aside to <key>.json.corrupt and reported as ErrCorrupt.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	path := s.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	if !json.Valid(data) {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return nil, fmt.Errorf("%s (backed up to %s): %w", path, backupPath, ErrCorrupt)
	}
	return data, nil
}

// Set atomically replaces the value stored under key.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	path := s.path(key)

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
