// Package credstore provides durable key/value slots for session credentials.
package credstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credential keys persisted by the session manager.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyRole     = "role"
)

// Store is the interface that wraps the durable credential slots.
//
// There is no atomicity guarantee across keys; callers that need a coherent
// credential set must write or clear all keys together.
type Store interface {
	// Method Get retrieves the value stored under key.
	//
	// The second return value reports whether the key was present; an absent
	// key is not an error.
	Get(key string) (string, bool, error)
	// Method Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Method Remove deletes the value stored under key.
	//
	// Removing an absent key is a no-op, not an error.
	Remove(key string) error
}

// fileStore implements Store on top of a single JSON file. Each call reads or
// rewrites the whole file; the payload is three short strings, so there is no
// point in anything cleverer.
type fileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path. The parent directory is
// created on the first write.
func NewFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

// Get retrieves the value stored under key
func (s *fileStore) Get(key string) (string, bool, error) {
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set stores value under key
func (s *fileStore) Set(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Remove deletes the value stored under key
func (s *fileStore) Remove(key string) error {
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// load reads the credential file; a missing file yields an empty map
func (s *fileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return values, nil
}

// save rewrites the credential file with owner-only permissions
func (s *fileStore) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}
