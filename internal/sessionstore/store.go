// Package sessionstore provides the key-value mechanism that remembers
// which demo identity is logged in across restarts. The production backend
// is badger; tests use the in-memory implementation.
package sessionstore

import (
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(key string) (string, error)

	// Set stores value under key.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases store resources.
	Close() error
}

// memoryStore is a process-local Store for tests and ephemeral runs.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an in-memory Store.
func NewMemory() Store {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (s *memoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
