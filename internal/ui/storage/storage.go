// Package storage is the single key-value store the UI persists into.
package storage

import (
	"errors"
	"sync"
)

// ErrUnavailable reports that the backing store cannot be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// Store reads and writes string values by key.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(key, value string) error
}

// Memory is a Store held in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete implements Deleter.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Unavailable is a Store whose every operation fails, as when the browser
// blocks localStorage.
type Unavailable struct{}

// Get implements Store.
func (Unavailable) Get(string) (string, bool, error) {
	return "", false, ErrUnavailable
}

// Set implements Store.
func (Unavailable) Set(string, string) error {
	return ErrUnavailable
}
