// Package storage provides the string key-value store that account data is
// persisted in. It mirrors the browser local-storage contract: values are opaque
// strings, writes replace the whole value, and a missing key is not an error.
package storage

import (
	"errors"
	"sync"
)

var ErrNoDatabase = errors.New("storage database is not initialized")

type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Memory is an in-process Storage, used by tests and by callers without a
// database.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	return value, ok, nil
}

func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
