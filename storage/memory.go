package storage

import (
	"context"
	"sync"
)

var _ Storage = (*Memory)(nil)

// Memory keeps values in process memory. Values do not survive a restart.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}
