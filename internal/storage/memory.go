package storage

import (
	"fmt"
	"sync"
)

// Compile-time interface checks.
var (
	_ Backend = (*MemoryBackend)(nil)
	_ Backend = (*FileBackend)(nil)
)

// MemoryBackend is an in-memory Backend. Safe for concurrent access.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int64

	// FailWrites makes every Set fail, emulating a disabled medium.
	FailWrites bool
}

// NewMemoryBackend creates an empty backend. A quota <= 0 means unlimited.
func NewMemoryBackend(quota int64) *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string), quota: quota}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites {
		return fmt.Errorf("storage disabled")
	}

	var used int64
	for k, v := range m.values {
		if k != key {
			used += int64(len(v))
		}
	}
	if m.quota > 0 && used+int64(len(value)) > m.quota {
		return fmt.Errorf("%w: %s needs %d bytes", ErrQuotaExceeded, key, len(value))
	}
	m.values[key] = value
	return nil
}

func (m *MemoryBackend) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
