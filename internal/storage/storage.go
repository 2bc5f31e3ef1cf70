package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrQuotaExceeded is returned when a write would grow the store past its quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is a synchronous string key/value medium with a size quota.
// Get reports ok=false for a missing key; errors mean the medium itself failed.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Store persists small JSON-serializable records under stable keys.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// NewStore creates a Store on top of the given backend.
func NewStore(backend Backend, log *zap.Logger) *Store {
	return &Store{backend: backend, log: log}
}

// Save serializes value and writes it under key, replacing any prior value.
func (s *Store) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.backend.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// SaveRaw writes text under key as-is.
func (s *Store) SaveRaw(key, text string) error {
	if err := s.backend.Set(key, text); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// LoadRaw returns the text stored under key.
func (s *Store) LoadRaw(key string) (string, bool) {
	text, ok, err := s.backend.Get(key)
	if err != nil {
		s.log.Warn("failed to read key", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return text, ok
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if err := s.backend.Remove(key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Load returns the value stored under key, or def when the key is missing,
// unreadable or holds text that does not parse.
func Load[T any](s *Store, key string, def T) T {
	text, ok := s.LoadRaw(key)
	if !ok {
		return def
	}

	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		s.log.Warn("discarding unparsable record", zap.String("key", key), zap.Error(err))
		return def
	}
	return value
}
