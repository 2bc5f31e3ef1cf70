package storage

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend keeps one file per key inside a directory.
type FileBackend struct {
	mu       sync.Mutex
	basePath string
	quota    int64
}

// NewFileBackend creates a FileBackend and ensures the base directory exists.
func NewFileBackend(basePath string, quota int64) (*FileBackend, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileBackend{basePath: basePath, quota: quota}, nil
}

// keyPath makes the key safe for filenames.
func (b *FileBackend) keyPath(key string) string {
	return filepath.Join(b.basePath, url.PathEscape(key)+".json")
}

// Get reads the file stored for key.
func (b *FileBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := os.ReadFile(b.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the file for key, refusing writes that break the quota.
func (b *FileBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := b.keyPath(key)
	used, err := b.usedBytes()
	if err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		used -= info.Size()
	}
	if b.quota > 0 && used+int64(len(value)) > b.quota {
		return fmt.Errorf("%w: %s needs %d bytes, %d of %d in use", ErrQuotaExceeded, key, len(value), used, b.quota)
	}

	tmp, err := os.CreateTemp(b.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Remove deletes the file for key, if any.
func (b *FileBackend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.Remove(b.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) usedBytes() (int64, error) {
	entries, err := os.ReadDir(b.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", b.basePath, err)
	}

	var total int64
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}
