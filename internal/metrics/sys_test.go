package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), make([]byte, 300), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), make([]byte, 200), 0644))

	h := GetSysHealth(dir, 1000, filepath.Join(dir, "missing.db"))
	assert.Equal(t, int64(500), h.StoreBytes)
	assert.Equal(t, int64(0), h.DatabaseBytes)
	assert.InDelta(t, 50.0, h.QuotaUsedPercent(), 0.001)
	assert.Positive(t, h.Goroutines)
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", HumanBytes(512))
	assert.Equal(t, "1.5 KiB", HumanBytes(1536))
	assert.Equal(t, "5.0 MiB", HumanBytes(5*1024*1024))
}
