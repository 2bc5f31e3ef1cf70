package shared

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSource(t *testing.T) {
	t.Run("UsesClockMillis", func(t *testing.T) {
		fixed := time.UnixMilli(1_700_000_000_000)
		src := NewIDSource(func() time.Time { return fixed })

		assert.Equal(t, int64(1_700_000_000_000), src.Next())
	})

	t.Run("StrictlyIncreasingOnStalledClock", func(t *testing.T) {
		fixed := time.UnixMilli(42)
		src := NewIDSource(func() time.Time { return fixed })

		first := src.Next()
		second := src.Next()
		third := src.Next()
		assert.Less(t, first, second)
		assert.Less(t, second, third)
	})

	t.Run("ClockGoingBackwards", func(t *testing.T) {
		ts := time.UnixMilli(1000)
		src := NewIDSource(func() time.Time { return ts })

		first := src.Next()
		ts = time.UnixMilli(500)
		assert.Greater(t, src.Next(), first)
	})

	t.Run("ConcurrentCallersGetUniqueIDs", func(t *testing.T) {
		src := NewIDSource(nil)
		const n = 200

		var mu sync.Mutex
		seen := make(map[int64]struct{}, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := src.Next()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()

		require.Len(t, seen, n)
	})
}
