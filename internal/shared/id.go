package shared

import (
	"sync"
	"time"
)

// IDSource issues time-derived identifiers. Every id is strictly greater
// than the previous one, even when the clock stalls or moves backwards.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDSource creates an IDSource reading the given clock.
// A nil clock uses time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns the next identifier, in Unix milliseconds when possible.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

var defaultIDs = NewIDSource(nil)

// NextID returns the next identifier from the process-wide source.
func NextID() int64 {
	return defaultIDs.Next()
}
