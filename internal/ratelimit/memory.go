package ratelimit

import (
	"context"
	"sync"
	"time"
)

const maxEntries = 10000

type window struct {
	count       int
	windowStart time.Time
	windowDur   time.Duration
}

// MemoryStore is a process-wide fixed-window counter map. Windows are
// created lazily, reset at the window boundary, and are never
// persisted; counts are lost on restart by design.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, limit int, windowDur time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	w, exists := s.windows[key]

	if !exists {
		if len(s.windows) >= maxEntries {
			if s.evictExpiredLocked(now) == 0 {
				// Nothing has expired; drop the oldest window so new
				// keys are still tracked rather than left uncounted.
				s.evictOldestLocked()
			}
		}
		s.windows[key] = &window{
			count:       1,
			windowStart: now,
			windowDur:   windowDur,
		}
		return limit >= 1
	}

	if now.Sub(w.windowStart) >= w.windowDur {
		w.count = 1
		w.windowStart = now
		w.windowDur = windowDur
		return limit >= 1
	}

	if w.count >= limit {
		return false
	}

	w.count++
	return true
}

// Sweep removes windows that have elapsed. Called periodically by the
// background sweeper so idle keys do not accumulate.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictExpiredLocked(time.Now())
}

// Len reports the number of live windows.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

func (s *MemoryStore) evictOldestLocked() {
	var oldestKey string
	var oldestStart time.Time
	for key, w := range s.windows {
		if oldestKey == "" || w.windowStart.Before(oldestStart) {
			oldestKey = key
			oldestStart = w.windowStart
		}
	}
	if oldestKey != "" {
		delete(s.windows, oldestKey)
	}
}

func (s *MemoryStore) evictExpiredLocked(now time.Time) int {
	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.windowStart) >= w.windowDur {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}
