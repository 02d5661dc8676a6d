package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore provides process-local fixed-window rate limiting.
// Records are overwritten lazily when their window expires; there is no
// background eviction, which is acceptable for a low-cardinality key space
// such as IP addresses at modest traffic.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*record
	window  time.Duration
	max     int
	now     func() time.Time
}

type record struct {
	count   int
	resetAt time.Time
}

// NewMemoryStore creates an in-memory store admitting max submissions per
// identity per window.
func NewMemoryStore(window time.Duration, max int) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*record),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Admit performs the check-and-increment under a single lock so that two
// concurrent submissions from the same identity cannot both slip past the
// limit or corrupt the counter.
func (s *MemoryStore) Admit(_ context.Context, identity string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[identity]
	if !ok || now.After(rec.resetAt) {
		s.records[identity] = &record{count: 1, resetAt: now.Add(s.window)}
		return true, nil
	}

	if rec.count >= s.max {
		// The counter is not incremented on denial.
		return false, nil
	}

	rec.count++
	return true, nil
}
