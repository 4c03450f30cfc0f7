package middleware

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// MemoryStore keeps fixed windows in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	length  time.Duration
	now     func() time.Time
}

func NewMemoryStore(length time.Duration) *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		length:  length,
		now:     time.Now,
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string) (int, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= s.length {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.start.Add(s.length), nil
}

// Sweep drops windows that have ended and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if now.Sub(w.start) >= s.length {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Run sweeps once per window until ctx is done.
func (s *MemoryStore) Run(ctx context.Context) {
	ticker := time.NewTicker(s.length)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
