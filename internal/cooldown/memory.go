package cooldown

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process cooldown store. It backs single-instance
// deployments and tests; multi-instance deployments use the Redis store.
type MemoryStore struct {
	mu      sync.Mutex
	claims  map[string]time.Time // key -> window expiry
	cleanup *time.Ticker
	done    chan struct{}
}

// NewMemoryStore creates an in-memory cooldown store and starts its
// background cleanup of expired claims.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		claims:  make(map[string]time.Time),
		cleanup: time.NewTicker(1 * time.Minute),
		done:    make(chan struct{}),
	}
	go s.cleanupRoutine()
	return s
}

// Attempt claims the window for key if it is not already claimed
func (s *MemoryStore) Attempt(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if expiry, ok := s.claims[key]; ok && expiry.After(now) {
		return false, expiry.Sub(now), nil
	}

	s.claims[key] = now.Add(window)
	return true, 0, nil
}

// cleanupRoutine drops expired claims so the map does not grow unbounded
func (s *MemoryStore) cleanupRoutine() {
	for {
		select {
		case <-s.done:
			return
		case <-s.cleanup.C:
			now := time.Now()
			s.mu.Lock()
			for key, expiry := range s.claims {
				if expiry.Before(now) {
					delete(s.claims, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Stop halts the cleanup goroutine
func (s *MemoryStore) Stop() {
	s.cleanup.Stop()
	close(s.done)
}
