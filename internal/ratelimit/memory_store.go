package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local counter store for single-instance
// deployments or tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	count   int
	expires time.Time
}

// NewMemoryStore creates an in-memory store. A background janitor evicts
// expired entries to prevent memory growth.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
	go s.cleanup()
	return s
}

// Get returns the counter for key, or zero when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.now().After(entry.expires) {
		return 0, nil
	}
	return entry.count, nil
}

// Set stores the counter with a fresh expiry.
func (s *MemoryStore) Set(_ context.Context, key string, count int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{count: count, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := s.now()
		for key, entry := range s.entries {
			if now.After(entry.expires) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}
