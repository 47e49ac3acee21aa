package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shuldan/chassis/pkg/contracts"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	closed  bool
}

var _ contracts.Store = (*memoryStore)(nil)

// NewMemoryStore returns a process-local store with lazy expiry: entries
// past their ttl are dropped on the next access.
func NewMemoryStore() contracts.Store {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}
	entry, ok := s.entries[key]
	if !ok {
		return "", ErrCacheMiss.WithDetail("key", key)
	}
	if entry.expired(time.Now()) {
		delete(s.entries, key)
		return "", ErrCacheMiss.WithDetail("key", key)
	}
	return entry.value, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	delete(s.entries, key)
	return nil
}

func (s *memoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.closed = true
	return nil
}
