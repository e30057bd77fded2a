package ratelimit

import (
	"sync"
	"time"
)

// Entry is the state of one fixed window.
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Store persists window entries. Implementations must be safe for
// concurrent use. A shared store reached over the network only gets
// get/set semantics here, so concurrent processes may overshoot the limit
// by the number of racing requests.
type Store interface {
	// Get returns the entry for key, if any.
	Get(key string) (Entry, bool)

	// Set stores the entry for key.
	Set(key string, entry Entry)

	// Sweep removes entries whose window ended before now and returns how
	// many were removed.
	Sweep(now time.Time) int
}

// memoryStore is a process-local Store.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]Entry)}
}

func (s *memoryStore) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *memoryStore) Set(key string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

func (s *memoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if e.ResetAt.Before(now) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}
