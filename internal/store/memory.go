package store

import (
	"sync"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// MemoryStore is a concurrency-safe in-memory cell holding the latest digest snapshot.
type MemoryStore struct {
	mu sync.RWMutex

	// nil until the first successful fetch
	latest *digest.Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save replaces the cached snapshot wholesale.
func (s *MemoryStore) Save(snapshot digest.Snapshot) {
	snap := snapshot

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &snap
}

// Latest returns the most recent snapshot, or false if nothing has been saved yet.
func (s *MemoryStore) Latest() (digest.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return digest.Snapshot{}, false
	}
	return *s.latest, true
}
