package store

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

var _ fiber.Storage = (*MemoryStore)(nil)

type entry struct {
	data      []byte
	expiresAt time.Time // zero = never
}

// defaultSweepEvery is how many writes pass between expiry sweeps.
const defaultSweepEvery = 64

// MemoryStore is a concurrency-safe in-memory fiber.Storage for session data.
// Reads hide expired entries; the map itself is pruned once every sweepEvery
// writes, so a single Set stays O(1) amortized.
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string]entry
	now        func() time.Time
	writes     int
	sweepEvery int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]entry),
		now:        time.Now,
		sweepEvery: defaultSweepEvery,
	}
}

// Get returns the stored value, or nil when the key is missing or expired.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || e.expired(s.now()) {
		return nil, nil
	}
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, nil
}

// Set stores val under key. exp <= 0 keeps the value until it is deleted.
func (s *MemoryStore) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	now := s.now()
	e := entry{data: make([]byte, len(val))}
	copy(e.data, val)
	if exp > 0 {
		e.expiresAt = now.Add(exp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = e

	s.writes++
	if s.sweepEvery <= 1 || s.writes%s.sweepEvery == 0 {
		s.sweepLocked(now)
	}
	return nil
}

// sweepLocked drops expired entries. Callers hold mu.
func (s *MemoryStore) sweepLocked(now time.Time) {
	for k, v := range s.data {
		if v.expired(now) {
			delete(s.data, k)
		}
	}
}

// Delete removes key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Reset removes every key.
func (s *MemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]entry)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	now := s.now()
	for _, e := range s.data {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
