package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()

	require.NoError(t, s.Set("sid", []byte("payload"), 0))

	got, err := s.Get("sid")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), got)

	got, err = s.Get("missing")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	val := []byte("abc")
	require.NoError(t, s.Set("k", val, 0))
	val[0] = 'x'

	got, _ := s.Get("k")
	require.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _ := s.Get("k")
	require.Equal(t, []byte("abc"), again)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	s.sweepEvery = 1
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set("short", []byte("1"), time.Minute))
	require.NoError(t, s.Set("long", []byte("2"), time.Hour))
	require.Equal(t, 2, s.Len())

	now = now.Add(2 * time.Minute)
	got, err := s.Get("short")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 1, s.Len())

	// A write prunes expired entries.
	require.NoError(t, s.Set("other", []byte("3"), 0))
	s.mu.RLock()
	_, stillThere := s.data["short"]
	s.mu.RUnlock()
	require.False(t, stillThere)
}

func TestMemoryStoreSweepsPeriodically(t *testing.T) {
	s := NewMemoryStore()
	s.sweepEvery = 4
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set("short", []byte("1"), time.Minute))
	now = now.Add(2 * time.Minute)

	// Writes two and three leave the expired entry in place but hidden.
	require.NoError(t, s.Set("a", []byte("2"), 0))
	require.NoError(t, s.Set("b", []byte("3"), 0))
	s.mu.RLock()
	_, present := s.data["short"]
	s.mu.RUnlock()
	require.True(t, present)
	got, err := s.Get("short")
	require.NoError(t, err)
	require.Nil(t, got)
	require.Equal(t, 2, s.Len())

	// The fourth write sweeps.
	require.NoError(t, s.Set("c", []byte("4"), 0))
	s.mu.RLock()
	_, present = s.data["short"]
	size := len(s.data)
	s.mu.RUnlock()
	require.False(t, present)
	require.Equal(t, 3, size)
}

func TestMemoryStoreDeleteReset(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))

	require.NoError(t, s.Delete("a"))
	got, _ := s.Get("a")
	require.Nil(t, got)

	require.NoError(t, s.Reset())
	require.Zero(t, s.Len())
	require.NoError(t, s.Close())
}

func TestMemoryStoreIgnoresEmptyKeyOrValue(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("", []byte("1"), 0))
	require.NoError(t, s.Set("k", nil, 0))
	require.Zero(t, s.Len())
}
