package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/i474232898/meteobeguda/internal/weather"
)

var (
	// ErrNotFound is returned when no readings match a query.
	ErrNotFound = errors.New("no weather readings found")
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Readings are kept sorted by timestamp and unique per instant.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []weather.Reading

	// retention configuration
	maxHistory int           // max number of readings kept
	maxAge     time.Duration // optional max age for readings

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveReadings merges readings into the store and enforces retention. A
// reading with the same instant as a stored one replaces it.
func (s *MemoryStore) SaveReadings(_ context.Context, readings []weather.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range readings {
		i, found := slices.BinarySearchFunc(s.readings, r.Timestamp, func(e weather.Reading, t time.Time) int {
			return e.Timestamp.Compare(t)
		})
		if found {
			s.readings[i] = r
			continue
		}
		s.readings = slices.Insert(s.readings, i, r)
	}

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.readings) > s.maxHistory {
		over := len(s.readings) - s.maxHistory
		s.readings = slices.Delete(s.readings, 0, over)
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.readings); i++ {
			if !s.readings[i].Timestamp.Before(cutoff) {
				break
			}
		}
		s.readings = slices.Delete(s.readings, 0, i)
	}
	return nil
}

// GetLatest returns the most recent reading.
func (s *MemoryStore) GetLatest(_ context.Context) (weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return weather.Reading{}, ErrNotFound
	}
	return s.readings[len(s.readings)-1], nil
}

// GetRange returns all readings between from and to (inclusive), oldest first.
func (s *MemoryStore) GetRange(_ context.Context, from, to time.Time) ([]weather.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Reading
	for _, r := range s.readings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len returns the number of readings held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}
