package weathercache

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/solarcook/internal/domain/weather"
)

type entry struct {
	report    weather.Report
	expiresAt time.Time
}

// MemoryStore is an in-memory report cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements weather.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (weather.Report, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return weather.Report{}, false, nil
	}
	if !e.expiresAt.IsZero() && e.expiresAt.Before(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return weather.Report{}, false, nil
	}
	return cloneReport(e.report), true, nil
}

// Set stores the report with optional TTL. Expired entries under other keys
// are swept on every write.
func (s *MemoryStore) Set(_ context.Context, key string, report weather.Report, ttl time.Duration) error {
	now := s.now()
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.mu.Lock()
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && e.expiresAt.Before(now) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = entry{report: cloneReport(report), expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func cloneReport(r weather.Report) weather.Report {
	series := make(weather.IrradianceSeries, len(r.SolarRadiation))
	for k, v := range r.SolarRadiation {
		series[k] = v
	}
	return weather.Report{Location: r.Location, SolarRadiation: series}
}

var _ weather.Cache = (*MemoryStore)(nil)
