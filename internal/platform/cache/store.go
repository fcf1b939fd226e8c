package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/resilience"
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.storedAt) > e.ttl
}

// Store is a process-wide TTL cache. Expiry is computed at read time from the
// entry's stored-at timestamp, so correctness never depends on the background
// sweep; the sweep only reclaims memory. Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	flight     resilience.SingleFlight

	sweepOnce sync.Once
	sweepDone chan struct{}
}

// NewStore builds a store whose Set entries default to defaultTTL. A
// defaultTTL of zero means entries never expire unless Set with an explicit
// TTL.
func NewStore(defaultTTL time.Duration) *Store {
	return &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		sweepDone:  make(chan struct{}),
	}
}

// Get returns the unexpired value for key. Expired entries are removed on
// read.
func (s *Store) Get(ctx context.Context, key string) (any, bool) {
	value, _, ok := s.GetWithAge(ctx, key)
	return value, ok
}

// GetWithAge additionally reports how long ago the entry was stored.
func (s *Store) GetWithAge(_ context.Context, key string) (any, time.Duration, bool) {
	if key == "" {
		return nil, 0, false
	}

	now := time.Now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, 0, false
	}
	if e.expired(now) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := s.entries[key]; ok && cur.expired(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, 0, false
	}

	return e.value, now.Sub(e.storedAt), true
}

// Set stores value under key with the store's default TTL.
func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, s.defaultTTL)
}

// SetWithTTL stores value with an entry-specific TTL. ttl <= 0 falls back to
// the store default.
func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, storedAt: time.Now(), ttl: ttl}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len counts entries still resident, including expired ones the sweep has not
// visited yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys lists resident keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.entries))
	for key := range s.entries {
		out = append(out, key)
	}
	return out
}

// GetOrLoad returns the cached value for key, or runs loader exactly once
// across concurrent callers and caches its result.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// StartSweep launches the periodic removal of expired entries. It runs until
// StopSweep is called and starts at most once per store.
func (s *Store) StartSweep(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.sweepDone:
				return
			case <-ticker.C:
				s.sweep(time.Now())
			}
		}
	}()
}

// StopSweep halts the background sweep. Idempotent.
func (s *Store) StopSweep() {
	s.sweepOnce.Do(func() { close(s.sweepDone) })
}

func (s *Store) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
		}
	}
}
