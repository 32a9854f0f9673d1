package cache

import (
	"sync"
	"time"
)

const defaultSweepInterval = 5 * time.Minute

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

// Stats summarizes the contents of a Memory cache at a point in time.
// TotalEntries counts everything still held, including entries that have
// expired but not yet been swept or read.
type Stats struct {
	TotalEntries   int
	ActiveEntries  int
	ExpiredEntries int
}

// Memory is a process-local TTL cache. Expired entries are evicted lazily
// on read and reclaimed in bulk by a background sweep; reads never depend
// on the sweep having run. Values are held as-is, no serialization.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	sweepInterval time.Duration
	now           func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type MemoryOption func(*Memory)

// WithSweepInterval sets how often the background sweep reclaims expired
// entries. Non-positive values are ignored.
func WithSweepInterval(interval time.Duration) MemoryOption {
	return func(m *Memory) {
		if interval > 0 {
			m.sweepInterval = interval
		}
	}
}

// WithClock overrides the time source, used by tests to control expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates a Memory cache and starts its sweep goroutine.
// Callers own the instance and must Close it on shutdown.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries:       make(map[string]memoryEntry),
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	go m.sweepLoop()

	return m
}

// Set stores value under key, replacing any existing entry. The expiry is
// always recomputed from now, so an overwrite can never be evicted on the
// previous entry's schedule.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	expiresAt := m.now().Add(ttl)

	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	m.mu.Unlock()
}

// Get returns the live value for key. An entry past its expiry is treated
// as a miss and removed immediately, whether or not a sweep has run.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Delete removes the entry for key, expired or not.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Has reports whether a live entry exists for key, with the same lazy
// eviction semantics as Get.
func (m *Memory) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Stats returns entry counts without evicting anything.
func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s := Stats{TotalEntries: len(m.entries)}
	for _, e := range m.entries {
		if now.After(e.expiresAt) {
			s.ExpiredEntries++
		} else {
			s.ActiveEntries++
		}
	}
	return s
}

// Close stops the background sweep. Safe to call more than once. Entries
// are left in place; the cache remains usable for lazy-evicting reads.
func (m *Memory) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *Memory) sweepLoop() {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.done:
			return
		}
	}
}

// sweep reclaims memory held by expired entries. Purely an optimization;
// Get and Has never rely on it.
func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}
