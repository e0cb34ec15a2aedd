package ledger

import (
	"sync"
	"time"
)

// anonEntry is one guest session's rolling id window.
type anonEntry struct {
	ids         []string // oldest first
	lastTouched time.Time
}

// AnonStore is the volatile ledger for anonymous identities: an owned,
// concurrency-safe key-value store with a sliding TTL per entry. It is
// created at process start, entries expire independently, and Close stops
// the background sweep. Loss on restart is acceptable; nothing is shared
// across processes.
type AnonStore struct {
	mu      sync.Mutex
	entries map[string]*anonEntry

	maxRecent int
	ttl       time.Duration

	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time // injectable clock for tests
}

// NewAnonStore creates an AnonStore and starts its TTL sweep goroutine.
func NewAnonStore(maxRecent int, ttl, sweepInterval time.Duration) *AnonStore {
	s := &AnonStore{
		entries:   make(map[string]*anonEntry),
		maxRecent: maxRecent,
		ttl:       ttl,
		done:      make(chan struct{}),
		now:       time.Now,
	}
	go s.sweepLoop(sweepInterval)
	return s
}

// RecentIDs returns the live ids for a key as a set. Access refreshes the
// sliding TTL; an expired entry is pruned and reads as empty.
func (s *AnonStore) RecentIDs(key string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return map[string]struct{}{}
	}
	if s.expired(entry) {
		delete(s.entries, key)
		return map[string]struct{}{}
	}

	entry.lastTouched = s.now()
	set := make(map[string]struct{}, len(entry.ids))
	for _, id := range entry.ids {
		set[id] = struct{}{}
	}
	return set
}

// Record appends served ids to a key's window, trims to the rolling limit,
// and refreshes the timestamp. The read-modify-write happens under the store
// lock, so a same-session double-submit cannot lose an update.
func (s *AnonStore) Record(key string, ids []string) {
	if len(ids) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		entry = &anonEntry{}
		s.entries[key] = entry
	}

	seen := make(map[string]struct{}, len(entry.ids)+len(ids))
	merged := make([]string, 0, len(entry.ids)+len(ids))
	for _, id := range entry.ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range ids {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}

	if len(merged) > s.maxRecent {
		merged = merged[len(merged)-s.maxRecent:]
	}

	entry.ids = merged
	entry.lastTouched = s.now()
}

// Len returns the number of live entries. Expired-but-unswept entries count
// until touched or swept.
func (s *AnonStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweep and clears all entries.
func (s *AnonStore) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.entries = make(map[string]*anonEntry)
		s.mu.Unlock()
	})
}

func (s *AnonStore) expired(entry *anonEntry) bool {
	return s.now().Sub(entry.lastTouched) > s.ttl
}

func (s *AnonStore) sweepLoop(interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep removes expired entries. It takes the same lock as Record, so it
// cannot race an in-flight update for a key.
func (s *AnonStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, key)
		}
	}
}
