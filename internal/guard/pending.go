package guard

import (
	"sync"
	"time"
)

// PendingDestination records where a denied visitor was trying to go.
// At most one is live per visit; it is consumed exactly once by the
// post-login redirect and then discarded.
type PendingDestination struct {
	Path       string
	RecordedAt time.Time
}

// PendingStore holds pending destinations keyed by visit. Entries are
// best-effort and in-memory only; they do not survive a process restart.
type PendingStore interface {
	Put(visitID string, dest PendingDestination)
	// Take removes and returns the visit's pending destination, one-shot
	Take(visitID string) (PendingDestination, bool)
}

// MemoryPendingStore is an in-memory PendingStore with TTL expiry, so
// abandoned login attempts decay instead of replaying stale destinations.
type MemoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]PendingDestination
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryPendingStore creates a pending store whose entries expire
// after ttl. A ttl of zero disables expiry.
func NewMemoryPendingStore(ttl time.Duration) *MemoryPendingStore {
	s := &MemoryPendingStore{
		entries: make(map[string]PendingDestination),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
	if ttl > 0 {
		go s.sweep()
	}
	return s
}

func (s *MemoryPendingStore) Put(visitID string, dest PendingDestination) {
	if visitID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer denial replaces any earlier live record for the visit
	s.entries[visitID] = dest
}

func (s *MemoryPendingStore) Take(visitID string) (PendingDestination, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dest, ok := s.entries[visitID]
	if !ok {
		return PendingDestination{}, false
	}
	delete(s.entries, visitID)

	if s.expired(dest, time.Now()) {
		return PendingDestination{}, false
	}
	return dest, true
}

func (s *MemoryPendingStore) expired(dest PendingDestination, now time.Time) bool {
	return s.ttl > 0 && now.Sub(dest.RecordedAt) > s.ttl
}

func (s *MemoryPendingStore) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, dest := range s.entries {
				if s.expired(dest, now) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}

// Stop stops the sweep goroutine
func (s *MemoryPendingStore) Stop() {
	s.once.Do(func() { close(s.stop) })
}
