package session

import (
	"sync"
	"time"
)

// Store is the single source of truth for "who is the current visitor",
// derived from a bearer token held in TokenStorage. It is an explicit,
// injectable instance, not ambient global state.
type Store struct {
	mu          sync.RWMutex
	storage     TokenStorage
	rawToken    string
	identity    *Claims
	initialized bool

	now func() time.Time
}

// NewStore creates an empty Store over the given storage
func NewStore(storage TokenStorage) *Store {
	return &Store{
		storage: storage,
		now:     time.Now,
	}
}

// Hydrate loads the persisted token, if any, and derives the identity.
// A malformed token or one whose expiration is in the past is cleared
// from storage and leaves the identity nil; neither case is an error,
// the visitor is simply not logged in. Hydrate runs once per Store
// lifetime, later calls are no-ops.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return
	}
	s.initialized = true

	raw, err := s.storage.Load()
	if err != nil || raw == "" {
		return
	}

	claims, err := DecodeToken(raw)
	if err != nil {
		_ = s.storage.Clear()
		return
	}
	if claims.Expired(s.now()) {
		_ = s.storage.Clear()
		return
	}

	s.rawToken = raw
	s.identity = claims
}

// SetToken installs a freshly issued token after a successful external
// authentication call. Decode failure leaves the session unchanged and is
// returned to the caller, so the login flow can show a message instead of
// silently "logging in" with garbage. On success the token is persisted
// and the identity replaced atomically.
func (s *Store) SetToken(token string) error {
	claims, err := DecodeToken(token)
	if err != nil {
		return err
	}
	if claims.Expired(s.now()) {
		return ErrTokenExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(token); err != nil {
		return err
	}
	s.rawToken = token
	s.identity = claims
	s.initialized = true
	return nil
}

// Clear removes the persisted token and drops the identity. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.storage.Clear()
	s.rawToken = ""
	s.identity = nil
}

// CurrentIdentity returns the decoded identity, or nil when the visitor
// is not authenticated. An identity whose expiration has since passed
// reads as nil; the stored token is cleared on the next hydration.
// Never blocks, never fails.
func (s *Store) CurrentIdentity() *Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity != nil && s.identity.Expired(s.now()) {
		return nil
	}
	return s.identity
}

// Token returns the raw bearer token, or "" when unauthenticated.
// Used to attach Authorization headers on delegated service calls.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rawToken
}

// Initialized reports whether hydration has completed
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}
