package session

import "sync"

// TokenStorage is the persisted-token boundary. The production
// implementation is backed by the browser cookie jar (origin scoped,
// survives reloads); tests and tooling use MemoryStorage.
type TokenStorage interface {
	// Load returns the persisted token, or "" when none is stored
	Load() (string, error)
	// Save persists the token
	Save(token string) error
	// Clear removes the persisted token. Clearing empty storage is not an error.
	Clear() error
}

// MemoryStorage is an in-memory TokenStorage
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStorage creates a MemoryStorage holding the given token
func NewMemoryStorage(token string) *MemoryStorage {
	return &MemoryStorage{token: token}
}

func (m *MemoryStorage) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStorage) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
