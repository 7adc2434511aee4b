package guard

import (
	"context"
	"encoding/json"
	"time"

	pkgredis "github.com/Invincible1602/AyurYoga/pkg/redis"
)

// RedisPendingStore is a PendingStore backed by Redis, so pending
// destinations survive process restarts and are shared across instances.
// Operations are best-effort: a Redis failure degrades to the landing
// fallback, it never blocks a login.
type RedisPendingStore struct {
	client    *pkgredis.Client
	keyPrefix string
	ttl       time.Duration
	opTimeout time.Duration
}

// NewRedisPendingStore creates a Redis-backed pending store whose
// entries expire after ttl.
func NewRedisPendingStore(client *pkgredis.Client, ttl time.Duration) *RedisPendingStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisPendingStore{
		client:    client,
		keyPrefix: "pending:",
		ttl:       ttl,
		opTimeout: 2 * time.Second,
	}
}

func (s *RedisPendingStore) Put(visitID string, dest PendingDestination) {
	if visitID == "" {
		return
	}
	raw, err := json.Marshal(dest)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()
	_ = s.client.Set(ctx, s.keyPrefix+visitID, raw, s.ttl)
}

func (s *RedisPendingStore) Take(visitID string) (PendingDestination, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opTimeout)
	defer cancel()

	raw, err := s.client.GetDel(ctx, s.keyPrefix+visitID)
	if err != nil {
		return PendingDestination{}, false
	}

	var dest PendingDestination
	if err := json.Unmarshal([]byte(raw), &dest); err != nil {
		return PendingDestination{}, false
	}
	return dest, true
}
