package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCache holds the most recent engine.Snapshot JSON so a restart
// or a secondary reader can pick up recent state without replaying the
// whole journal.
type SnapshotCache interface {
	Set(ctx context.Context, key string, snapshotJSON []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Close()
}

// RedisSnapshotCache backs SnapshotCache with go-redis/v9, the same
// client the teacher uses for its reconcile-state caching.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache dials addr and verifies connectivity with PING,
// the same standalone-mode probe the teacher performs at startup.
func NewRedisSnapshotCache(ctx context.Context, addr string) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("store: redis unavailable at %s: %w", addr, err)
	}
	return &RedisSnapshotCache{client: client}, nil
}

// Set stores snapshotJSON under key with the given TTL.
func (r *RedisSnapshotCache) Set(ctx context.Context, key string, snapshotJSON []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, snapshotJSON, ttl).Err(); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

// Get fetches the snapshot JSON stored under key, if any.
func (r *RedisSnapshotCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Close closes the underlying Redis client.
func (r *RedisSnapshotCache) Close() {
	r.client.Close()
}

// MemorySnapshotCache is the in-memory fallback when Redis is
// unavailable or unconfigured — the server runs in STANDALONE mode
// rather than refusing to start, the same degradation the teacher
// applies when its reconcile cache can't reach Redis.
type MemorySnapshotCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	data    []byte
	expires time.Time
}

// NewMemorySnapshotCache constructs an empty in-memory cache.
func NewMemorySnapshotCache() *MemorySnapshotCache {
	return &MemorySnapshotCache{entries: make(map[string]memEntry)}
}

// Set stores data under key with the given TTL (zero means no expiry).
func (m *MemorySnapshotCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.entries[key] = memEntry{data: append([]byte(nil), data...), expires: expires}
	return nil
}

// Get fetches the data stored under key, if present and unexpired.
func (m *MemorySnapshotCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Close is a no-op for the in-memory cache.
func (m *MemorySnapshotCache) Close() {}

// MarshalSnapshot is a small helper so callers don't need to import
// encoding/json directly just to populate a SnapshotCache.
func MarshalSnapshot(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
