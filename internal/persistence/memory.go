package persistence

import (
	"context"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local store for development and tests.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory returns an empty store whose entries never expire.
func NewMemory() *Memory {
	return &Memory{cache: gocache.New(gocache.NoExpiration, 0)}
}

// Name identifies the backend.
func (m *Memory) Name() string { return "memory" }

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() {}

// List returns keys with the given prefix in sorted order.
func (m *Memory) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	for key := range m.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get fetches the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	val, ok := m.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := val.(string)
	return s, ok, nil
}

// Set stores value under key without expiry.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.Set(key, value, gocache.NoExpiration)
	return nil
}
