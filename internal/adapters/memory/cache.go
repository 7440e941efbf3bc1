package memory

import (
	"context"
	"sync"
	"time"

	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/outbound"
)

type cacheEntry struct {
	page      *outbound.CachedPage
	expiresAt time.Time
}

// QueryCache is an in-process search result cache with per-entry expiry
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewQueryCache creates an empty cache
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the entry stored under key or shared.ErrCacheMiss
func (cache *QueryCache) Get(ctx context.Context, key string) (*outbound.CachedPage, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	entry, ok := cache.entries[key]
	if !ok {
		return nil, shared.ErrCacheMiss
	}
	if !cache.now().Before(entry.expiresAt) {
		delete(cache.entries, key)
		return nil, shared.ErrCacheMiss
	}
	return entry.page, nil
}

// Set stores page under key for ttl
func (cache *QueryCache) Set(ctx context.Context, key string, page *outbound.CachedPage, ttl time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.entries[key] = cacheEntry{page: page, expiresAt: cache.now().Add(ttl)}
	return nil
}
