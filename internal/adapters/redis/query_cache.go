package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/outbound"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// QueryCache stores search result pages as JSON values with a TTL
type QueryCache struct {
	client *redis.Client
	logger zerolog.Logger
}

type QueryCacheParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

// NewQueryCache creates a Redis-backed query cache
func NewQueryCache(params QueryCacheParams) *QueryCache {
	return &QueryCache{
		client: params.RedisClient,
		logger: params.Logger.With().Str("component", "redis_query_cache").Logger(),
	}
}

// Get returns the cached page under key or shared.ErrCacheMiss
func (c *QueryCache) Get(ctx context.Context, key string) (*outbound.CachedPage, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached page: %w", err)
	}

	var entry outbound.CachedPage
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		c.client.Del(ctx, key)
		return nil, shared.ErrCacheMiss
	}
	return &entry, nil
}

// Set stores entry under key for ttl
func (c *QueryCache) Set(ctx context.Context, key string, entry *outbound.CachedPage, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cached page: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cached page: %w", err)
	}
	return nil
}
