package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/younsl/archcost/internal/models"
)

// DefaultRedisPrefix namespaces pricing cache keys
const DefaultRedisPrefix = "archcost:pricing:"

// RedisStore keeps pricing cache entries in Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

type redisEntry struct {
	Data      json.RawMessage `json:"pricing_data"`
	Timestamp float64         `json:"timestamp"`
}

// NewRedisStore creates a RedisStore; an empty prefix uses DefaultRedisPrefix
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get implements Store
func (s *RedisStore) Get(ctx context.Context, key string) (*models.PricingCacheEntry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error reading pricing cache: %w", err)
	}

	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("error decoding pricing cache entry: %w", err)
	}

	return &models.PricingCacheEntry{
		Key:       key,
		Data:      []byte(e.Data),
		Timestamp: e.Timestamp,
	}, true, nil
}

// Put implements Store
func (s *RedisStore) Put(ctx context.Context, entry models.PricingCacheEntry) error {
	raw, err := json.Marshal(redisEntry{Data: entry.Data, Timestamp: entry.Timestamp})
	if err != nil {
		return fmt.Errorf("error encoding pricing cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+entry.Key, raw, 0).Err(); err != nil {
		return fmt.Errorf("error writing pricing cache: %w", err)
	}
	return nil
}
