package database

import (
	"context"
	"errors"
	"time"

	"github.com/qaunion/portal/utils/cache"
)

// RedisStore keeps collections as plain string keys without expiry
type RedisStore struct {
	cache  *cache.RedisCache
	prefix string
}

func NewRedisStore(c *cache.RedisCache, prefix string) *RedisStore {
	return &RedisStore{cache: c, prefix: prefix}
}

func (s *RedisStore) Init() error { return s.HealthCheck() }

func (s *RedisStore) Close() error { return s.cache.Close() }

func (s *RedisStore) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.cache.Ping(ctx)
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.cache.Get(ctx, s.prefix+key)
	if errors.Is(err, cache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.cache.Set(ctx, s.prefix+key, value, 0)
}
