package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FiberStorage exposes a Cache as fiber.Storage so sessions and the rate
// limiter share the configured backend
type FiberStorage struct {
	cache  Cache
	prefix string
}

var _ fiber.Storage = (*FiberStorage)(nil)

func NewFiberStorage(c Cache, prefix string) *FiberStorage {
	return &FiberStorage{cache: c, prefix: prefix}
}

// Get returns nil, nil for a missing key as fiber expects
func (s *FiberStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	v, err := s.cache.Get(context.Background(), s.prefix+key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s *FiberStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.cache.Set(context.Background(), s.prefix+key, val, exp)
}

func (s *FiberStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.cache.Delete(context.Background(), s.prefix+key)
}

// Reset is not supported: the Cache interface has no prefix scan
func (s *FiberStorage) Reset() error {
	return errors.New("cache storage does not support reset")
}

// Close leaves the shared cache open; its owner closes it
func (s *FiberStorage) Close() error {
	return nil
}
