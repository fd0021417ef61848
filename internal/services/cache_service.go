package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Fetcher[T any] interface {
	CacheKey(params ...string) string
	Fetch(ctx context.Context, params ...string) (*T, error)
}

// CacheService reads through Redis to a Fetcher.
type CacheService[T any] struct {
	cache   Cache
	fetcher Fetcher[T]
	ttl     time.Duration
}

func NewCacheService[T any](cache Cache, fetcher Fetcher[T], ttl time.Duration) *CacheService[T] {
	return &CacheService[T]{
		cache:   cache,
		fetcher: fetcher,
		ttl:     ttl,
	}
}

func (s *CacheService[T]) Get(ctx context.Context, params ...string) (*T, error) {
	key := s.fetcher.CacheKey(params...)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var result T
		if json.Unmarshal(data, &result) == nil {
			zap.S().Debugf("Cache HIT: %s", key)
			return &result, nil
		}
	}

	result, err := s.fetcher.Fetch(ctx, params...)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			zap.S().Warnf("Cache SET %s failed: %v", key, err)
		}
	}
	return result, nil
}

func (s *CacheService[T]) Invalidate(ctx context.Context, params ...string) error {
	return s.cache.Del(ctx, s.fetcher.CacheKey(params...))
}
