package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/eventhub/pkg/cache"
	"github.com/Payphone-Digital/eventhub/pkg/logger"
)

// CacheService stores JSON values in Redis or the in-memory fallback.
// Cache failures degrade to a miss and are only logged.
type CacheService struct {
	store cache.Store
	ttl   time.Duration
}

// NewCacheService wraps store. A nil store disables caching.
func NewCacheService(store cache.Store, ttl time.Duration) *CacheService {
	return &CacheService{store: store, ttl: ttl}
}

// GetJSON decodes the cached value for key into dest and reports a hit.
func (s *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.store == nil {
		return false
	}

	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logger.WarnWithContext(ctx, "Cache read failed").
			String("cache_key", key).
			Err(err).
			Log()
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		logger.WarnWithContext(ctx, "Discarding undecodable cache entry").
			String("cache_key", key).
			Err(err).
			Log()
		s.Invalidate(ctx, key)
		return false
	}
	return true
}

func (s *CacheService) SetJSON(ctx context.Context, key string, value interface{}) {
	if s == nil || s.store == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logger.WarnWithContext(ctx, "Cache encode failed").
			String("cache_key", key).
			Err(err).
			Log()
		return
	}
	if err := s.store.Set(ctx, key, raw, s.ttl); err != nil {
		logger.WarnWithContext(ctx, "Cache write failed").
			String("cache_key", key).
			Err(err).
			Log()
	}
}

func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.store == nil || len(keys) == 0 {
		return
	}
	if err := s.store.Delete(ctx, keys...); err != nil {
		logger.WarnWithContext(ctx, "Cache invalidation failed").
			Strings("cache_keys", keys).
			Err(err).
			Log()
	}
}
