package cache

import (
	"context"
	"time"
)

// ChartStateExpiry bounds how long an interactive chart's working state
// survives in Redis between visits.
const ChartStateExpiry = 24 * time.Hour

// ChartStore adapts the Redis cache to the chart engine's key/value store.
// A missing key reads as absent rather than as an error.
type ChartStore struct {
	cache *Cache
}

func NewChartStore(cache *Cache) *ChartStore {
	return &ChartStore{cache: cache}
}

func (s *ChartStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}
	return []byte(val), nil
}

func (s *ChartStore) Set(ctx context.Context, key string, value []byte) error {
	return s.cache.Set(ctx, key, value, ChartStateExpiry)
}
