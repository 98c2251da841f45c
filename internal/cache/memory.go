package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps everything in process. It is used when no redis address
// is configured and by single-instance deployments.
type MemoryCache struct {
	store      *gocache.Cache
	flightsTTL time.Duration
}

func NewMemoryCache(flightsTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		store:      gocache.New(flightsTTL, 2*flightsTTL),
		flightsTTL: flightsTTL,
	}
}

func (c *MemoryCache) GetFlights(_ context.Context) ([]domain.Flight, error) {
	v, ok := c.store.Get(flightsKey())
	if !ok {
		metrics.CacheMisses.WithLabelValues(flightsMetricKey).Inc()
		return nil, nil
	}
	metrics.CacheHits.WithLabelValues(flightsMetricKey).Inc()
	cached := v.([]domain.Flight)
	return append(make([]domain.Flight, 0, len(cached)), cached...), nil
}

func (c *MemoryCache) SetFlights(_ context.Context, flights []domain.Flight) error {
	c.store.Set(flightsKey(), append(make([]domain.Flight, 0, len(flights)), flights...), c.flightsTTL)
	return nil
}

func (c *MemoryCache) InvalidateFlights(_ context.Context) error {
	c.store.Delete(flightsKey())
	return nil
}

func (c *MemoryCache) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	if err := c.store.Add(idempotencyKey(key), struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *MemoryCache) Release(_ context.Context, key string) error {
	c.store.Delete(idempotencyKey(key))
	return nil
}

func (c *MemoryCache) Close() error {
	c.store.Flush()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
