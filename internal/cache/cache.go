package cache

import (
	"context"
	"time"

	"github.com/Domenick1991/airport/internal/domain"
)

// Cache holds the unfiltered flight listing and idempotency reservations.
// GetFlights returns nil flights on a miss.
type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error

	// Reserve claims key for ttl and reports false when it is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error

	Close() error
}

const flightsMetricKey = "flights"

func flightsKey() string {
	return "cache:flights"
}

func idempotencyKey(key string) string {
	return "idempotency:" + key
}
