// Package catalog manages the reference data flights are built from:
// airports, routes, airplane types, airplanes and crew.
package catalog

import (
	"context"
	"errors"

	"github.com/Domenick1991/airport/internal/domain"
	"go.uber.org/zap"
)

// Validator is the part of the validation engine the catalog needs.
type Validator interface {
	ValidateAirport(ctx context.Context, a *domain.Airport) error
	ValidateRoute(ctx context.Context, r *domain.Route) error
	ValidateAirplaneType(ctx context.Context, t *domain.AirplaneType) error
	ValidateAirplane(ctx context.Context, a *domain.Airplane) error
	ValidateCrew(ctx context.Context, c *domain.Crew) error
}

// reference converts a missing referenced record into a field error.
func reference(err error, field string, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.InvalidPK(field, id)
	}
	return err
}

// FlightsCache is invalidated after writes that change what flight listings
// show: renamed airports, cascaded deletes and the like.
type FlightsCache interface {
	InvalidateFlights(ctx context.Context) error
}

type invalidator struct {
	cache FlightsCache
	log   *zap.SugaredLogger
}

func (i invalidator) invalidate(ctx context.Context) {
	if i.cache == nil {
		return
	}
	if err := i.cache.InvalidateFlights(ctx); err != nil {
		i.log.Warnw("failed to invalidate flights cache", "error", err)
	}
}
