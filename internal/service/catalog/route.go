package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"go.uber.org/zap"
)

type RouteUseCase interface {
	Create(ctx context.Context, route *domain.Route) (*domain.Route, error)
	Update(ctx context.Context, route *domain.Route) (*domain.Route, error)
	Get(ctx context.Context, id int64) (*domain.Route, error)
	List(ctx context.Context) ([]domain.Route, error)
	Delete(ctx context.Context, id int64) error
}

type RouteService struct {
	routes    repository.RouteRepository
	airports  repository.AirportRepository
	validator Validator
	log       *zap.SugaredLogger
	invalidator
}

func NewRouteService(routes repository.RouteRepository, airports repository.AirportRepository, validator Validator, cache FlightsCache, log *zap.SugaredLogger) *RouteService {
	return &RouteService{routes: routes, airports: airports, validator: validator, log: log, invalidator: invalidator{cache: cache, log: log}}
}

func (s *RouteService) Create(ctx context.Context, r *domain.Route) (*domain.Route, error) {
	r.ID = 0
	if err := s.save(ctx, r, s.routes.Create); err != nil {
		return nil, err
	}
	s.log.Infow("route created", "id", r.ID, "source_id", r.SourceID, "destination_id", r.DestinationID)
	return s.routes.GetByID(ctx, r.ID)
}

func (s *RouteService) Update(ctx context.Context, r *domain.Route) (*domain.Route, error) {
	if _, err := s.routes.GetByID(ctx, r.ID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, r, s.routes.Update); err != nil {
		return nil, err
	}
	s.log.Infow("route updated", "id", r.ID)
	s.invalidate(ctx)
	return s.routes.GetByID(ctx, r.ID)
}

func (s *RouteService) save(ctx context.Context, r *domain.Route, write func(context.Context, *domain.Route) error) error {
	if _, err := s.airports.GetByID(ctx, r.SourceID); err != nil {
		return reference(err, "source", r.SourceID)
	}
	if _, err := s.airports.GetByID(ctx, r.DestinationID); err != nil {
		return reference(err, "destination", r.DestinationID)
	}
	if err := s.validator.ValidateRoute(ctx, r); err != nil {
		return err
	}
	return write(ctx, r)
}

func (s *RouteService) Get(ctx context.Context, id int64) (*domain.Route, error) {
	return s.routes.GetByID(ctx, id)
}

func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	return s.routes.List(ctx)
}

func (s *RouteService) Delete(ctx context.Context, id int64) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("route deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

var _ RouteUseCase = (*RouteService)(nil)
