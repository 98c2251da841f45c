package flights

import (
	"context"
	"errors"
	"slices"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	Create(ctx context.Context, flight *domain.Flight) (*domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight) (*domain.Flight, error)
	List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

// FlightCache holds the unfiltered listing. A nil result from GetFlights is a
// miss. List reads the store and then calls SetFlights without a lock, so a
// write landing in between can be overwritten by the older listing; the entry
// stays stale until its TTL expires or the next write invalidates it.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Validator interface {
	ValidateFlight(ctx context.Context, f *domain.Flight, airplane *domain.Airplane) error
}

type FlightService struct {
	flights   repository.FlightRepository
	routes    repository.RouteRepository
	airplanes repository.AirplaneRepository
	crew      repository.CrewRepository
	validator Validator
	tx        repository.Transactor
	cache     FlightCache
	log       *zap.SugaredLogger
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithLogger(log *zap.SugaredLogger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = log
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	routes repository.RouteRepository,
	airplanes repository.AirplaneRepository,
	crew repository.CrewRepository,
	validator Validator,
	tx repository.Transactor,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		flights:   flights,
		routes:    routes,
		airplanes: airplanes,
		crew:      crew,
		validator: validator,
		tx:        tx,
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) Create(ctx context.Context, f *domain.Flight) (*domain.Flight, error) {
	f.ID = 0
	if err := s.save(ctx, f, s.flights.Create); err != nil {
		return nil, err
	}
	s.log.Infow("flight created", "id", f.ID, "route_id", f.RouteID, "airplane_id", f.AirplaneID, "crew", len(f.CrewIDs))
	s.invalidate(ctx)
	return s.flights.GetByID(ctx, f.ID)
}

func (s *FlightService) Update(ctx context.Context, f *domain.Flight) (*domain.Flight, error) {
	if _, err := s.flights.GetByID(ctx, f.ID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, f, s.flights.Update); err != nil {
		return nil, err
	}
	s.log.Infow("flight updated", "id", f.ID)
	s.invalidate(ctx)
	return s.flights.GetByID(ctx, f.ID)
}

// save resolves the references, validates and writes the flight with its
// crew in one transaction.
func (s *FlightService) save(ctx context.Context, f *domain.Flight, write func(context.Context, *domain.Flight) error) error {
	f.DepartureTime, f.ArrivalTime = f.DepartureTime.UTC(), f.ArrivalTime.UTC()
	f.CrewIDs = uniqueIDs(f.CrewIDs)

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.routes.GetByID(ctx, f.RouteID); err != nil {
			return reference(err, "route", f.RouteID)
		}
		airplane, err := s.airplanes.GetByID(ctx, f.AirplaneID)
		if err != nil {
			return reference(err, "airplane", f.AirplaneID)
		}
		if err := s.checkCrew(ctx, f.CrewIDs); err != nil {
			return err
		}
		if err := s.validator.ValidateFlight(ctx, f, airplane); err != nil {
			return err
		}
		return write(ctx, f)
	})
}

func (s *FlightService) checkCrew(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	existing, err := s.crew.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !slices.Contains(existing, id) {
			return domain.InvalidPK("crew", id)
		}
	}
	return nil
}

func (s *FlightService) List(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if !filter.IsZero() {
		return s.flights.List(ctx, filter)
	}

	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warnw("failed to read flights cache", "error", err)
		}
	}

	flights, err := s.flights.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warnw("failed to fill flights cache", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.flights.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("flight deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warnw("failed to invalidate flights cache", "error", err)
	}
}

func reference(err error, field string, id int64) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.InvalidPK(field, id)
	}
	return err
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

var _ FlightUseCase = (*FlightService)(nil)
