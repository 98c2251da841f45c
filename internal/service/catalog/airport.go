package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"go.uber.org/zap"
)

type AirportUseCase interface {
	Create(ctx context.Context, airport *domain.Airport) (*domain.Airport, error)
	Update(ctx context.Context, airport *domain.Airport) (*domain.Airport, error)
	Get(ctx context.Context, id int64) (*domain.Airport, error)
	List(ctx context.Context) ([]domain.Airport, error)
	Delete(ctx context.Context, id int64) error
}

type AirportService struct {
	repo      repository.AirportRepository
	validator Validator
	log       *zap.SugaredLogger
	invalidator
}

func NewAirportService(repo repository.AirportRepository, validator Validator, cache FlightsCache, log *zap.SugaredLogger) *AirportService {
	return &AirportService{repo: repo, validator: validator, log: log, invalidator: invalidator{cache: cache, log: log}}
}

func (s *AirportService) Create(ctx context.Context, a *domain.Airport) (*domain.Airport, error) {
	a.ID = 0
	if err := s.validator.ValidateAirport(ctx, a); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Infow("airport created", "id", a.ID, "name", a.Name)
	return a, nil
}

func (s *AirportService) Update(ctx context.Context, a *domain.Airport) (*domain.Airport, error) {
	if _, err := s.repo.GetByID(ctx, a.ID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAirport(ctx, a); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.log.Infow("airport updated", "id", a.ID)
	s.invalidate(ctx)
	return a, nil
}

func (s *AirportService) Get(ctx context.Context, id int64) (*domain.Airport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirportService) List(ctx context.Context) ([]domain.Airport, error) {
	return s.repo.List(ctx)
}

func (s *AirportService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("airport deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

var _ AirportUseCase = (*AirportService)(nil)
