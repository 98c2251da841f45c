package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"go.uber.org/zap"
)

type AirplaneTypeUseCase interface {
	Create(ctx context.Context, t *domain.AirplaneType) (*domain.AirplaneType, error)
	Update(ctx context.Context, t *domain.AirplaneType) (*domain.AirplaneType, error)
	Get(ctx context.Context, id int64) (*domain.AirplaneType, error)
	List(ctx context.Context) ([]domain.AirplaneType, error)
	Delete(ctx context.Context, id int64) error
}

type AirplaneUseCase interface {
	Create(ctx context.Context, a *domain.Airplane) (*domain.Airplane, error)
	Update(ctx context.Context, a *domain.Airplane) (*domain.Airplane, error)
	Get(ctx context.Context, id int64) (*domain.Airplane, error)
	List(ctx context.Context) ([]domain.Airplane, error)
	Delete(ctx context.Context, id int64) error
}

type AirplaneTypeService struct {
	repo      repository.AirplaneTypeRepository
	validator Validator
	log       *zap.SugaredLogger
	invalidator
}

func NewAirplaneTypeService(repo repository.AirplaneTypeRepository, validator Validator, cache FlightsCache, log *zap.SugaredLogger) *AirplaneTypeService {
	return &AirplaneTypeService{repo: repo, validator: validator, log: log, invalidator: invalidator{cache: cache, log: log}}
}

func (s *AirplaneTypeService) Create(ctx context.Context, t *domain.AirplaneType) (*domain.AirplaneType, error) {
	t.ID = 0
	if err := s.validator.ValidateAirplaneType(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.log.Infow("airplane type created", "id", t.ID, "name", t.Name)
	return t, nil
}

func (s *AirplaneTypeService) Update(ctx context.Context, t *domain.AirplaneType) (*domain.AirplaneType, error) {
	if _, err := s.repo.GetByID(ctx, t.ID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAirplaneType(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.log.Infow("airplane type updated", "id", t.ID)
	s.invalidate(ctx)
	return t, nil
}

func (s *AirplaneTypeService) Get(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirplaneTypeService) List(ctx context.Context) ([]domain.AirplaneType, error) {
	return s.repo.List(ctx)
}

func (s *AirplaneTypeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("airplane type deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

type AirplaneService struct {
	airplanes repository.AirplaneRepository
	types     repository.AirplaneTypeRepository
	validator Validator
	log       *zap.SugaredLogger
	invalidator
}

func NewAirplaneService(airplanes repository.AirplaneRepository, types repository.AirplaneTypeRepository, validator Validator, cache FlightsCache, log *zap.SugaredLogger) *AirplaneService {
	return &AirplaneService{airplanes: airplanes, types: types, validator: validator, log: log, invalidator: invalidator{cache: cache, log: log}}
}

func (s *AirplaneService) Create(ctx context.Context, a *domain.Airplane) (*domain.Airplane, error) {
	a.ID = 0
	if err := s.save(ctx, a, s.airplanes.Create); err != nil {
		return nil, err
	}
	s.log.Infow("airplane created", "id", a.ID, "name", a.Name, "capacity", a.Capacity())
	return s.airplanes.GetByID(ctx, a.ID)
}

func (s *AirplaneService) Update(ctx context.Context, a *domain.Airplane) (*domain.Airplane, error) {
	if _, err := s.airplanes.GetByID(ctx, a.ID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, a, s.airplanes.Update); err != nil {
		return nil, err
	}
	s.log.Infow("airplane updated", "id", a.ID)
	s.invalidate(ctx)
	return s.airplanes.GetByID(ctx, a.ID)
}

func (s *AirplaneService) save(ctx context.Context, a *domain.Airplane, write func(context.Context, *domain.Airplane) error) error {
	if _, err := s.types.GetByID(ctx, a.AirplaneTypeID); err != nil {
		return reference(err, "airplane_type", a.AirplaneTypeID)
	}
	if err := s.validator.ValidateAirplane(ctx, a); err != nil {
		return err
	}
	return write(ctx, a)
}

func (s *AirplaneService) Get(ctx context.Context, id int64) (*domain.Airplane, error) {
	return s.airplanes.GetByID(ctx, id)
}

func (s *AirplaneService) List(ctx context.Context) ([]domain.Airplane, error) {
	return s.airplanes.List(ctx)
}

func (s *AirplaneService) Delete(ctx context.Context, id int64) error {
	if err := s.airplanes.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("airplane deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

var (
	_ AirplaneTypeUseCase = (*AirplaneTypeService)(nil)
	_ AirplaneUseCase     = (*AirplaneService)(nil)
)
