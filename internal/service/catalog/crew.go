package catalog

import (
	"context"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/Domenick1991/airport/internal/repository"
	"go.uber.org/zap"
)

type CrewUseCase interface {
	Create(ctx context.Context, c *domain.Crew) (*domain.Crew, error)
	Update(ctx context.Context, c *domain.Crew) (*domain.Crew, error)
	Get(ctx context.Context, id int64) (*domain.Crew, error)
	List(ctx context.Context) ([]domain.Crew, error)
	Delete(ctx context.Context, id int64) error
}

type CrewService struct {
	repo      repository.CrewRepository
	validator Validator
	log       *zap.SugaredLogger
	invalidator
}

func NewCrewService(repo repository.CrewRepository, validator Validator, cache FlightsCache, log *zap.SugaredLogger) *CrewService {
	return &CrewService{repo: repo, validator: validator, log: log, invalidator: invalidator{cache: cache, log: log}}
}

func (s *CrewService) Create(ctx context.Context, c *domain.Crew) (*domain.Crew, error) {
	c.ID = 0
	if err := s.validator.ValidateCrew(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Infow("crew member created", "id", c.ID)
	return c, nil
}

func (s *CrewService) Update(ctx context.Context, c *domain.Crew) (*domain.Crew, error) {
	if _, err := s.repo.GetByID(ctx, c.ID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateCrew(ctx, c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.log.Infow("crew member updated", "id", c.ID)
	s.invalidate(ctx)
	return c, nil
}

func (s *CrewService) Get(ctx context.Context, id int64) (*domain.Crew, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CrewService) List(ctx context.Context) ([]domain.Crew, error) {
	return s.repo.List(ctx)
}

func (s *CrewService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("crew member deleted", "id", id)
	s.invalidate(ctx)
	return nil
}

var _ CrewUseCase = (*CrewService)(nil)
