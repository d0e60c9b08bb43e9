package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/fugrusha/booking/internal/clock"
	"github.com/fugrusha/booking/internal/domain"
)

type UnitRepository interface {
	CreateUnit(ctx context.Context, unit domain.Unit) error
	GetUnit(ctx context.Context, id string) (domain.Unit, error)
	UpdateUnit(ctx context.Context, unit domain.Unit) error
	DeleteUnit(ctx context.Context, id string) error
	FindUnitsByCriteria(ctx context.Context, filter UnitFilter, limit, offset int) ([]domain.Unit, error)
}

// UnitFilter narrows the catalog search. Nil fields match everything.
type UnitFilter struct {
	NumberOfRooms     *int
	AccommodationType *domain.AccommodationType
	Floor             *int
	MinTotalCost      *int64
	MaxTotalCost      *int64
}

type UnitService struct {
	repo          UnitRepository
	counter       Counter
	clock         clock.Clock
	log           *zap.Logger
	markupPercent int64
}

const defaultMarkupPercent = 15

type UnitServiceOption func(*UnitService)

// WithMarkupPercent overrides the system markup added on top of a
// unit's base cost.
func WithMarkupPercent(p int64) UnitServiceOption {
	return func(s *UnitService) {
		if p >= 0 {
			s.markupPercent = p
		}
	}
}

func WithUnitLogger(log *zap.Logger) UnitServiceOption {
	return func(s *UnitService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewUnitService(repo UnitRepository, counter Counter, clk clock.Clock, opts ...UnitServiceOption) *UnitService {
	svc := &UnitService{
		repo:          repo,
		counter:       counter,
		clock:         clk,
		log:           zap.NewNop(),
		markupPercent: defaultMarkupPercent,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreateUnitInput struct {
	NumberOfRooms     int
	AccommodationType domain.AccommodationType
	Floor             int
	BaseCost          int64
	Description       string
}

func (s *UnitService) CreateUnit(ctx context.Context, in CreateUnitInput) (domain.Unit, error) {
	if in.BaseCost <= 0 {
		return domain.Unit{}, domain.ErrInvalidAmount
	}

	unit := domain.Unit{
		ID:                newID(),
		NumberOfRooms:     in.NumberOfRooms,
		AccommodationType: in.AccommodationType,
		Floor:             in.Floor,
		BaseCost:          in.BaseCost,
		TotalCost:         s.totalCost(in.BaseCost),
		Description:       in.Description,
		CreatedAt:         s.clock.Now(),
	}

	if err := s.repo.CreateUnit(ctx, unit); err != nil {
		return domain.Unit{}, err
	}

	if err := s.counter.Increment(ctx); err != nil {
		s.log.Warn("counter increment failed, next rebuild heals it", zap.Error(err))
	}

	return unit, nil
}

func (s *UnitService) GetUnit(ctx context.Context, id string) (domain.Unit, error) {
	if id == "" {
		return domain.Unit{}, domain.ErrInvalidID
	}
	return s.repo.GetUnit(ctx, id)
}

type UpdateUnitInput struct {
	NumberOfRooms     int
	AccommodationType domain.AccommodationType
	Floor             int
	BaseCost          int64
	Description       string
}

func (s *UnitService) UpdateUnit(ctx context.Context, id string, in UpdateUnitInput) (domain.Unit, error) {
	if id == "" {
		return domain.Unit{}, domain.ErrInvalidID
	}
	if in.BaseCost <= 0 {
		return domain.Unit{}, domain.ErrInvalidAmount
	}

	unit, err := s.repo.GetUnit(ctx, id)
	if err != nil {
		return domain.Unit{}, err
	}

	unit.NumberOfRooms = in.NumberOfRooms
	unit.AccommodationType = in.AccommodationType
	unit.Floor = in.Floor
	unit.BaseCost = in.BaseCost
	unit.TotalCost = s.totalCost(in.BaseCost)
	unit.Description = in.Description

	if err := s.repo.UpdateUnit(ctx, unit); err != nil {
		return domain.Unit{}, err
	}
	return unit, nil
}

func (s *UnitService) DeleteUnit(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	if err := s.repo.DeleteUnit(ctx, id); err != nil {
		return err
	}
	if err := s.counter.Decrement(ctx); err != nil {
		s.log.Warn("counter decrement failed, next rebuild heals it", zap.Error(err))
	}
	return nil
}

func (s *UnitService) FindUnits(ctx context.Context, filter UnitFilter, limit, offset int) ([]domain.Unit, error) {
	return s.repo.FindUnitsByCriteria(ctx, filter, normalizeLimit(limit), max(offset, 0))
}

// AvailableUnitsCount answers from the counter cache, populating it on a
// cold read.
func (s *UnitService) AvailableUnitsCount(ctx context.Context) (int64, error) {
	return s.counter.Get(ctx)
}

func (s *UnitService) totalCost(baseCost int64) int64 {
	return baseCost + baseCost*s.markupPercent/100
}
