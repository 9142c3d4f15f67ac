package catalog

import (
	"context"
	"errors"
	"log"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

type CatalogUseCase interface {
	ListHouses(ctx context.Context) ([]domain.House, error)
	GetHouse(ctx context.Context, id int64) (*domain.House, error)
	ListUnitsByHouse(ctx context.Context, houseID int64) ([]UnitView, error)
	GetUnit(ctx context.Context, id int64) (*UnitView, error)
}

// Cache holds the house list and per-house unit listings.
type Cache interface {
	GetHouses(ctx context.Context) ([]domain.House, error)
	SetHouses(ctx context.Context, houses []domain.House) error
	GetUnits(ctx context.Context, houseID int64) ([]domain.Unit, error)
	SetUnits(ctx context.Context, houseID int64, units []domain.Unit) error
}

// UnitView is a unit annotated with its 30-day price, taken from the
// owning house for the unit's size.
type UnitView struct {
	domain.Unit
	Price int64
}

type CatalogService struct {
	houses repository.HouseRepository
	units  repository.UnitRepository
	cache  Cache
}

func NewCatalogService(houses repository.HouseRepository, units repository.UnitRepository, cache Cache) *CatalogService {
	return &CatalogService{houses: houses, units: units, cache: cache}
}

func (s *CatalogService) ListHouses(ctx context.Context) ([]domain.House, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetHouses(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	houses, err := s.houses.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetHouses(ctx, houses)
	}
	return houses, nil
}

func (s *CatalogService) GetHouse(ctx context.Context, id int64) (*domain.House, error) {
	return s.houses.GetByID(ctx, id)
}

func (s *CatalogService) ListUnitsByHouse(ctx context.Context, houseID int64) ([]UnitView, error) {
	house, err := s.houses.GetByID(ctx, houseID)
	if err != nil {
		return nil, err
	}

	var units []domain.Unit
	if s.cache != nil {
		if cached, err := s.cache.GetUnits(ctx, houseID); err == nil && cached != nil {
			units = cached
		}
	}
	if units == nil {
		units, err = s.units.ListByHouse(ctx, houseID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			_ = s.cache.SetUnits(ctx, houseID, units)
		}
	}

	views := make([]UnitView, 0, len(units))
	for _, u := range units {
		price, err := house.PriceFor(u.Size)
		if err != nil {
			return nil, err
		}
		views = append(views, UnitView{Unit: u, Price: price})
	}
	return views, nil
}

func (s *CatalogService) GetUnit(ctx context.Context, id int64) (*UnitView, error) {
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	house, err := s.houses.GetByID(ctx, unit.HouseID)
	if err != nil {
		// a unit without its house is corrupt data, not a user error
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			fault := &domain.DataIntegrityError{UnitID: unit.ID}
			log.Printf("FATAL: unit %d references missing house %d", unit.ID, unit.HouseID)
			return nil, fault
		}
		return nil, err
	}

	price, err := house.PriceFor(unit.Size)
	if err != nil {
		return nil, err
	}
	return &UnitView{Unit: *unit, Price: price}, nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
