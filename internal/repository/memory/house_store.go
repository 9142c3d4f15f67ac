package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

type HouseStore struct {
	mu     sync.RWMutex
	houses map[int64]*domain.House
	nextID int64
}

func NewHouseStore() *HouseStore {
	return &HouseStore{houses: make(map[int64]*domain.House), nextID: 1}
}

func (s *HouseStore) List(_ context.Context) ([]domain.House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	houses := make([]domain.House, 0, len(s.houses))
	for _, h := range s.houses {
		houses = append(houses, *h)
	}
	sort.Slice(houses, func(i, j int) bool { return houses[i].ID < houses[j].ID })
	return houses, nil
}

func (s *HouseStore) GetByID(_ context.Context, id int64) (*domain.House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.houses[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "house", ID: id}
	}
	cp := *h
	return &cp, nil
}

func (s *HouseStore) CreateBatch(_ context.Context, houses []domain.House) ([]domain.House, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	created := make([]domain.House, 0, len(houses))
	for _, h := range houses {
		cp := h
		cp.ID = s.nextID
		s.nextID++
		cp.CreatedAt = now
		cp.UpdatedAt = now
		s.houses[cp.ID] = &cp
		created = append(created, cp)
	}
	return created, nil
}

func (s *HouseStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.houses)), nil
}

var _ repository.HouseRepository = (*HouseStore)(nil)
