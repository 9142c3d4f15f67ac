// Package memory holds in-memory implementations of the repository
// interfaces. They back the no-database mode and the concurrency tests;
// all mutation of a unit goes through a compare-and-set keyed by id and
// version, so concurrent reservers are serialized correctly.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

type UnitStore struct {
	mu     sync.RWMutex
	units  map[int64]*domain.Unit
	nextID int64
}

func NewUnitStore() *UnitStore {
	return &UnitStore{units: make(map[int64]*domain.Unit), nextID: 1}
}

func (s *UnitStore) GetByID(_ context.Context, id int64) (*domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.units[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "unit", ID: id}
	}
	cp := *u
	return &cp, nil
}

func (s *UnitStore) ListByHouse(_ context.Context, houseID int64) ([]domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	units := make([]domain.Unit, 0)
	for _, u := range s.units {
		if u.HouseID == houseID {
			units = append(units, *u)
		}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

// FindAndReserve claims the lowest-id AVAILABLE unit of the requested
// size. Candidates are snapshotted with their versions, then claimed one
// by one with a compare-and-set; a caller that loses a race moves on to
// the next candidate instead of failing, and NoAvailableUnitError is
// returned only when every candidate is gone.
func (s *UnitStore) FindAndReserve(_ context.Context, houseID int64, size domain.UnitSize, userID int64, start, end time.Time) (*domain.Unit, error) {
	type candidate struct {
		id      int64
		version int64
	}

	s.mu.RLock()
	candidates := make([]candidate, 0)
	for _, u := range s.units {
		if u.HouseID == houseID && u.Size == size && u.Status == domain.UnitStatusAvailable {
			candidates = append(candidates, candidate{id: u.ID, version: u.Version})
		}
	}
	s.mu.RUnlock()
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].id < candidates[j].id })

	for _, c := range candidates {
		claimed := s.compareAndSwap(c.id, domain.UnitStatusAvailable, c.version, func(u *domain.Unit) {
			uid := userID
			sd, ed := start, end
			u.Status = domain.UnitStatusPendingCheckIn
			u.UserID = &uid
			u.StartDate = &sd
			u.EndDate = &ed
		})
		if claimed != nil {
			return claimed, nil
		}
	}
	return nil, &domain.NoAvailableUnitError{HouseID: houseID, Size: size}
}

// compareAndSwap applies mutate to the unit only if it still has the
// expected status and version, bumping the version. Returns nil when
// the unit is gone or the check fails.
func (s *UnitStore) compareAndSwap(id int64, expect domain.UnitStatus, version int64, mutate func(*domain.Unit)) *domain.Unit {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[id]
	if !ok || u.Status != expect || u.Version != version {
		return nil
	}
	mutate(u)
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp
}

func (s *UnitStore) Release(_ context.Context, unitID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return &domain.NotFoundError{Kind: "unit", ID: unitID}
	}
	u.Status = domain.UnitStatusAvailable
	u.UserID = nil
	u.StartDate = nil
	u.EndDate = nil
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *UnitStore) Activate(ctx context.Context, unitID int64) error {
	return s.transition(ctx, unitID, domain.UnitStatusPendingCheckIn, domain.UnitStatusInUse, nil)
}

func (s *UnitStore) MarkPendingCheckOut(ctx context.Context, unitID, userID int64) error {
	return s.transition(ctx, unitID, domain.UnitStatusInUse, domain.UnitStatusPendingCheckOut, &userID)
}

func (s *UnitStore) ResumeUse(ctx context.Context, unitID int64) error {
	return s.transition(ctx, unitID, domain.UnitStatusPendingCheckOut, domain.UnitStatusInUse, nil)
}

func (s *UnitStore) transition(_ context.Context, unitID int64, from, to domain.UnitStatus, occupant *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.units[unitID]
	if !ok {
		return &domain.NotFoundError{Kind: "unit", ID: unitID}
	}
	if u.Status != from || (occupant != nil && (u.UserID == nil || *u.UserID != *occupant)) {
		return &domain.StateTransitionError{Entity: "unit", ID: unitID, From: string(u.Status), To: string(to)}
	}
	u.Status = to
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *UnitStore) CreateBatch(_ context.Context, units []domain.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, u := range units {
		cp := u
		cp.ID = s.nextID
		s.nextID++
		cp.Version = 0
		cp.CreatedAt = now
		cp.UpdatedAt = now
		s.units[cp.ID] = &cp
	}
	return nil
}

func (s *UnitStore) CountByHouse(_ context.Context, houseID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, u := range s.units {
		if u.HouseID == houseID {
			n++
		}
	}
	return n, nil
}

var _ repository.UnitRepository = (*UnitStore)(nil)
