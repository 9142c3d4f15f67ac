package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

type BookingStore struct {
	mu       sync.RWMutex
	bookings map[int64]*domain.Booking
	nextID   int64

	// createErr, when set, makes the next Create fail. Used by tests to
	// exercise the reservation rollback path.
	createErr error
}

func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[int64]*domain.Booking), nextID: 1}
}

// FailNextCreate makes the next Create call return err.
func (s *BookingStore) FailNextCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createErr = err
}

func (s *BookingStore) Create(_ context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		err := s.createErr
		s.createErr = nil
		return err
	}
	now := time.Now().UTC()
	booking.ID = s.nextID
	s.nextID++
	booking.Status = domain.BookingStatusPending
	booking.CreatedAt = now
	booking.UpdatedAt = now
	cp := *booking
	s.bookings[cp.ID] = &cp
	return nil
}

func (s *BookingStore) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "booking", ID: id}
	}
	cp := *b
	return &cp, nil
}

func (s *BookingStore) Transition(_ context.Context, id int64, target domain.BookingStatus, decision domain.AdminDecision) (*domain.Booking, error) {
	if !target.Terminal() {
		return nil, &domain.StateTransitionError{Entity: "booking", ID: id, From: string(domain.BookingStatusPending), To: string(target)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "booking", ID: id}
	}
	if b.Status != domain.BookingStatusPending {
		return nil, &domain.StateTransitionError{Entity: "booking", ID: id, From: string(b.Status), To: string(target)}
	}
	b.Status = target
	if decision.PaymentDate != nil {
		b.PaymentDate = decision.PaymentDate
	}
	if decision.PaymentMethod != nil {
		b.PaymentMethod = decision.PaymentMethod
	}
	b.AdminNote = decision.AdminNote
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (s *BookingStore) ListPending(ctx context.Context) ([]domain.Booking, error) {
	return s.listPending(func(*domain.Booking) bool { return true })
}

func (s *BookingStore) ListPendingBefore(_ context.Context, deadline time.Time) ([]domain.Booking, error) {
	return s.listPending(func(b *domain.Booking) bool { return !b.RequestDate.After(deadline) })
}

func (s *BookingStore) listPending(keep func(*domain.Booking) bool) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bookings := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.Status == domain.BookingStatusPending && keep(b) {
			bookings = append(bookings, *b)
		}
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].RequestDate.Before(bookings[j].RequestDate) })
	return bookings, nil
}

var _ repository.BookingRepository = (*BookingStore)(nil)
