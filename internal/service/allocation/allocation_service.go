package allocation

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/kafka"
	"github.com/Domenick1991/mataju/internal/pricing"
	"github.com/Domenick1991/mataju/internal/repository"
	"github.com/google/uuid"
)

type AllocationUseCase interface {
	RequestBooking(ctx context.Context, input RequestBookingInput) (*BookingResult, error)
	RequestCheckOut(ctx context.Context, input RequestCheckOutInput) (*BookingResult, error)
	ApproveBooking(ctx context.Context, bookingID int64, decision domain.AdminDecision) (*domain.Booking, error)
	RejectBooking(ctx context.Context, bookingID int64, adminNote string) (*domain.Booking, error)
	GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListPendingBookings(ctx context.Context) ([]domain.Booking, error)
	ListStalePending(ctx context.Context, olderThan time.Duration) ([]domain.Booking, error)
}

// Cache invalidates cached unit listings after a unit changes state.
type Cache interface {
	InvalidateUnits(ctx context.Context, houseID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type AllocationService struct {
	bookings           repository.BookingRepository
	units              repository.UnitRepository
	houses             repository.HouseRepository
	users              repository.UserRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
}

type RequestBookingInput struct {
	UserID    int64           `json:"user_id"`
	HouseID   int64           `json:"house_id"`
	Size      domain.UnitSize `json:"unit_size"`
	StartDate time.Time       `json:"start_date"`
	Days      int             `json:"duration_days"`
	UserNote  string          `json:"user_note"`
}

type RequestCheckOutInput struct {
	UserID   int64  `json:"user_id"`
	UnitID   int64  `json:"unit_id"`
	UserNote string `json:"user_note"`
}

// BookingResult is the created booking together with the charge the
// requester will owe once the booking is approved.
type BookingResult struct {
	Booking *domain.Booking
	Charge  int64
}

type AllocationServiceOption func(*AllocationService)

func WithNotificationsTopic(topic string) AllocationServiceOption {
	return func(s *AllocationService) {
		s.notificationsTopic = topic
	}
}

func NewAllocationService(
	bookings repository.BookingRepository,
	units repository.UnitRepository,
	houses repository.HouseRepository,
	users repository.UserRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	opts ...AllocationServiceOption,
) *AllocationService {
	service := &AllocationService{
		bookings:     bookings,
		units:        units,
		houses:       houses,
		users:        users,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// RequestBooking reserves one available unit and opens a PENDING
// check-in booking for it. Reservation and ledger record form a
// two-step saga: the unit is claimed first because it is the scarce
// resource, and if the ledger create fails the claim is compensated by
// releasing the unit before the error is returned.
func (s *AllocationService) RequestBooking(ctx context.Context, input RequestBookingInput) (*BookingResult, error) {
	if input.Days < domain.MinDurationDays || input.Days > domain.MaxDurationDays {
		return nil, &domain.InvalidDurationError{Days: input.Days}
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	house, err := s.houses.GetByID(ctx, input.HouseID)
	if err != nil {
		return nil, err
	}
	basePrice, err := house.PriceFor(input.Size)
	if err != nil {
		return nil, err
	}

	endDate := input.StartDate.AddDate(0, 0, input.Days)
	unit, err := s.units.FindAndReserve(ctx, input.HouseID, input.Size, input.UserID, input.StartDate, endDate)
	if err != nil {
		return nil, err
	}

	charge := pricing.CalculateCharge(basePrice, input.Days)
	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		UserID:      input.UserID,
		UnitID:      unit.ID,
		RequestDate: time.Now().UTC(),
		Type:        domain.BookingTypeCheckIn,
		Charge:      charge,
		Status:      domain.BookingStatusPending,
		UserNote:    input.UserNote,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// компенсация: the reservation must not outlive the failed ledger write
		if releaseErr := s.units.Release(ctx, unit.ID); releaseErr != nil {
			log.Printf("WARNING: failed to release unit %d after ledger error: %v", unit.ID, releaseErr)
		}
		return nil, err
	}

	s.invalidateUnits(ctx, unit.HouseID)
	s.publish(ctx, "booking_requested", booking)
	return &BookingResult{Booking: booking, Charge: charge}, nil
}

// RequestCheckOut opens a PENDING check-out booking for a unit the
// caller currently occupies. Same state-machine shape as check-in:
// the unit is flipped first, the ledger record follows, with a
// compensating ResumeUse if the ledger write fails.
func (s *AllocationService) RequestCheckOut(ctx context.Context, input RequestCheckOutInput) (*BookingResult, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	unit, err := s.units.GetByID(ctx, input.UnitID)
	if err != nil {
		return nil, err
	}
	if err := s.units.MarkPendingCheckOut(ctx, input.UnitID, input.UserID); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:   uuid.NewString(),
		UserID:      input.UserID,
		UnitID:      input.UnitID,
		RequestDate: time.Now().UTC(),
		Type:        domain.BookingTypeCheckOut,
		Charge:      0,
		Status:      domain.BookingStatusPending,
		UserNote:    input.UserNote,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		if resumeErr := s.units.ResumeUse(ctx, input.UnitID); resumeErr != nil {
			log.Printf("WARNING: failed to resume unit %d after ledger error: %v", input.UnitID, resumeErr)
		}
		return nil, err
	}

	s.invalidateUnits(ctx, unit.HouseID)
	s.publish(ctx, "checkout_requested", booking)
	return &BookingResult{Booking: booking}, nil
}

// ApproveBooking completes a PENDING booking and syncs the unit. The
// ledger transition commits first; if the unit is no longer in the
// expected pending state the sync is skipped and logged instead of
// blocking the admin decision.
func (s *AllocationService) ApproveBooking(ctx context.Context, bookingID int64, decision domain.AdminDecision) (*domain.Booking, error) {
	booking, unit, err := s.loadDecisionPair(ctx, bookingID, domain.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.Transition(ctx, bookingID, domain.BookingStatusCompleted, decision)
	if err != nil {
		return nil, err
	}

	switch booking.Type {
	case domain.BookingTypeCheckIn:
		s.syncUnit(ctx, unit, domain.UnitStatusPendingCheckIn, func() error { return s.units.Activate(ctx, unit.ID) })
	case domain.BookingTypeCheckOut:
		s.syncUnit(ctx, unit, domain.UnitStatusPendingCheckOut, func() error { return s.units.Release(ctx, unit.ID) })
	}

	s.invalidateUnits(ctx, unit.HouseID)
	s.publish(ctx, "booking_approved", updated)
	return updated, nil
}

// RejectBooking rejects a PENDING booking and returns the unit to the
// state the request took it out of.
func (s *AllocationService) RejectBooking(ctx context.Context, bookingID int64, adminNote string) (*domain.Booking, error) {
	booking, unit, err := s.loadDecisionPair(ctx, bookingID, domain.BookingStatusRejected)
	if err != nil {
		return nil, err
	}

	updated, err := s.bookings.Transition(ctx, bookingID, domain.BookingStatusRejected, domain.AdminDecision{AdminNote: adminNote})
	if err != nil {
		return nil, err
	}

	switch booking.Type {
	case domain.BookingTypeCheckIn:
		s.syncUnit(ctx, unit, domain.UnitStatusPendingCheckIn, func() error { return s.units.Release(ctx, unit.ID) })
	case domain.BookingTypeCheckOut:
		s.syncUnit(ctx, unit, domain.UnitStatusPendingCheckOut, func() error { return s.units.ResumeUse(ctx, unit.ID) })
	}

	s.invalidateUnits(ctx, unit.HouseID)
	s.publish(ctx, "booking_rejected", updated)
	return updated, nil
}

func (s *AllocationService) GetBookingByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *AllocationService) ListPendingBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListPending(ctx)
}

// ListStalePending returns PENDING bookings older than the given age,
// for operator attention. Nothing is mutated.
func (s *AllocationService) ListStalePending(ctx context.Context, olderThan time.Duration) ([]domain.Booking, error) {
	return s.bookings.ListPendingBefore(ctx, time.Now().UTC().Add(-olderThan))
}

// loadDecisionPair loads the booking and its unit for an admin
// decision. A PENDING booking whose unit is gone is a data-integrity
// fault: fatal, logged, never retried.
func (s *AllocationService) loadDecisionPair(ctx context.Context, bookingID int64, target domain.BookingStatus) (*domain.Booking, *domain.Unit, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, nil, &domain.StateTransitionError{
			Entity: "booking", ID: bookingID,
			From: string(booking.Status), To: string(target),
		}
	}

	unit, err := s.units.GetByID(ctx, booking.UnitID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			fault := &domain.DataIntegrityError{BookingID: bookingID, UnitID: booking.UnitID}
			log.Printf("FATAL: %v", fault)
			return nil, nil, fault
		}
		return nil, nil, err
	}
	return booking, unit, nil
}

// syncUnit runs the unit-side transition only when the unit is still in
// the state the booking left it in. Any other state is an anomaly from
// an earlier inconsistent write; it is surfaced as a warning and the
// booking-side decision stands.
func (s *AllocationService) syncUnit(ctx context.Context, unit *domain.Unit, expected domain.UnitStatus, apply func() error) {
	if unit.Status != expected {
		log.Printf("WARNING: unit %d is %s, expected %s; skipping unit sync", unit.ID, unit.Status, expected)
		return
	}
	if err := apply(); err != nil {
		log.Printf("WARNING: unit %d sync failed: %v", unit.ID, err)
	}
}

func (s *AllocationService) invalidateUnits(ctx context.Context, houseID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUnits(ctx, houseID)
	}
}

func (s *AllocationService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		Reference:   booking.Reference,
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		UnitID:      booking.UnitID,
		BookingType: string(booking.Type),
		Charge:      booking.Charge,
		Status:      string(booking.Status),
		RequestDate: booking.RequestDate,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.Reference, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.Reference, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			log.Printf("WARNING: failed to publish notification for booking %s: %v", booking.Reference, err)
		}
	}
}

var _ AllocationUseCase = (*AllocationService)(nil)
