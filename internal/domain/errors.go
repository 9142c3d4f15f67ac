package domain

import "fmt"

// NotFoundError reports a missing User, House, Unit or Booking.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NoAvailableUnitError is returned when a house has no available unit
// of the requested size left.
type NoAvailableUnitError struct {
	HouseID int64
	Size    UnitSize
}

func (e *NoAvailableUnitError) Error() string {
	return fmt.Sprintf("house %d has no available unit of size %s", e.HouseID, e.Size)
}

// InvalidDurationError reports a booking duration outside [MinDurationDays, MaxDurationDays].
type InvalidDurationError struct {
	Days int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("duration %d days is outside the allowed range [%d, %d]", e.Days, MinDurationDays, MaxDurationDays)
}

// StateTransitionError reports an illegal status change on a booking or
// a unit, carrying the state it was actually in.
type StateTransitionError struct {
	Entity string
	ID     int64
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s %d cannot go from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// DataIntegrityError reports a booking referencing a unit that no longer
// exists. It is an internal fault and is never retried.
type DataIntegrityError struct {
	BookingID int64
	UnitID    int64
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("booking %d references missing unit %d", e.BookingID, e.UnitID)
}
