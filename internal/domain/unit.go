package domain

import "time"

type UnitSize string

const (
	UnitSizeS UnitSize = "S"
	UnitSizeM UnitSize = "M"
	UnitSizeL UnitSize = "L"
)

// ParseUnitSize maps the persisted symbolic name back to a UnitSize.
// The persisted form is the name itself, so reordering the constants
// never changes stored data.
func ParseUnitSize(s string) (UnitSize, bool) {
	switch UnitSize(s) {
	case UnitSizeS, UnitSizeM, UnitSizeL:
		return UnitSize(s), true
	}
	return "", false
}

type UnitStatus string

const (
	UnitStatusAvailable       UnitStatus = "AVAILABLE"
	UnitStatusPendingCheckIn  UnitStatus = "PENDING_CHECK_IN"
	UnitStatusInUse           UnitStatus = "IN_USE"
	UnitStatusPendingCheckOut UnitStatus = "PENDING_CHECK_OUT"
	UnitStatusInTrouble       UnitStatus = "IN_TROUBLE"
)

// Unit is a single leasable storage cabinet inside a house.
//
// UserID, StartDate and EndDate are set exactly while the unit is in
// one of the occupied states (PENDING_CHECK_IN, IN_USE,
// PENDING_CHECK_OUT) and nil otherwise. Version grows on every status
// change and serializes concurrent writers.
type Unit struct {
	ID        int64
	HouseID   int64
	UserID    *int64
	Size      UnitSize
	Status    UnitStatus
	StartDate *time.Time
	EndDate   *time.Time
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Occupied reports whether the unit is bound to an occupant.
func (u *Unit) Occupied() bool {
	switch u.Status {
	case UnitStatusPendingCheckIn, UnitStatusInUse, UnitStatusPendingCheckOut:
		return true
	}
	return false
}
