package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusRejected  BookingStatus = "REJECTED"
)

// Terminal reports whether the status can never change again.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusRejected
}

type BookingType string

const (
	BookingTypeCheckIn  BookingType = "CHECK_IN"
	BookingTypeCheckOut BookingType = "CHECK_OUT"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodVaporPay PaymentMethod = "VAPORPAY"
	PaymentMethodBitCoin  PaymentMethod = "BITCOIN"
)

// ParsePaymentMethod maps the persisted symbolic name back to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(s) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodVaporPay, PaymentMethodBitCoin:
		return PaymentMethod(s), true
	}
	return "", false
}

// Booking is one reservation request and its outcome. Bookings are an
// append-only audit trail: a record is created PENDING and moves
// exactly once to COMPLETED or REJECTED, after which it is immutable.
type Booking struct {
	ID            int64
	Reference     string // uuid, used as the event key
	UserID        int64
	UnitID        int64
	RequestDate   time.Time
	Type          BookingType
	Charge        int64
	PaymentDate   *time.Time
	PaymentMethod *PaymentMethod
	Status        BookingStatus
	UserNote      string
	AdminNote     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AdminDecision carries the fields an administrator supplies when
// completing or rejecting a booking.
type AdminDecision struct {
	PaymentDate   *time.Time
	PaymentMethod *PaymentMethod
	AdminNote     string
}

// Booking duration bounds in days.
const (
	MinDurationDays = 28
	MaxDurationDays = 3650
)
