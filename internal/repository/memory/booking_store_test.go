package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingBooking(t *testing.T, store *BookingStore) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		Reference:   "ref-1",
		UserID:      1,
		UnitID:      1,
		RequestDate: time.Now().UTC(),
		Type:        domain.BookingTypeCheckIn,
		Charge:      50000,
		UserNote:    "first booking",
	}
	require.NoError(t, store.Create(context.Background(), b))
	return b
}

func TestBookingStore_Create(t *testing.T) {
	store := NewBookingStore()
	b := newPendingBooking(t, store)

	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, domain.BookingStatusPending, b.Status)

	loaded, err := store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Charge, loaded.Charge)
}

func TestBookingStore_Transition_MonotonicStatus(t *testing.T) {
	store := NewBookingStore()
	b := newPendingBooking(t, store)

	paid := time.Now().UTC()
	method := domain.PaymentMethodCard
	updated, err := store.Transition(context.Background(), b.ID, domain.BookingStatusCompleted, domain.AdminDecision{
		PaymentDate:   &paid,
		PaymentMethod: &method,
		AdminNote:     "payment confirmed",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, updated.Status)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, domain.PaymentMethodCard, *updated.PaymentMethod)
	assert.Equal(t, "payment confirmed", updated.AdminNote)

	// already terminal, any further decision must fail
	_, err = store.Transition(context.Background(), b.ID, domain.BookingStatusRejected, domain.AdminDecision{AdminNote: "too late"})
	var ste *domain.StateTransitionError
	require.ErrorAs(t, err, &ste)
	assert.Equal(t, string(domain.BookingStatusCompleted), ste.From)
}

func TestBookingStore_Transition_RejectsNonTerminalTarget(t *testing.T) {
	store := NewBookingStore()
	b := newPendingBooking(t, store)

	_, err := store.Transition(context.Background(), b.ID, domain.BookingStatusPending, domain.AdminDecision{})
	var ste *domain.StateTransitionError
	assert.ErrorAs(t, err, &ste)
}

func TestBookingStore_Transition_NotFound(t *testing.T) {
	store := NewBookingStore()
	_, err := store.Transition(context.Background(), 42, domain.BookingStatusRejected, domain.AdminDecision{})
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestBookingStore_ListPendingBefore(t *testing.T) {
	store := NewBookingStore()

	old := &domain.Booking{Reference: "old", UserID: 1, UnitID: 1, RequestDate: time.Now().UTC().AddDate(0, 0, -10), Type: domain.BookingTypeCheckIn}
	recent := &domain.Booking{Reference: "recent", UserID: 2, UnitID: 2, RequestDate: time.Now().UTC(), Type: domain.BookingTypeCheckIn}
	require.NoError(t, store.Create(context.Background(), old))
	require.NoError(t, store.Create(context.Background(), recent))

	stale, err := store.ListPendingBefore(context.Background(), time.Now().UTC().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].Reference)
}
