package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository is the booking ledger. Records are append-only:
// Transition is the only mutation and is guarded so a booking leaves
// PENDING exactly once.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, target domain.BookingStatus, decision domain.AdminDecision) (*domain.Booking, error)
	ListPending(ctx context.Context) ([]domain.Booking, error)
	ListPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, user_id, unit_id, request_date, type, charge, payment_date, payment_method, status, user_note, admin_note, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var typ, status string
	var method *string
	if err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.UnitID, &b.RequestDate, &typ, &b.Charge,
		&b.PaymentDate, &method, &status, &b.UserNote, &b.AdminNote, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Type = domain.BookingType(typ)
	b.Status = domain.BookingStatus(status)
	if method != nil {
		m := domain.PaymentMethod(*method)
		b.PaymentMethod = &m
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	var method *string
	if booking.PaymentMethod != nil {
		s := string(*booking.PaymentMethod)
		method = &s
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO bookings (reference, user_id, unit_id, request_date, type, charge, payment_date, payment_method, status, user_note, admin_note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.UserID, booking.UnitID, booking.RequestDate, string(booking.Type),
		booking.Charge, booking.PaymentDate, method, string(booking.Status), booking.UserNote, booking.AdminNote).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "booking", ID: id}
	}
	return b, err
}

// Transition flips a PENDING booking to a terminal status and merges the
// admin-supplied fields. The status guard is part of the statement, so a
// concurrent second decision loses and gets a StateTransitionError.
func (r *PGBookingRepository) Transition(ctx context.Context, id int64, target domain.BookingStatus, decision domain.AdminDecision) (*domain.Booking, error) {
	if !target.Terminal() {
		return nil, &domain.StateTransitionError{Entity: "booking", ID: id, From: string(domain.BookingStatusPending), To: string(target)}
	}

	var method *string
	if decision.PaymentMethod != nil {
		s := string(*decision.PaymentMethod)
		method = &s
	}
	row := r.db.QueryRow(ctx, `
		UPDATE bookings
		SET status=$1,
		    payment_date=COALESCE($2, payment_date),
		    payment_method=COALESCE($3, payment_method),
		    admin_note=$4,
		    updated_at=now()
		WHERE id=$5 AND status=$6
		RETURNING `+bookingColumns,
		string(target), decision.PaymentDate, method, decision.AdminNote,
		id, string(domain.BookingStatusPending))
	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, &domain.StateTransitionError{Entity: "booking", ID: id, From: string(current.Status), To: string(target)}
}

func (r *PGBookingRepository) ListPending(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 ORDER BY request_date`,
		string(domain.BookingStatusPending))
}

func (r *PGBookingRepository) ListPendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND request_date <= $2 ORDER BY request_date`,
		string(domain.BookingStatusPending), deadline)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
