package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitRepository is the inventory store. FindAndReserve is the single
// atomic claim primitive: concurrent callers can never both move the
// same unit out of AVAILABLE.
type UnitRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Unit, error)
	ListByHouse(ctx context.Context, houseID int64) ([]domain.Unit, error)
	FindAndReserve(ctx context.Context, houseID int64, size domain.UnitSize, userID int64, start, end time.Time) (*domain.Unit, error)
	Release(ctx context.Context, unitID int64) error
	Activate(ctx context.Context, unitID int64) error
	MarkPendingCheckOut(ctx context.Context, unitID, userID int64) error
	ResumeUse(ctx context.Context, unitID int64) error
	CreateBatch(ctx context.Context, units []domain.Unit) error
	CountByHouse(ctx context.Context, houseID int64) (int64, error)
}

type PGUnitRepository struct {
	db *pgxpool.Pool
}

func NewUnitRepository(db *pgxpool.Pool) UnitRepository {
	return &PGUnitRepository{db: db}
}

const unitColumns = `id, house_id, user_id, size, status, start_date, end_date, version, created_at, updated_at`

func scanUnit(row pgx.Row) (*domain.Unit, error) {
	var u domain.Unit
	var size, status string
	if err := row.Scan(&u.ID, &u.HouseID, &u.UserID, &size, &status, &u.StartDate, &u.EndDate, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Size = domain.UnitSize(size)
	u.Status = domain.UnitStatus(status)
	return &u, nil
}

func (r *PGUnitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	row := r.db.QueryRow(ctx, `SELECT `+unitColumns+` FROM units WHERE id=$1`, id)
	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "unit", ID: id}
	}
	return u, err
}

func (r *PGUnitRepository) ListByHouse(ctx context.Context, houseID int64) ([]domain.Unit, error) {
	rows, err := r.db.Query(ctx, `SELECT `+unitColumns+` FROM units WHERE house_id=$1 ORDER BY id`, houseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]domain.Unit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

// FindAndReserve claims the lowest-id available unit of the given size.
// SKIP LOCKED makes a losing racer move on to the next candidate instead
// of blocking or failing, so only true exhaustion surfaces as
// NoAvailableUnitError.
func (r *PGUnitRepository) FindAndReserve(ctx context.Context, houseID int64, size domain.UnitSize, userID int64, start, end time.Time) (*domain.Unit, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE units
		SET status=$1, user_id=$2, start_date=$3, end_date=$4, version=version+1, updated_at=now()
		WHERE id = (
			SELECT id FROM units
			WHERE house_id=$5 AND size=$6 AND status=$7
			ORDER BY id
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+unitColumns,
		string(domain.UnitStatusPendingCheckIn), userID, start, end,
		houseID, string(size), string(domain.UnitStatusAvailable))
	u, err := scanUnit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NoAvailableUnitError{HouseID: houseID, Size: size}
	}
	return u, err
}

func (r *PGUnitRepository) Release(ctx context.Context, unitID int64) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE units
		SET status=$1, user_id=NULL, start_date=NULL, end_date=NULL, version=version+1, updated_at=now()
		WHERE id=$2`,
		string(domain.UnitStatusAvailable), unitID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "unit", ID: unitID}
	}
	return nil
}

func (r *PGUnitRepository) Activate(ctx context.Context, unitID int64) error {
	return r.transition(ctx, unitID, domain.UnitStatusPendingCheckIn, domain.UnitStatusInUse, nil)
}

func (r *PGUnitRepository) MarkPendingCheckOut(ctx context.Context, unitID, userID int64) error {
	return r.transition(ctx, unitID, domain.UnitStatusInUse, domain.UnitStatusPendingCheckOut, &userID)
}

func (r *PGUnitRepository) ResumeUse(ctx context.Context, unitID int64) error {
	return r.transition(ctx, unitID, domain.UnitStatusPendingCheckOut, domain.UnitStatusInUse, nil)
}

// transition is a compare-and-set on the unit status. When occupant is
// non-nil the current occupant must match as well.
func (r *PGUnitRepository) transition(ctx context.Context, unitID int64, from, to domain.UnitStatus, occupant *int64) error {
	if occupant != nil {
		cmd, err := r.db.Exec(ctx, `
			UPDATE units SET status=$1, version=version+1, updated_at=now()
			WHERE id=$2 AND status=$3 AND user_id=$4`,
			string(to), unitID, string(from), *occupant)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() > 0 {
			return nil
		}
	} else {
		cmd, err := r.db.Exec(ctx, `
			UPDATE units SET status=$1, version=version+1, updated_at=now()
			WHERE id=$2 AND status=$3`,
			string(to), unitID, string(from))
		if err != nil {
			return err
		}
		if cmd.RowsAffected() > 0 {
			return nil
		}
	}

	current, err := r.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	return &domain.StateTransitionError{Entity: "unit", ID: unitID, From: string(current.Status), To: string(to)}
}

func (r *PGUnitRepository) CreateBatch(ctx context.Context, units []domain.Unit) error {
	if len(units) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, u := range units {
		batch.Queue(`INSERT INTO units (house_id, size, status, version) VALUES ($1, $2, $3, 0)`,
			u.HouseID, string(u.Size), string(u.Status))
	}
	return r.db.SendBatch(ctx, batch).Close()
}

func (r *PGUnitRepository) CountByHouse(ctx context.Context, houseID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM units WHERE house_id=$1`, houseID).Scan(&n)
	return n, err
}

var _ UnitRepository = (*PGUnitRepository)(nil)
