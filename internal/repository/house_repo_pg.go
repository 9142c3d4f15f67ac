package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HouseRepository interface {
	List(ctx context.Context) ([]domain.House, error)
	GetByID(ctx context.Context, id int64) (*domain.House, error)
	CreateBatch(ctx context.Context, houses []domain.House) ([]domain.House, error)
	Count(ctx context.Context) (int64, error)
}

type PGHouseRepository struct {
	db *pgxpool.Pool
}

func NewHouseRepository(db *pgxpool.Pool) HouseRepository {
	return &PGHouseRepository{db: db}
}

const houseColumns = `id, address, province, price_s, price_m, price_l, created_at, updated_at`

func scanHouse(row pgx.Row) (*domain.House, error) {
	var h domain.House
	if err := row.Scan(&h.ID, &h.Address, &h.Province, &h.PriceS, &h.PriceM, &h.PriceL, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PGHouseRepository) List(ctx context.Context) ([]domain.House, error) {
	rows, err := r.db.Query(ctx, `SELECT `+houseColumns+` FROM houses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	houses := make([]domain.House, 0)
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			return nil, err
		}
		houses = append(houses, *h)
	}
	return houses, rows.Err()
}

func (r *PGHouseRepository) GetByID(ctx context.Context, id int64) (*domain.House, error) {
	row := r.db.QueryRow(ctx, `SELECT `+houseColumns+` FROM houses WHERE id=$1`, id)
	h, err := scanHouse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "house", ID: id}
	}
	return h, err
}

func (r *PGHouseRepository) CreateBatch(ctx context.Context, houses []domain.House) ([]domain.House, error) {
	created := make([]domain.House, 0, len(houses))
	for _, h := range houses {
		row := r.db.QueryRow(ctx, `
			INSERT INTO houses (address, province, price_s, price_m, price_l)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+houseColumns,
			h.Address, h.Province, h.PriceS, h.PriceM, h.PriceL)
		out, err := scanHouse(row)
		if err != nil {
			return nil, err
		}
		created = append(created, *out)
	}
	return created, nil
}

func (r *PGHouseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM houses`).Scan(&n)
	return n, err
}

var _ HouseRepository = (*PGHouseRepository)(nil)
