package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNameTaken is returned by Create when the user name already exists.
var ErrNameTaken = errors.New("user name already taken")

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, name, password_hash, nickname, roles, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Nickname, &u.Roles, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "user", ID: id}
	}
	return u, err
}

func (r *PGUserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE name=$1`, name)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	existing, err := r.GetByName(ctx, user.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrNameTaken
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO users (name, password_hash, nickname, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		user.Name, user.PasswordHash, user.Nickname, user.Roles).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

var _ UserRepository = (*PGUserRepository)(nil)
