package users

import (
	"context"
	"errors"

	"github.com/Domenick1991/mataju/internal/auth"
	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid name or password")

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, name, password string) (*LoginResult, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type RegisterInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type LoginResult struct {
	User  *domain.User
	Token string
}

type UserService struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

func NewUserService(users repository.UserRepository, tokens *auth.Manager) *UserService {
	return &UserService{users: users, tokens: tokens}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         input.Name,
		PasswordHash: hash,
		Nickname:     input.Nickname,
		Roles:        domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

var _ UserUseCase = (*UserService)(nil)
