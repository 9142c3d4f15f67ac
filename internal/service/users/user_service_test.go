package users

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/mataju/internal/auth"
	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTokens() *auth.Manager {
	return auth.NewManager("test-secret", time.Hour)
}

// Тест: регистрация - пароль хэшируется, роль user
func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, newTokens())

	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil).Once()

	user, err := service.Register(ctx, RegisterInput{Name: "alice", Password: "secret123", Nickname: "Alice"})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, domain.RoleUser, user.Roles)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, auth.CheckPassword("secret123", user.PasswordHash))

	mockRepo.AssertExpectations(t)
}

// Тест: регистрация - имя занято
func TestUserService_Register_NameTaken(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, newTokens())

	ctx := context.Background()
	mockRepo.On("Create", ctx, mock.Anything).Return(repository.ErrNameTaken).Once()

	user, err := service.Register(ctx, RegisterInput{Name: "alice", Password: "secret123"})

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, repository.ErrNameTaken)
}

// Тест: логин - успешный сценарий
func TestUserService_Login_Success(t *testing.T) {
	mockRepo := &MockUserRepository{}
	tokens := newTokens()
	service := NewUserService(mockRepo, tokens)

	ctx := context.Background()
	hash, err := auth.HashPassword("secret123")
	assert.NoError(t, err)

	stored := &domain.User{ID: 7, Name: "alice", PasswordHash: hash, Nickname: "Alice", Roles: "user"}
	mockRepo.On("GetByName", ctx, "alice").Return(stored, nil).Once()

	result, err := service.Login(ctx, "alice", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, stored, result.User)

	userID, claims, err := tokens.ParseToken(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, "Alice", claims.Nickname)
}

// Тест: логин - неверный пароль
func TestUserService_Login_WrongPassword(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, newTokens())

	ctx := context.Background()
	hash, _ := auth.HashPassword("secret123")
	stored := &domain.User{ID: 7, Name: "alice", PasswordHash: hash}
	mockRepo.On("GetByName", ctx, "alice").Return(stored, nil).Once()

	result, err := service.Login(ctx, "alice", "wrong")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// Тест: логин - пользователь не существует
func TestUserService_Login_UnknownUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo, newTokens())

	ctx := context.Background()
	mockRepo.On("GetByName", ctx, "ghost").Return(nil, nil).Once()

	result, err := service.Login(ctx, "ghost", "whatever")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
