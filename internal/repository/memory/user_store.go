package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

type UserStore struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	byName map[string]int64
	nextID int64
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*domain.User), byName: make(map[string]int64), nextID: 1}
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Kind: "user", ID: id}
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByName(_ context.Context, name string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[user.Name]; taken {
		return repository.ErrNameTaken
	}
	now := time.Now().UTC()
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[cp.ID] = &cp
	s.byName[cp.Name] = cp.ID
	return nil
}

var _ repository.UserRepository = (*UserStore)(nil)
