package memory

import (
	"context"
	"sync"

	"github.com/resolvenow/complaint-service/internal/domain"
	"github.com/resolvenow/complaint-service/internal/repository"
)

// UserStore keeps accounts in insertion order. Emails match exactly.
type UserStore struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]domain.User
	byEmail map[string]string
}

var _ repository.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return domain.ErrEmailExists
	}
	s.byID[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	s.order = append(s.order, user.ID)
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := s.byID[id]
	return &user, nil
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.byID[id])
	}
	return result, nil
}

func (s *UserStore) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.User{}
	for _, id := range s.order {
		if user := s.byID[id]; user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}
