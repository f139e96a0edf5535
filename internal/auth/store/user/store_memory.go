package user

import (
	"context"
	"strings"
	"sync"

	"nirvachan/internal/auth/models"
	"nirvachan/pkg/platform/sentinel"
)

// InMemory keeps users in process memory. It mirrors the postgres store's
// constraint behavior (unique email) so service tests exercise the same
// conflict paths.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[int64]models.User)}
}

func (s *InMemory) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return sentinel.ErrConflict
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return models.User{}, sentinel.ErrNotFound
}

func (s *InMemory) FindByEmailAndRole(_ context.Context, email, role string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.Role == role {
			return u, nil
		}
	}
	return models.User{}, sentinel.ErrNotFound
}
