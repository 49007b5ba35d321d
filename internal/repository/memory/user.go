package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
)

type UserStore struct {
	db *DB
}

func (s *UserStore) Create(_ context.Context, u *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.db.users = append(s.db.users, cloneUser(*u))
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.ID == id {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.Email == email {
			out := cloneUser(u)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *UserStore) List(_ context.Context) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	users := make([]models.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		users = append(users, cloneUser(u))
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (s *UserStore) UpdateTerm(_ context.Context, id uuid.UUID, start, end *time.Time) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.users {
		if s.db.users[i].ID == id {
			s.db.users[i].TermStart = cloneTime(start)
			s.db.users[i].TermEnd = cloneTime(end)
			return true, nil
		}
	}
	return false, nil
}
