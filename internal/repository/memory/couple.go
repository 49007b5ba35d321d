package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
)

type CoupleStore struct {
	db *DB
}

func (s *CoupleStore) List(_ context.Context) ([]models.Couple, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	couples := make([]models.Couple, 0, len(s.db.couples))
	for _, c := range s.db.couples {
		couples = append(couples, cloneCouple(c))
	}
	sort.SliceStable(couples, func(i, j int) bool {
		return couples[i].CreatedAt.After(couples[j].CreatedAt)
	})
	return couples, nil
}

func (s *CoupleStore) GetByID(_ context.Context, id uuid.UUID) (*models.Couple, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, c := range s.db.couples {
		if c.ID == id {
			out := cloneCouple(c)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *CoupleStore) Save(_ context.Context, c *models.Couple) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.emailTaken(c.Email, c.ID) {
		return repository.ErrDuplicateEmail
	}
	for i := range s.db.couples {
		if s.db.couples[i].ID == c.ID {
			s.db.couples[i] = cloneCouple(*c)
			return nil
		}
	}
	s.db.couples = append(s.db.couples, cloneCouple(*c))
	return nil
}

func (s *CoupleStore) TransitionStatus(_ context.Context, id uuid.UUID, from, to models.RegistrationStatus) (models.RegistrationStatus, bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.couples {
		if s.db.couples[i].ID == id {
			prev := s.db.couples[i].Status
			if prev == from {
				s.db.couples[i].Status = to
			}
			return prev, true, nil
		}
	}
	return "", false, nil
}

func (s *CoupleStore) EmailTaken(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return s.emailTaken(email, excludeID), nil
}

// emailTaken must be called with the lock held. An empty email never
// collides, matching the partial unique index in Postgres.
func (s *CoupleStore) emailTaken(email string, excludeID uuid.UUID) bool {
	want := normalizeEmail(email)
	if want == "" {
		return false
	}
	for _, c := range s.db.couples {
		if c.ID != excludeID && normalizeEmail(c.Email) == want {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
