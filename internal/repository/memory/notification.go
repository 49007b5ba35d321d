package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type NotificationStore struct {
	db *DB
}

func (s *NotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.notifications = append(s.db.notifications, *n)
	return nil
}

func (s *NotificationStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Notification, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := make([]models.Notification, 0)
	for _, n := range s.db.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, userID, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.notifications {
		n := &s.db.notifications[i]
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (s *NotificationStore) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var count int64
	for i := range s.db.notifications {
		n := &s.db.notifications[i]
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}
