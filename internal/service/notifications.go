package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/observ"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"go.uber.org/zap"
)

type NotificationService struct {
	repo    repository.NotificationRepository
	broker  realtime.Broker
	metrics *observ.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationService wires the store and the live push. broker and
// metrics may be nil.
func NewNotificationService(repo repository.NotificationRepository, broker realtime.Broker, metrics *observ.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, broker: broker, metrics: metrics, logger: logger, now: time.Now}
}

// Notify stores a notification for userID and pushes it to their live
// connections. A failed push is logged; the stored record is what counts.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, message string, kind models.NotificationType) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.metrics.NotificationCreated(string(kind))

	if s.broker != nil {
		if err := realtime.PublishJSON(ctx, s.broker, realtime.NotificationTopic(userID), realtime.TypeNotification, n); err != nil {
			s.logger.Warn("failed to push notification", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return n, nil
}

type NotificationList struct {
	Items  []models.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

// List returns the user's notifications, newest first, with the unread count.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) (*NotificationList, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &NotificationList{Items: items}
	for _, n := range items {
		if !n.Read {
			out.Unread++
		}
	}
	return out, nil
}

// MarkRead flips one notification. Notifications of other users are
// reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	found, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
