package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/observ"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"github.com/stanleylima25/ECC-Brasil/internal/sanitize"
	"go.uber.org/zap"
)

const (
	DefaultChatRetention = 100
	maxMessageLength     = 2000
)

type ChatService struct {
	messages  repository.MessageRepository
	broker    realtime.Broker
	metrics   *observ.Metrics
	logger    *zap.Logger
	retention int
	now       func() time.Time
}

// NewChatService keeps at most retention messages across both rooms.
// broker and metrics may be nil.
func NewChatService(messages repository.MessageRepository, broker realtime.Broker, metrics *observ.Metrics, retention int, logger *zap.Logger) *ChatService {
	if retention <= 0 {
		retention = DefaultChatRetention
	}
	return &ChatService{
		messages:  messages,
		broker:    broker,
		metrics:   metrics,
		logger:    logger,
		retention: retention,
		now:       time.Now,
	}
}

// Rooms returns the rooms u may use.
func (s *ChatService) Rooms(u *models.User) []models.Room {
	return u.Role.Rooms()
}

func (s *ChatService) History(ctx context.Context, u *models.User, room models.Room) ([]models.ChatMessage, error) {
	if err := checkRoom(u, room); err != nil {
		return nil, err
	}
	return s.messages.ListByRoom(ctx, room)
}

// Send stores a message with a snapshot of the sender's profile and pushes
// it to the room's live subscribers.
func (s *ChatService) Send(ctx context.Context, u *models.User, room models.Room, content string) (*models.ChatMessage, error) {
	if err := checkRoom(u, room); err != nil {
		return nil, err
	}
	content = sanitize.Text(content)
	if content == "" {
		return nil, invalid("content", "is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, invalid("content", "must have at most 2000 characters")
	}

	msg := &models.ChatMessage{
		ID:           uuid.New(),
		SenderID:     u.ID,
		SenderName:   u.Name,
		SenderRole:   u.Role,
		SenderParish: u.Parish,
		SenderRegion: u.Region,
		Content:      content,
		Timestamp:    s.now().UTC(),
		Room:         room,
	}
	if err := s.messages.Append(ctx, msg, s.retention); err != nil {
		return nil, err
	}
	s.metrics.ChatMessageSent(string(room))

	if s.broker != nil {
		if err := realtime.PublishJSON(ctx, s.broker, realtime.ChatTopic(room), realtime.TypeChatMessage, msg); err != nil {
			s.logger.Warn("failed to push chat message", zap.String("room", string(room)), zap.Error(err))
		}
	}
	return msg, nil
}

func checkRoom(u *models.User, room models.Room) error {
	if !room.Valid() {
		return ErrNotFound
	}
	if u == nil || !u.Role.CanUseRoom(room) {
		return ErrForbidden
	}
	return nil
}
