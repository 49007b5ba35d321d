package memory

import (
	"context"

	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type MessageStore struct {
	db *DB
}

func (s *MessageStore) Append(_ context.Context, msg *models.ChatMessage, keep int) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.messages = append(s.db.messages, *msg)
	if keep > 0 && len(s.db.messages) > keep {
		trimmed := make([]models.ChatMessage, keep)
		copy(trimmed, s.db.messages[len(s.db.messages)-keep:])
		s.db.messages = trimmed
	}
	return nil
}

func (s *MessageStore) ListByRoom(_ context.Context, room models.Room) ([]models.ChatMessage, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	messages := make([]models.ChatMessage, 0)
	for _, m := range s.db.messages {
		if m.Room == room {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// Len reports how many messages are stored across all rooms.
func (s *MessageStore) Len() int {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return len(s.db.messages)
}
