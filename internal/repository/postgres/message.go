package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// chatTrimLock is the advisory lock key taken by every Append.
const chatTrimLock int64 = 0x6563635f63686174

// Append inserts msg and trims the table to the newest keep rows in the same
// transaction. seq is a bigserial, so it follows insertion order across rooms.
// Appends are serialized on an advisory lock; two concurrent trims would
// otherwise both delete the same oldest row and leave keep+1 behind.
func (s *MessageStore) Append(ctx context.Context, msg *models.ChatMessage, keep int) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, chatTrimLock); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO chat_messages
				(id, sender_id, sender_name, sender_role, sender_parish, sender_region, content, room, sent_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			msg.ID, msg.SenderID, msg.SenderName, string(msg.SenderRole),
			msg.SenderParish, msg.SenderRegion, msg.Content, string(msg.Room), msg.Timestamp,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			DELETE FROM chat_messages
			WHERE seq NOT IN (
				SELECT seq FROM chat_messages ORDER BY seq DESC LIMIT $1
			)`, keep)
		return err
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

func (s *MessageStore) ListByRoom(ctx context.Context, room models.Room) ([]models.ChatMessage, error) {
	query := `
		SELECT id, sender_id, sender_name, sender_role, sender_parish, sender_region, content, room, sent_at
		FROM chat_messages
		WHERE room = $1
		ORDER BY seq`

	rows, err := s.pool.Query(ctx, query, string(room))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var (
			msg        models.ChatMessage
			role, name string
		)
		if err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.SenderName,
			&role,
			&msg.SenderParish,
			&msg.SenderRegion,
			&msg.Content,
			&name,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.SenderRole = models.Role(role)
		msg.Room = models.Room(name)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}
