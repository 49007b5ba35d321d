package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

func (s *EventStore) AddAttendee(ctx context.Context, eventID, userID uuid.UUID, at time.Time) (bool, error) {
	// The (event_id, user_id) primary key makes a second subscribe a no-op.
	query := `
		INSERT INTO event_attendees (event_id, user_id, status, registered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query, eventID, userID, string(models.AttendeePending), at)
	if err != nil {
		return false, fmt.Errorf("add attendee: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *EventStore) RemoveAttendee(ctx context.Context, eventID, userID uuid.UUID) error {
	query := `
		DELETE FROM event_attendees
		WHERE event_id = $1 AND user_id = $2`

	if _, err := s.pool.Exec(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("remove attendee: %w", err)
	}
	return nil
}

// SetAttendeeStatus locks the attendance row so two coordinators deciding at
// once see each other's previous status.
func (s *EventStore) SetAttendeeStatus(ctx context.Context, eventID, userID uuid.UUID, status models.AttendeeStatus) (models.AttendeeStatus, bool, error) {
	var (
		prev  models.AttendeeStatus
		found bool
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `
			SELECT status FROM event_attendees
			WHERE event_id = $1 AND user_id = $2
			FOR UPDATE`, eventID, userID).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		found = true
		prev = models.AttendeeStatus(current)

		_, err = tx.Exec(ctx, `
			UPDATE event_attendees SET status = $3
			WHERE event_id = $1 AND user_id = $2`, eventID, userID, string(status))
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("set attendee status: %w", err)
	}
	return prev, found, nil
}

func (s *EventStore) listAttendees(ctx context.Context, eventID uuid.UUID) ([]models.EventAttendee, error) {
	query := `
		SELECT event_id, user_id, status, registered_at
		FROM event_attendees
		WHERE event_id = $1
		ORDER BY registered_at`

	rows, err := s.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()

	attendees := make([]models.EventAttendee, 0)
	for rows.Next() {
		var id uuid.UUID
		a, err := scanAttendee(rows, &id)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		attendees = append(attendees, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}
	return attendees, nil
}

func scanAttendee(row pgx.Row, eventID *uuid.UUID) (models.EventAttendee, error) {
	var (
		a      models.EventAttendee
		status string
	)
	if err := row.Scan(eventID, &a.UserID, &status, &a.RegistrationDate); err != nil {
		return a, err
	}
	a.Status = models.AttendeeStatus(status)
	return a, nil
}
