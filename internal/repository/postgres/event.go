package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

// EventStore keeps the event body as JSONB in events and the attendee list
// as rows in event_attendees. The record column never carries attendees.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT record FROM events ORDER BY start_date DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e, err := decodeEvent(raw)
		if err != nil {
			return nil, err
		}
		index[e.ID] = len(events)
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	attendees, err := s.pool.Query(ctx, `
		SELECT event_id, user_id, status, registered_at
		FROM event_attendees
		ORDER BY registered_at`)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer attendees.Close()

	for attendees.Next() {
		var eventID uuid.UUID
		a, err := scanAttendee(attendees, &eventID)
		if err != nil {
			return nil, fmt.Errorf("scan attendee: %w", err)
		}
		if i, ok := index[eventID]; ok {
			events[i].Attendees = append(events[i].Attendees, a)
		}
	}
	if err := attendees.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendees: %w", err)
	}
	return events, nil
}

func (s *EventStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT record FROM events WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	e, err := decodeEvent(raw)
	if err != nil {
		return nil, err
	}

	e.Attendees, err = s.listAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventStore) Save(ctx context.Context, e *models.Event) error {
	body := *e
	body.Attendees = nil
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	query := `
		INSERT INTO events (id, start_date, status, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET start_date = EXCLUDED.start_date,
		    status = EXCLUDED.status,
		    record = EXCLUDED.record`

	if _, err := s.pool.Exec(ctx, query, e.ID, e.StartDate, string(e.Status), raw); err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

// Delete removes the event. Attendee rows go with it through ON DELETE CASCADE.
func (s *EventStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func decodeEvent(raw []byte) (*models.Event, error) {
	var e models.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	e.Attendees = make([]models.EventAttendee, 0)
	return &e, nil
}
