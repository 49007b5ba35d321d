package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type EventStore struct {
	db *DB
}

func (s *EventStore) List(_ context.Context) ([]models.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	events := make([]models.Event, 0, len(s.db.events))
	for _, e := range s.db.events {
		events = append(events, cloneEvent(e))
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.After(events[j].StartDate)
	})
	return events, nil
}

func (s *EventStore) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		out := cloneEvent(s.db.events[i])
		return &out, nil
	}
	return nil, nil
}

func (s *EventStore) Save(_ context.Context, e *models.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	saved := cloneEvent(*e)
	if i := s.indexOf(e.ID); i >= 0 {
		saved.Attendees = s.db.events[i].Attendees
		s.db.events[i] = saved
		return nil
	}
	saved.Attendees = []models.EventAttendee{}
	s.db.events = append(s.db.events, saved)
	return nil
}

func (s *EventStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.db.events = append(s.db.events[:i], s.db.events[i+1:]...)
	return true, nil
}

func (s *EventStore) AddAttendee(_ context.Context, eventID, userID uuid.UUID, at time.Time) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := s.indexOf(eventID)
	if i < 0 {
		return false, nil
	}
	if _, ok := s.db.events[i].Attendee(userID); ok {
		return false, nil
	}
	s.db.events[i].Attendees = append(s.db.events[i].Attendees, models.EventAttendee{
		UserID:           userID,
		Status:           models.AttendeePending,
		RegistrationDate: at,
	})
	return true, nil
}

func (s *EventStore) RemoveAttendee(_ context.Context, eventID, userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := s.indexOf(eventID)
	if i < 0 {
		return nil
	}
	kept := s.db.events[i].Attendees[:0]
	for _, a := range s.db.events[i].Attendees {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	s.db.events[i].Attendees = kept
	return nil
}

func (s *EventStore) SetAttendeeStatus(_ context.Context, eventID, userID uuid.UUID, status models.AttendeeStatus) (models.AttendeeStatus, bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	i := s.indexOf(eventID)
	if i < 0 {
		return "", false, nil
	}
	attendees := s.db.events[i].Attendees
	for j := range attendees {
		if attendees[j].UserID == userID {
			prev := attendees[j].Status
			attendees[j].Status = status
			return prev, true, nil
		}
	}
	return "", false, nil
}

// indexOf must be called with the lock held.
func (s *EventStore) indexOf(id uuid.UUID) int {
	for i := range s.db.events {
		if s.db.events[i].ID == id {
			return i
		}
	}
	return -1
}
