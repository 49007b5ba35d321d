package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"github.com/stanleylima25/ECC-Brasil/internal/sanitize"
	"go.uber.org/zap"
)

// Notification texts are shown to couples as-is.
const (
	titleAttendanceApproved = "Inscrição Aprovada!"
	titleAttendanceRejected = "Inscrição Não Homologada"
)

type EventService struct {
	events        repository.EventRepository
	users         repository.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
	now           func() time.Time
}

func NewEventService(events repository.EventRepository, users repository.UserRepository, notifications *NotificationService, logger *zap.Logger) *EventService {
	return &EventService{
		events:        events,
		users:         users,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// Save creates the event when its id is empty or unknown, and otherwise
// replaces its fields. Attendees are never changed by Save.
func (s *EventService) Save(ctx context.Context, e models.Event) (*models.Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Location = strings.TrimSpace(e.Location)
	e.Description = sanitize.Text(e.Description)
	if e.Status == "" {
		e.Status = models.EventPlanned
	}
	if e.EndDate.IsZero() {
		e.EndDate = e.StartDate
	}

	switch {
	case e.Title == "":
		return nil, invalid("title", "is required")
	case !e.Type.Valid():
		return nil, invalid("type", "unknown event type")
	case !e.Stage.ValidOrGeneral():
		return nil, invalid("stage", "unknown stage")
	case !e.Status.Valid():
		return nil, invalid("status", "unknown event status")
	case e.StartDate.IsZero():
		return nil, invalid("start_date", "is required")
	case e.EndDate.Before(e.StartDate):
		return nil, invalid("end_date", "must not be before start_date")
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if err := s.events.Save(ctx, &e); err != nil {
		return nil, err
	}
	return s.Get(ctx, e.ID)
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.events.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.logger.Info("event deleted", zap.String("event_id", id.String()))
	return nil
}

// Subscribe requests attendance for userID. Subscribing twice is a no-op.
// Only PLANNED events accept new requests.
func (s *EventService) Subscribe(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, ok := e.Attendee(userID); ok {
		return e, nil
	}
	if e.Status != models.EventPlanned {
		return nil, ErrInvalidTransition
	}

	if _, err := s.events.AddAttendee(ctx, eventID, userID, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

// Unsubscribe removes userID's attendance if present.
func (s *EventService) Unsubscribe(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error) {
	if _, err := s.Get(ctx, eventID); err != nil {
		return nil, err
	}
	if err := s.events.RemoveAttendee(ctx, eventID, userID); err != nil {
		return nil, err
	}
	return s.Get(ctx, eventID)
}

// SetAttendeeStatus records a coordinator's decision. A notification is
// sent only when the status actually changes into APPROVED or REJECTED;
// reverting to PENDING is silent.
func (s *EventService) SetAttendeeStatus(ctx context.Context, approver *models.User, eventID, userID uuid.UUID, status models.AttendeeStatus) (*models.Event, error) {
	if !status.Valid() {
		return nil, invalid("status", "unknown attendee status")
	}
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	prev, found, err := s.events.SetAttendeeStatus(ctx, eventID, userID, status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	if prev != status && status != models.AttendeePending {
		if err := s.notifyDecision(ctx, approver, e, userID, status); err != nil {
			// Put the previous status back so a retry sees the change again
			// and creates the notification then.
			if _, _, undoErr := s.events.SetAttendeeStatus(ctx, eventID, userID, prev); undoErr != nil {
				s.logger.Error("failed to restore attendee status",
					zap.String("event_id", eventID.String()),
					zap.String("user_id", userID.String()),
					zap.Error(undoErr),
				)
			}
			return nil, err
		}
	}
	return s.Get(ctx, eventID)
}

func (s *EventService) notifyDecision(ctx context.Context, approver *models.User, e *models.Event, userID uuid.UUID, status models.AttendeeStatus) error {
	label := "COORDENAÇÃO"
	if approver != nil {
		label = approver.Role.Label()
	}

	title, verb, kind := titleAttendanceApproved, "aprovada", models.NotificationSuccess
	if status == models.AttendeeRejected {
		title, verb, kind = titleAttendanceRejected, "rejeitada", models.NotificationWarning
	}
	message := fmt.Sprintf(`Sua participação no evento "%s" foi %s pela coordenação (%s).`, e.Title, verb, label)

	_, err := s.notifications.Notify(ctx, userID, title, message, kind)
	return err
}

// AttendeeView is an attendance joined with the account that requested it.
type AttendeeView struct {
	models.EventAttendee
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Parish string      `json:"parish"`
}

// Attendees lists an event's attendance requests with the requester's
// profile. Requests from deleted accounts keep empty profile fields.
func (s *EventService) Attendees(ctx context.Context, eventID uuid.UUID) ([]AttendeeView, error) {
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]AttendeeView, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		view := AttendeeView{EventAttendee: a}
		u, err := s.users.GetByID(ctx, a.UserID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			view.Name, view.Email, view.Role, view.Parish = u.Name, u.Email, u.Role, u.Parish
		}
		out = append(out, view)
	}
	return out, nil
}
