package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

// Conventions shared by every implementation (postgres and memory):
//
//   - context.Context first on every method.
//   - Single-record reads return nil, nil when the record does not exist.
//   - Mutations addressed by id report found=false instead of failing.
//   - Lists return an empty slice, never nil, so JSON renders [].
//   - Returned values never alias storage; callers may mutate them freely.

// UserRepository stores accounts.
type UserRepository interface {
	// Create inserts u. Fails with ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail is an exact, case-sensitive match.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user ordered by name.
	List(ctx context.Context) ([]models.User, error)

	// UpdateTerm replaces the user's term window.
	UpdateTerm(ctx context.Context, id uuid.UUID, start, end *time.Time) (bool, error)
}

// CoupleRepository stores registration records.
type CoupleRepository interface {
	// List returns every couple, newest registration first.
	List(ctx context.Context) ([]models.Couple, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Couple, error)

	// Save replaces the record with the same id, or appends it. Fails with
	// ErrDuplicateEmail when another couple already uses the (non-empty)
	// email, compared lower-cased and trimmed.
	Save(ctx context.Context, c *models.Couple) error

	// TransitionStatus sets the status to `to` only while the stored status
	// is `from`, atomically. It returns the status held before the call, so
	// prev != from means nothing was written.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.RegistrationStatus) (prev models.RegistrationStatus, found bool, err error)

	// EmailTaken reports whether any couple other than excludeID uses email,
	// compared lower-cased and trimmed. Pass uuid.Nil to check all couples.
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}

// EventRepository stores the agenda and its nested attendee lists.
type EventRepository interface {
	// List returns every event with attendees, latest start date first.
	List(ctx context.Context) ([]models.Event, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)

	// Save upserts the event fields. The attendee list is owned by the
	// attendee methods below and is never touched by Save.
	Save(ctx context.Context, e *models.Event) error

	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// AddAttendee records a PENDING attendance. It is a no-op when the user
	// is already on the list; inserted reports which case happened.
	AddAttendee(ctx context.Context, eventID, userID uuid.UUID, at time.Time) (inserted bool, err error)

	// RemoveAttendee removes the user's attendance if present.
	RemoveAttendee(ctx context.Context, eventID, userID uuid.UUID) error

	// SetAttendeeStatus overwrites one attendee's status and returns the
	// status it had before.
	SetAttendeeStatus(ctx context.Context, eventID, userID uuid.UUID, status models.AttendeeStatus) (prev models.AttendeeStatus, found bool, err error)
}

// MessageRepository handles chat message persistence.
type MessageRepository interface {
	// Append stores msg and then drops the oldest messages so that at most
	// keep remain across all rooms.
	Append(ctx context.Context, msg *models.ChatMessage, keep int) error

	// ListByRoom returns a room's messages, oldest first.
	ListByRoom(ctx context.Context, room models.Room) ([]models.ChatMessage, error)
}

// NotificationRepository stores per-user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error

	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)

	// MarkRead flips the read flag of one of the user's notifications.
	MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error)

	// MarkAllRead flips every unread notification of the user.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// RegionRepository stores the apostolic region directory.
type RegionRepository interface {
	// List returns every region ordered by name.
	List(ctx context.Context) ([]models.Region, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error)
	Save(ctx context.Context, r *models.Region) error
}

// SongRepository is an append-only song book.
type SongRepository interface {
	// List returns songs in insertion order.
	List(ctx context.Context) ([]models.Song, error)
	Create(ctx context.Context, s *models.Song) error

	// Seed inserts s unless a song with the same id exists. Concurrent
	// seeders all succeed; inserted is true for exactly one of them.
	Seed(ctx context.Context, s *models.Song) (inserted bool, err error)
}

// PhotoRepository stores gallery entries.
type PhotoRepository interface {
	// List returns photos, newest first.
	List(ctx context.Context) ([]models.Photo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)
	Create(ctx context.Context, p *models.Photo) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Store bundles every repository of one storage driver.
type Store struct {
	Users         UserRepository
	Couples       CoupleRepository
	Events        EventRepository
	Messages      MessageRepository
	Notifications NotificationRepository
	Regions       RegionRepository
	Songs         SongRepository
	Photos        PhotoRepository
}
