package legacy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"go.uber.org/zap"
)

// Result counts what an import did. Errors holds one line per record that
// could not be imported; the import itself carries on past them.
type Result struct {
	Created int
	Updated int
	Skipped int
	Errors  []string
}

func (r *Result) fail(kind, id string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s %s: %v", kind, id, err))
}

// Importer writes a Dump into the repositories. Running it twice on the
// same dump updates records in place and skips the append-only ones.
type Importer struct {
	store     repository.Store
	retention int
	logger    *zap.Logger
	now       func() time.Time
}

func NewImporter(store repository.Store, retention int, logger *zap.Logger) *Importer {
	return &Importer{store: store, retention: retention, logger: logger, now: time.Now}
}

// Run imports users first so that attendances, messages and notifications
// resolve to the same derived user ids.
func (i *Importer) Run(ctx context.Context, d *Dump) (*Result, error) {
	result := &Result{Errors: []string{}}

	steps := []struct {
		name string
		fn   func(context.Context, *Dump, *Result) error
	}{
		{"users", i.importUsers},
		{"couples", i.importCouples},
		{"events", i.importEvents},
		{"messages", i.importMessages},
		{"notifications", i.importNotifications},
		{"regions", i.importRegions},
		{"songs", i.importSongs},
	}
	for _, step := range steps {
		before := *result
		if err := step.fn(ctx, d, result); err != nil {
			return result, fmt.Errorf("import %s: %w", step.name, err)
		}
		i.logger.Info("legacy collection imported",
			zap.String("collection", step.name),
			zap.Int("created", result.Created-before.Created),
			zap.Int("updated", result.Updated-before.Updated),
			zap.Int("skipped", result.Skipped-before.Skipped),
		)
	}
	return result, nil
}

func (i *Importer) importUsers(ctx context.Context, d *Dump, result *Result) error {
	for _, in := range d.Users {
		existing, err := i.store.Users.GetByID(ctx, userID(in.ID))
		if err != nil {
			return err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		u, err := convertUser(in)
		if err != nil {
			result.fail("user", in.ID, err)
			result.Skipped++
			continue
		}
		password := in.Password
		if password == "" {
			// no usable password; the account needs a reset before login
			password = uuid.NewString()
		}
		if u.PasswordHash, err = auth.HashPassword(password); err != nil {
			return err
		}
		u.CreatedAt = i.now().UTC()

		if err := i.store.Users.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				result.fail("user", in.ID, err)
				result.Skipped++
				continue
			}
			return err
		}
		result.Created++
	}
	return nil
}

func (i *Importer) importCouples(ctx context.Context, d *Dump, result *Result) error {
	for _, in := range d.Couples {
		c, err := convertCouple(in)
		if err != nil {
			result.fail("couple", in.ID, err)
			result.Skipped++
			continue
		}
		taken, err := i.store.Couples.EmailTaken(ctx, c.Email, c.ID)
		if err != nil {
			return err
		}
		if taken {
			result.fail("couple", in.ID, repository.ErrDuplicateEmail)
			result.Skipped++
			continue
		}
		existing, err := i.store.Couples.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if err := i.store.Couples.Save(ctx, c); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				result.fail("couple", in.ID, err)
				result.Skipped++
				continue
			}
			return err
		}
		count(result, existing != nil)
	}
	return nil
}

func (i *Importer) importEvents(ctx context.Context, d *Dump, result *Result) error {
	for _, in := range d.Events {
		e, attendees, err := convertEvent(in)
		if err != nil {
			result.fail("event", in.ID, err)
			result.Skipped++
			continue
		}
		existing, err := i.store.Events.GetByID(ctx, e.ID)
		if err != nil {
			return err
		}
		if err := i.store.Events.Save(ctx, e); err != nil {
			return err
		}
		for _, a := range attendees {
			if _, err := i.store.Events.AddAttendee(ctx, e.ID, a.UserID, a.RegistrationDate); err != nil {
				return err
			}
			if _, _, err := i.store.Events.SetAttendeeStatus(ctx, e.ID, a.UserID, a.Status); err != nil {
				return err
			}
		}
		count(result, existing != nil)
	}
	return nil
}

// importMessages appends in timestamp order so the retention cap drops the
// oldest messages, as live sends would have.
func (i *Importer) importMessages(ctx context.Context, d *Dump, result *Result) error {
	seen := make(map[uuid.UUID]bool)
	for _, room := range []models.Room{models.RoomAdmin, models.RoomSupport} {
		existing, err := i.store.Messages.ListByRoom(ctx, room)
		if err != nil {
			return err
		}
		for _, m := range existing {
			seen[m.ID] = true
		}
	}

	messages := make([]*models.ChatMessage, 0, len(d.Messages))
	for _, in := range d.Messages {
		m, err := convertMessage(in)
		if err != nil {
			result.fail("message", in.ID, err)
			result.Skipped++
			continue
		}
		if seen[m.ID] {
			result.Skipped++
			continue
		}
		seen[m.ID] = true
		messages = append(messages, m)
	}
	sort.SliceStable(messages, func(a, b int) bool {
		return messages[a].Timestamp.Before(messages[b].Timestamp)
	})

	for _, m := range messages {
		if err := i.store.Messages.Append(ctx, m, i.retention); err != nil {
			return err
		}
		result.Created++
	}
	return nil
}

func (i *Importer) importNotifications(ctx context.Context, d *Dump, result *Result) error {
	seen := make(map[uuid.UUID]map[uuid.UUID]bool)
	for _, in := range d.Notifications {
		n, err := convertNotification(in)
		if err != nil {
			result.fail("notification", in.ID, err)
			result.Skipped++
			continue
		}

		ids, ok := seen[n.UserID]
		if !ok {
			existing, err := i.store.Notifications.ListByUser(ctx, n.UserID)
			if err != nil {
				return err
			}
			ids = make(map[uuid.UUID]bool, len(existing))
			for _, e := range existing {
				ids[e.ID] = true
			}
			seen[n.UserID] = ids
		}
		if ids[n.ID] {
			result.Skipped++
			continue
		}

		if err := i.store.Notifications.Create(ctx, n); err != nil {
			return err
		}
		ids[n.ID] = true
		result.Created++
	}
	return nil
}

func (i *Importer) importRegions(ctx context.Context, d *Dump, result *Result) error {
	for _, in := range d.Regions {
		r, err := convertRegion(in)
		if err != nil {
			result.fail("region", in.ID, err)
			result.Skipped++
			continue
		}
		existing, err := i.store.Regions.GetByID(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := i.store.Regions.Save(ctx, r); err != nil {
			return err
		}
		count(result, existing != nil)
	}
	return nil
}

func (i *Importer) importSongs(ctx context.Context, d *Dump, result *Result) error {
	existing, err := i.store.Songs.List(ctx)
	if err != nil {
		return err
	}
	seen := make(map[uuid.UUID]bool, len(existing))
	for _, s := range existing {
		seen[s.ID] = true
	}

	for _, in := range d.Songs {
		s, err := convertSong(in)
		if err != nil {
			result.fail("song", in.ID, err)
			result.Skipped++
			continue
		}
		if seen[s.ID] {
			result.Skipped++
			continue
		}
		if err := i.store.Songs.Create(ctx, s); err != nil {
			return err
		}
		seen[s.ID] = true
		result.Created++
	}
	return nil
}

func count(result *Result, updated bool) {
	if updated {
		result.Updated++
		return
	}
	result.Created++
}
