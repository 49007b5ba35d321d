// Package repotest holds the behaviour every storage driver must share.
// Driver packages call Run from their own tests with a fresh, empty store.
package repotest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener returns an empty store. It is called once per subtest.
type Opener func(t *testing.T) repository.Store

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		fn   func(*testing.T, repository.Store)
	}{
		{"UserDuplicateEmail", testUserDuplicateEmail},
		{"UserTerm", testUserTerm},
		{"CoupleValuesDoNotAlias", testCoupleValuesDoNotAlias},
		{"CoupleEmailUnique", testCoupleEmailUnique},
		{"CoupleConcurrentSameEmail", testCoupleConcurrentSameEmail},
		{"CoupleTransitionStatus", testCoupleTransitionStatus},
		{"CoupleConcurrentTransitions", testCoupleConcurrentTransitions},
		{"EventAttendees", testEventAttendees},
		{"EventDeleteDropsAttendees", testEventDeleteDropsAttendees},
		{"MessageRetention", testMessageRetention},
		{"MessageConcurrentRetention", testMessageConcurrentRetention},
		{"Notifications", testNotifications},
		{"Regions", testRegions},
		{"SongSeedOnce", testSongSeedOnce},
		{"Photos", testPhotos},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

func testUserDuplicateEmail(t *testing.T, s repository.Store) {
	ctx := context.Background()

	first := &models.User{ID: uuid.New(), Name: "first", Role: models.RoleCoupleUser, Email: "x@y.com", PasswordHash: "h", CreatedAt: base}
	require.NoError(t, s.Users.Create(ctx, first))
	err := s.Users.Create(ctx, &models.User{ID: uuid.New(), Name: "second", Role: models.RoleCoupleUser, Email: "x@y.com", PasswordHash: "h", CreatedAt: base})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	u, err := s.Users.GetByEmail(ctx, "x@y.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "first", u.Name)

	missing, err := s.Users.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testUserTerm(t *testing.T, s repository.Store) {
	ctx := context.Background()
	u := &models.User{ID: uuid.New(), Name: "Casal", Role: models.RoleSectorCouple, Email: "s@ecc.org", PasswordHash: "h", CreatedAt: base}
	require.NoError(t, s.Users.Create(ctx, u))

	start, end := base, base.AddDate(2, 0, 0)
	found, err := s.Users.UpdateTerm(ctx, u.ID, &start, &end)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.TermEnd)
	assert.True(t, got.TermEnd.Equal(end))

	found, err = s.Users.UpdateTerm(ctx, uuid.New(), &start, &end)
	require.NoError(t, err)
	assert.False(t, found)
}

func newCouple(email string) *models.Couple {
	return &models.Couple{
		ID:         uuid.New(),
		Husband:    models.Person{Name: "João"},
		Wife:       models.Person{Name: "Maria"},
		Email:      email,
		Status:     models.RegistrationPending,
		CreatedAt:  base,
		Encounters: []models.EncounterRecord{{ID: uuid.New(), Stage: models.StageFirst, Number: 1}},
		Documents:  []models.Document{},
	}
}

func testCoupleValuesDoNotAlias(t *testing.T, s repository.Store) {
	ctx := context.Background()
	c := newCouple("casal@paroquia.org")
	require.NoError(t, s.Couples.Save(ctx, c))

	got, err := s.Couples.GetByID(ctx, c.ID)
	require.NoError(t, err)
	got.Status = models.RegistrationRejected
	got.Encounters[0].Number = 99

	again, err := s.Couples.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPending, again.Status)
	assert.Equal(t, 1, again.Encounters[0].Number)
}

func testCoupleEmailUnique(t *testing.T, s repository.Store) {
	ctx := context.Background()
	c := newCouple("a@b.com")
	require.NoError(t, s.Couples.Save(ctx, c))

	taken, err := s.Couples.EmailTaken(ctx, " A@B.com ", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = s.Couples.EmailTaken(ctx, "a@b.com", c.ID)
	require.NoError(t, err)
	assert.False(t, taken, "the record itself must be excluded")

	err = s.Couples.Save(ctx, newCouple("  A@B.COM"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	c.Parish = "São José"
	require.NoError(t, s.Couples.Save(ctx, c), "re-saving the owner of the email is fine")

	require.NoError(t, s.Couples.Save(ctx, newCouple("")))
	require.NoError(t, s.Couples.Save(ctx, newCouple("")), "empty emails never collide")

	all, err := s.Couples.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testCoupleConcurrentSameEmail(t *testing.T, s repository.Store) {
	ctx := context.Background()
	const writers = 8

	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "dup@ecc.org"
			if i%2 == 1 {
				email = " DUP@ecc.org "
			}
			errs[i] = s.Couples.Save(ctx, newCouple(email))
		}(i)
	}
	wg.Wait()

	saved := 0
	for _, err := range errs {
		if err == nil {
			saved++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, saved)

	all, err := s.Couples.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testCoupleTransitionStatus(t *testing.T, s repository.Store) {
	ctx := context.Background()
	c := newCouple("t@ecc.org")
	require.NoError(t, s.Couples.Save(ctx, c))

	prev, found, err := s.Couples.TransitionStatus(ctx, c.ID, models.RegistrationPending, models.RegistrationApproved)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.RegistrationPending, prev)

	prev, found, err = s.Couples.TransitionStatus(ctx, c.ID, models.RegistrationPending, models.RegistrationRejected)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.RegistrationApproved, prev, "no write once the status moved on")

	got, err := s.Couples.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, got.Status)

	_, found, err = s.Couples.TransitionStatus(ctx, uuid.New(), models.RegistrationPending, models.RegistrationApproved)
	require.NoError(t, err)
	assert.False(t, found)
}

func testCoupleConcurrentTransitions(t *testing.T, s repository.Store) {
	ctx := context.Background()
	c := newCouple("race@ecc.org")
	require.NoError(t, s.Couples.Save(ctx, c))

	targets := []models.RegistrationStatus{
		models.RegistrationApproved, models.RegistrationRejected,
		models.RegistrationApproved, models.RegistrationRejected,
		models.RegistrationApproved, models.RegistrationRejected,
	}
	prevs := make([]models.RegistrationStatus, len(targets))
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to models.RegistrationStatus) {
			defer wg.Done()
			prevs[i], _, errs[i] = s.Couples.TransitionStatus(ctx, c.ID, models.RegistrationPending, to)
		}(i, to)
	}
	wg.Wait()

	winner := -1
	for i := range targets {
		require.NoError(t, errs[i])
		if prevs[i] == models.RegistrationPending {
			assert.Equal(t, -1, winner, "only one transition may leave PENDING")
			winner = i
		}
	}
	require.GreaterOrEqual(t, winner, 0)

	got, err := s.Couples.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, targets[winner], got.Status)
}

func newEvent(title string, start time.Time) *models.Event {
	return &models.Event{
		ID:        uuid.New(),
		Title:     title,
		Type:      models.EventMeeting,
		Stage:     models.StageGeneral,
		StartDate: start,
		Status:    models.EventPlanned,
	}
}

func testEventAttendees(t *testing.T, s repository.Store) {
	ctx := context.Background()
	ev := newEvent("Encontro", base)
	require.NoError(t, s.Events.Save(ctx, ev))
	require.NoError(t, s.Events.Save(ctx, newEvent("Reunião", base.AddDate(0, 1, 0))))

	user := uuid.New()
	inserted, err := s.Events.AddAttendee(ctx, ev.ID, user, base)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.Events.AddAttendee(ctx, ev.ID, user, base)
	require.NoError(t, err)
	assert.False(t, inserted)

	ev.Title = "Encontro renomeado"
	ev.Attendees = nil
	require.NoError(t, s.Events.Save(ctx, ev))

	got, err := s.Events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Encontro renomeado", got.Title)
	require.Len(t, got.Attendees, 1)

	all, err := s.Events.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Reunião", all[0].Title, "latest start date first")
	assert.Empty(t, all[0].Attendees)
	assert.Len(t, all[1].Attendees, 1)

	prev, found, err := s.Events.SetAttendeeStatus(ctx, ev.ID, user, models.AttendeeApproved)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.AttendeePending, prev)

	_, found, err = s.Events.SetAttendeeStatus(ctx, ev.ID, uuid.New(), models.AttendeeApproved)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Events.RemoveAttendee(ctx, ev.ID, user))
	got, err = s.Events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Attendees)
}

func testEventDeleteDropsAttendees(t *testing.T, s repository.Store) {
	ctx := context.Background()
	ev := newEvent("Palestra", base)
	require.NoError(t, s.Events.Save(ctx, ev))
	_, err := s.Events.AddAttendee(ctx, ev.ID, uuid.New(), base)
	require.NoError(t, err)

	found, err := s.Events.Delete(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.Events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	found, err = s.Events.Delete(ctx, ev.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func newMessage(room models.Room, content string) *models.ChatMessage {
	return &models.ChatMessage{
		ID:         uuid.New(),
		SenderID:   uuid.New(),
		SenderName: "Casal",
		SenderRole: models.RoleNationalCouple,
		Content:    content,
		Room:       room,
		Timestamp:  base,
	}
}

func countMessages(t *testing.T, s repository.Store) []string {
	t.Helper()
	var contents []string
	for _, room := range []models.Room{models.RoomAdmin, models.RoomSupport} {
		msgs, err := s.Messages.ListByRoom(context.Background(), room)
		require.NoError(t, err)
		for _, m := range msgs {
			contents = append(contents, m.Content)
		}
	}
	return contents
}

func testMessageRetention(t *testing.T, s repository.Store) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		room := models.RoomSupport
		if i%2 == 0 {
			room = models.RoomAdmin
		}
		require.NoError(t, s.Messages.Append(ctx, newMessage(room, string(rune('a'+i))), 3))
	}

	assert.ElementsMatch(t, []string{"c", "d", "e"}, countMessages(t, s))

	admin, err := s.Messages.ListByRoom(ctx, models.RoomAdmin)
	require.NoError(t, err)
	require.Len(t, admin, 2)
	assert.Equal(t, "c", admin[0].Content, "oldest first")
}

func testMessageConcurrentRetention(t *testing.T, s repository.Store) {
	ctx := context.Background()
	const keep, writers = 5, 24

	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Messages.Append(ctx, newMessage(models.RoomSupport, fmt.Sprint(i)), keep)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, countMessages(t, s), keep)
}

func testNotifications(t *testing.T, s repository.Store) {
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()

	older := &models.Notification{ID: uuid.New(), UserID: user, Title: "a", Message: "m", Type: models.NotificationInfo, CreatedAt: base}
	newer := &models.Notification{ID: uuid.New(), UserID: user, Title: "b", Message: "m", Type: models.NotificationSuccess, CreatedAt: base.Add(time.Hour)}
	foreign := &models.Notification{ID: uuid.New(), UserID: other, Title: "c", Message: "m", Type: models.NotificationWarning, CreatedAt: base}
	for _, n := range []*models.Notification{older, newer, foreign} {
		require.NoError(t, s.Notifications.Create(ctx, n))
	}

	list, err := s.Notifications.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Title)

	found, err := s.Notifications.MarkRead(ctx, user, foreign.ID)
	require.NoError(t, err)
	assert.False(t, found, "another user's notification")

	found, err = s.Notifications.MarkRead(ctx, user, older.ID)
	require.NoError(t, err)
	assert.True(t, found)

	n, err := s.Notifications.MarkAllRead(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func testRegions(t *testing.T, s repository.Store) {
	ctx := context.Background()
	sul := &models.Region{ID: uuid.New(), Name: "Sul", State: "RS", StageLeaders: []models.StageLeader{}}
	norte := &models.Region{ID: uuid.New(), Name: "Norte", State: "PA", StageLeaders: []models.StageLeader{}}
	require.NoError(t, s.Regions.Save(ctx, sul))
	require.NoError(t, s.Regions.Save(ctx, norte))

	sul.State = "SC"
	require.NoError(t, s.Regions.Save(ctx, sul))

	all, err := s.Regions.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Norte", all[0].Name)
	assert.Equal(t, "SC", all[1].State)

	missing, err := s.Regions.GetByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testSongSeedOnce(t *testing.T, s repository.Store) {
	ctx := context.Background()
	seed := models.Song{ID: uuid.New(), Title: "Oração", Stage: models.StageFirst}

	const seeders = 6
	inserted := make([]bool, seeders)
	errs := make([]error, seeders)
	var wg sync.WaitGroup
	for i := 0; i < seeders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			song := seed
			inserted[i], errs[i] = s.Songs.Seed(ctx, &song)
		}(i)
	}
	wg.Wait()

	count := 0
	for i := range inserted {
		require.NoError(t, errs[i])
		if inserted[i] {
			count++
		}
	}
	assert.Equal(t, 1, count)

	require.NoError(t, s.Songs.Create(ctx, &models.Song{ID: uuid.New(), Title: "Segunda", Stage: models.StageSecond}))
	songs, err := s.Songs.List(ctx)
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, seed.ID, songs[0].ID, "insertion order")
}

func testPhotos(t *testing.T, s repository.Store) {
	ctx := context.Background()
	old := &models.Photo{ID: uuid.New(), Title: "antiga", URL: "u1", BlobKey: "k1", Stage: models.StageGeneral, UploadedBy: "Casal", CreatedAt: base}
	eventID := uuid.New()
	recent := &models.Photo{ID: uuid.New(), Title: "nova", URL: "u2", BlobKey: "k2", EventID: &eventID, Stage: models.StageFirst, UploadedBy: "Casal", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.Photos.Create(ctx, old))
	require.NoError(t, s.Photos.Create(ctx, recent))

	all, err := s.Photos.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "nova", all[0].Title)

	got, err := s.Photos.GetByID(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, "k2", got.BlobKey)
	require.NotNil(t, got.EventID)
	assert.Equal(t, eventID, *got.EventID)

	found, err := s.Photos.Delete(ctx, old.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = s.Photos.Delete(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, found)
}
