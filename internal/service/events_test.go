package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func plannedEvent(t *testing.T, f *fixture) *models.Event {
	t.Helper()
	e, err := f.events.Save(context.Background(), models.Event{
		Title:       "Encontro de Casais",
		Type:        models.EventEncounter,
		Stage:       models.StageFirst,
		StartDate:   testNow.AddDate(0, 1, 0),
		Location:    "Paróquia São José",
		Description: "<b>Traga</b> sua Bíblia",
	})
	require.NoError(t, err)
	return e
}

func TestSave_DefaultsAndSanitizes(t *testing.T) {
	f := newFixture()
	e := plannedEvent(t, f)

	assert.Equal(t, models.EventPlanned, e.Status)
	assert.Equal(t, e.StartDate, e.EndDate)
	assert.Equal(t, "Traga sua Bíblia", e.Description)
	assert.Empty(t, e.Attendees)

	_, err := f.events.Save(context.Background(), models.Event{Title: "x", Type: "PARTY", Stage: models.StageFirst, StartDate: testNow})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSave_KeepsAttendees(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)
	userID := uuid.New()
	_, err := f.events.Subscribe(ctx, e.ID, userID)
	require.NoError(t, err)

	edit := *e
	edit.Title = "Encontro remarcado"
	edit.Attendees = nil
	got, err := f.events.Save(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "Encontro remarcado", got.Title)
	require.Len(t, got.Attendees, 1)
	assert.Equal(t, userID, got.Attendees[0].UserID)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)
	userID := uuid.New()

	got, err := f.events.Subscribe(ctx, e.ID, userID)
	require.NoError(t, err)
	require.Len(t, got.Attendees, 1)
	assert.Equal(t, models.AttendeePending, got.Attendees[0].Status)
	assert.Equal(t, testNow, got.Attendees[0].RegistrationDate)

	got, err = f.events.Subscribe(ctx, e.ID, userID)
	require.NoError(t, err)
	assert.Len(t, got.Attendees, 1, "subscribing twice keeps one attendance")

	got, err = f.events.Unsubscribe(ctx, e.ID, userID)
	require.NoError(t, err)
	assert.Empty(t, got.Attendees)

	_, err = f.events.Subscribe(ctx, uuid.New(), userID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribe_OnlyPlannedEvents(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)
	e.Status = models.EventCancelled
	_, err := f.events.Save(ctx, *e)
	require.NoError(t, err)

	_, err = f.events.Subscribe(ctx, e.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetAttendeeStatus_NotifiesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)
	userID := uuid.New()
	approver := &models.User{ID: uuid.New(), Role: models.RoleStage1Team}
	_, err := f.events.Subscribe(ctx, e.ID, userID)
	require.NoError(t, err)

	got, err := f.events.SetAttendeeStatus(ctx, approver, e.ID, userID, models.AttendeeApproved)
	require.NoError(t, err)
	a, ok := got.Attendee(userID)
	require.True(t, ok)
	assert.Equal(t, models.AttendeeApproved, a.Status)

	list, err := f.notifications.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	n := list.Items[0]
	assert.Equal(t, "Inscrição Aprovada!", n.Title)
	assert.Equal(t, models.NotificationSuccess, n.Type)
	assert.Equal(t, `Sua participação no evento "Encontro de Casais" foi aprovada pela coordenação (STAGE 1 TEAM).`, n.Message)

	_, err = f.events.SetAttendeeStatus(ctx, approver, e.ID, userID, models.AttendeeApproved)
	require.NoError(t, err)
	_, err = f.events.SetAttendeeStatus(ctx, approver, e.ID, userID, models.AttendeePending)
	require.NoError(t, err)
	list, err = f.notifications.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "repeat and revert to pending stay silent")

	_, err = f.events.SetAttendeeStatus(ctx, approver, e.ID, userID, models.AttendeeRejected)
	require.NoError(t, err)
	list, err = f.notifications.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Unread)

	var titles []string
	for _, item := range list.Items {
		titles = append(titles, item.Title)
	}
	assert.Contains(t, titles, "Inscrição Não Homologada")
}

func TestSetAttendeeStatus_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)

	_, err := f.events.SetAttendeeStatus(ctx, nil, e.ID, uuid.New(), models.AttendeeApproved)
	assert.ErrorIs(t, err, ErrNotFound, "user never subscribed")

	_, err = f.events.SetAttendeeStatus(ctx, nil, uuid.New(), uuid.New(), models.AttendeeApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.events.SetAttendeeStatus(ctx, nil, e.ID, uuid.New(), models.AttendeeStatus("MAYBE"))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSetAttendeeStatus_PushesLiveNotification(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture()
	e := plannedEvent(t, f)
	userID := uuid.New()
	_, err := f.events.Subscribe(ctx, e.ID, userID)
	require.NoError(t, err)

	ch, stop, err := f.broker.Subscribe(ctx, realtime.NotificationTopic(userID))
	require.NoError(t, err)
	defer stop()

	_, err = f.events.SetAttendeeStatus(ctx, nil, e.ID, userID, models.AttendeeApproved)
	require.NoError(t, err)

	select {
	case msg := <-ch:
		var env realtime.Envelope
		require.NoError(t, json.Unmarshal(msg.Payload, &env))
		assert.Equal(t, realtime.TypeNotification, env.Type)
		var n models.Notification
		require.NoError(t, json.Unmarshal(env.Data, &n))
		assert.Equal(t, userID, n.UserID)
		assert.Contains(t, n.Message, "(COORDENAÇÃO)")
	case <-time.After(time.Second):
		t.Fatal("notification was not pushed")
	}
}

func TestAttendees_JoinsProfiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)

	u, err := f.accounts.Signup(ctx, signupInput("casal@ecc.org", models.RoleCoupleUser))
	require.NoError(t, err)
	ghost := uuid.New()
	_, err = f.events.Subscribe(ctx, e.ID, u.ID)
	require.NoError(t, err)
	_, err = f.events.Subscribe(ctx, e.ID, ghost)
	require.NoError(t, err)

	views, err := f.events.Attendees(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	byID := map[uuid.UUID]AttendeeView{}
	for _, v := range views {
		byID[v.UserID] = v
	}
	assert.Equal(t, "casal@ecc.org", byID[u.ID].Email)
	assert.Empty(t, byID[ghost].Name)
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := plannedEvent(t, f)

	require.NoError(t, f.events.Delete(ctx, e.ID))
	assert.ErrorIs(t, f.events.Delete(ctx, e.ID), ErrNotFound)
	_, err := f.events.Get(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAttendeeStatus_RestoresStatusWhenNotificationFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	repo := &flakyNotifications{NotificationRepository: f.store.Notifications, failures: 1}
	notifications := NewNotificationService(repo, f.broker, nil, zap.NewNop())
	notifications.now = fixedClock
	events := NewEventService(f.store.Events, f.store.Users, notifications, zap.NewNop())
	events.now = fixedClock

	e := plannedEvent(t, f)
	userID := uuid.New()
	_, err := events.Subscribe(ctx, e.ID, userID)
	require.NoError(t, err)

	_, err = events.SetAttendeeStatus(ctx, nil, e.ID, userID, models.AttendeeApproved)
	require.ErrorIs(t, err, errStorage)

	stored, err := f.store.Events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	a, ok := stored.Attendee(userID)
	require.True(t, ok)
	assert.Equal(t, models.AttendeePending, a.Status)

	got, err := events.SetAttendeeStatus(ctx, nil, e.ID, userID, models.AttendeeApproved)
	require.NoError(t, err)
	a, ok = got.Attendee(userID)
	require.True(t, ok)
	assert.Equal(t, models.AttendeeApproved, a.Status)

	list, err := notifications.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1, "the retry delivers the notification")
}
