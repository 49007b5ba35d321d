package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_RoomAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	couple := &models.User{ID: uuid.New(), Name: "Casal", Role: models.RoleCoupleUser}
	team := &models.User{ID: uuid.New(), Name: "Equipe", Role: models.RoleStage2Team, Parish: "Sé"}

	assert.Equal(t, []models.Room{models.RoomSupport}, f.chat.Rooms(couple))
	assert.Equal(t, []models.Room{models.RoomAdmin, models.RoomSupport}, f.chat.Rooms(team))

	_, err := f.chat.Send(ctx, couple, models.RoomAdmin, "olá")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.chat.History(ctx, couple, models.RoomAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.chat.Send(ctx, team, models.Room("LOBBY"), "olá")
	assert.ErrorIs(t, err, ErrNotFound)

	msg, err := f.chat.Send(ctx, team, models.RoomAdmin, "reunião amanhã")
	require.NoError(t, err)
	assert.Equal(t, "Equipe", msg.SenderName)
	assert.Equal(t, "Sé", msg.SenderParish)
	assert.Equal(t, testNow, msg.Timestamp)

	support, err := f.chat.History(ctx, couple, models.RoomSupport)
	require.NoError(t, err)
	assert.Empty(t, support)
}

func TestChat_SanitizesAndValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := &models.User{ID: uuid.New(), Role: models.RoleCoupleUser}

	msg, err := f.chat.Send(ctx, u, models.RoomSupport, `<script>alert(1)</script>Preciso de ajuda`)
	require.NoError(t, err)
	assert.Equal(t, "Preciso de ajuda", msg.Content)

	var verr *ValidationError
	_, err = f.chat.Send(ctx, u, models.RoomSupport, "  <b></b> ")
	assert.ErrorAs(t, err, &verr)
	_, err = f.chat.Send(ctx, u, models.RoomSupport, strings.Repeat("a", 2001))
	assert.ErrorAs(t, err, &verr)
}

func TestChat_RetentionAcrossRooms(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u := &models.User{ID: uuid.New(), Role: models.RoleNationalCouple}

	for i := 0; i < 7; i++ {
		room := models.RoomSupport
		if i%2 == 1 {
			room = models.RoomAdmin
		}
		_, err := f.chat.Send(ctx, u, room, string(rune('a'+i)))
		require.NoError(t, err)
	}

	admin, err := f.chat.History(ctx, u, models.RoomAdmin)
	require.NoError(t, err)
	support, err := f.chat.History(ctx, u, models.RoomSupport)
	require.NoError(t, err)
	assert.Len(t, append(admin, support...), 5)

	var contents []string
	for _, m := range support {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"c", "e", "g"}, contents, "oldest messages go first, order kept")
}

func TestChat_PublishesToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture()
	u := &models.User{ID: uuid.New(), Role: models.RoleCoupleUser}

	ch, stop, err := f.broker.Subscribe(ctx, realtime.ChatTopic(models.RoomSupport))
	require.NoError(t, err)
	defer stop()

	_, err = f.chat.Send(ctx, u, models.RoomSupport, "oi")
	require.NoError(t, err)

	msg := <-ch
	assert.Equal(t, realtime.ChatTopic(models.RoomSupport), msg.Topic)
	assert.Contains(t, string(msg.Payload), `"type":"chat.message"`)
}
