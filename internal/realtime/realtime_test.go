package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestLocalBroker_DeliversOnlySubscribedTopics(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()

	ch, cancel, err := b.Subscribe(ctx, "chat:ADMIN")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, b.Publish(ctx, "chat:SUPPORT", []byte("ignored")))
	require.NoError(t, b.Publish(ctx, "chat:ADMIN", []byte("hello")))

	msg := receive(t, ch)
	assert.Equal(t, "chat:ADMIN", msg.Topic)
	assert.Equal(t, "hello", string(msg.Payload))
}

func TestLocalBroker_CancelClosesChannel(t *testing.T) {
	b := NewLocalBroker()
	ctx, cancelCtx := context.WithCancel(context.Background())

	ch, cancel, err := b.Subscribe(ctx, "t")
	require.NoError(t, err)
	cancelCtx()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed on context cancel")
	}
	cancel() // idempotent
	assert.NoError(t, b.Publish(context.Background(), "t", []byte("after")))
}

func TestLocalBroker_CloseEndsSubscriptions(t *testing.T) {
	b := NewLocalBroker()
	ch, _, err := b.Subscribe(context.Background(), "a", "b")
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, ok := <-ch
	assert.False(t, ok)
}

func TestPublishJSON_WrapsEnvelope(t *testing.T) {
	b := NewLocalBroker()
	ch, cancel, err := b.Subscribe(context.Background(), "x")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, PublishJSON(context.Background(), b, "x", TypeNotification, map[string]string{"title": "oi"}))

	var env Envelope
	require.NoError(t, json.Unmarshal(receive(t, ch).Payload, &env))
	assert.Equal(t, TypeNotification, env.Type)
	assert.JSONEq(t, `{"title":"oi"}`, string(env.Data))
}

func TestHandler_StreamsToConnectedCouple(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b := NewLocalBroker()
	user := &models.User{ID: uuid.New(), Role: models.RoleCoupleUser}

	r := gin.New()
	r.GET("/v1/ws", func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, user.ID)
		c.Set(middleware.ContextKeyUser, user)
	}, NewHandler(b, zap.NewNop()).Serve)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// the handler subscribes before upgrading, so publishing now is safe
	require.NoError(t, b.Publish(context.Background(), ChatTopic(models.RoomAdmin), []byte("admin-only")))
	require.NoError(t, b.Publish(context.Background(), NotificationTopic(user.ID), []byte("for-you")))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "for-you", string(data))
}

func TestTopics_ByRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	leader := &models.User{ID: uuid.New(), Role: models.RoleRegionalCouple}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Topics(c))

	c.Set(middleware.ContextKeyUser, leader)
	assert.ElementsMatch(t, []string{
		NotificationTopic(leader.ID),
		ChatTopic(models.RoomAdmin),
		ChatTopic(models.RoomSupport),
	}, Topics(c))
}
