// Package realtime pushes chat messages and notifications to connected
// clients. Services publish envelopes on topics; the WebSocket handler
// subscribes on behalf of each connection.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type Message struct {
	Topic   string
	Payload []byte
}

// Broker is a fire-and-forget pub/sub. Delivery is best effort: slow or
// absent subscribers miss messages and are expected to re-read over HTTP.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe delivers messages for topics until ctx is cancelled or the
	// returned cancel func is called. The channel is closed afterwards.
	Subscribe(ctx context.Context, topics ...string) (<-chan Message, func(), error)
	Close() error
}

// Envelope is the JSON frame sent to WebSocket clients.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	TypeChatMessage  = "chat.message"
	TypeNotification = "notification"
)

func NotificationTopic(userID uuid.UUID) string {
	return "notifications:" + userID.String()
}

func ChatTopic(room models.Room) string {
	return "chat:" + string(room)
}

// PublishJSON wraps v in an Envelope of the given type and publishes it.
func PublishJSON(ctx context.Context, b Broker, topic, kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	frame, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return b.Publish(ctx, topic, frame)
}
