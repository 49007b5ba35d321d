package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Handler upgrades GET /v1/ws and streams the caller's notifications and
// the chat rooms their role may use. Clients do not send anything but
// control frames.
type Handler struct {
	broker   Broker
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewHandler(broker Broker, logger *zap.Logger) *Handler {
	return &Handler{
		broker: broker,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Authentication is by token, not cookie, so cross-origin
			// upgrades carry no ambient credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Topics returns what a connection for the session user listens to.
func Topics(c *gin.Context) []string {
	u := middleware.GetUser(c)
	if u == nil {
		return nil
	}
	topics := []string{NotificationTopic(u.ID)}
	for _, room := range u.Role.Rooms() {
		topics = append(topics, ChatTopic(room))
	}
	return topics
}

// Serve handles GET /v1/ws
func (h *Handler) Serve(c *gin.Context) {
	topics := Topics(c)
	if len(topics) == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	ctx := c.Request.Context()
	messages, cancel, err := h.broker.Subscribe(ctx, topics...)
	if err != nil {
		h.logger.Error("failed to subscribe", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live updates unavailable"})
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	userID := middleware.GetUserID(c)
	h.logger.Debug("websocket connected", zap.String("user_id", userID.String()))

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-messages:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg.Payload); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed.
func (h *Handler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
