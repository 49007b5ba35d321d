// Package api is the HTTP transport: gin handlers over the service layer
// and the route table that applies authentication and access rules.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/observ"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

// Services is everything the handlers call into.
type Services struct {
	Accounts      *service.AccountService
	Registrations *service.RegistrationService
	Events        *service.EventService
	Notifications *service.NotificationService
	Chat          *service.ChatService
	Directory     *service.DirectoryService
	Gallery       *service.GalleryService
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type RouterConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Users is read on every authenticated request to load the caller.
	Users    middleware.UserLoader
	Broker   realtime.Broker
	Metrics  *observ.Metrics
	Gatherer prometheus.Gatherer
	// Health is optional; without it /v1/health only reports liveness.
	Health HealthChecker
	Logger *zap.Logger
	// Now drives the term checks. Defaults to time.Now.
	Now func() time.Time
}

func NewRouter(svc Services, cfg RouterConfig) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.GinMiddleware())
	}

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/v1/health", healthHandler(cfg.Health))

	authH := NewAuthHandler(svc.Accounts, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger)
	r.POST("/v1/auth/signup", authH.Signup)
	r.POST("/v1/auth/login", authH.Login)

	v1 := r.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.LoadUser(cfg.Users, cfg.Logger))

	leadership := middleware.RequireLeadership()
	registrationAccess := middleware.RequireRegistrationAccess(cfg.Now)

	users := NewUserHandler(svc.Accounts, cfg.Logger)
	v1.GET("/users/me", users.GetMe)
	v1.GET("/users", leadership, users.List)
	v1.PUT("/users/:id/term", users.ExtendTerm)

	couples := NewCoupleHandler(svc.Registrations, cfg.Logger)
	// creation is gated by leadership and term inside the service
	v1.POST("/couples", leadership, couples.Create)
	v1.GET("/couples/email-available", leadership, couples.EmailAvailable)

	reg := v1.Group("", registrationAccess)
	reg.GET("/couples", couples.List)
	reg.GET("/couples/pending", couples.Pending)
	reg.GET("/couples/:id", couples.Get)
	reg.PUT("/couples/:id", couples.Replace)
	reg.POST("/couples/:id/approve", couples.Approve)
	reg.POST("/couples/:id/reject", couples.Reject)
	reg.GET("/dashboard", couples.Dashboard)
	reg.GET("/history/encounters", couples.History)

	directory := NewDirectoryHandler(svc.Directory, cfg.Logger)
	reg.GET("/regions", directory.ListRegions)
	reg.GET("/regions/:id", directory.GetRegion)
	reg.PUT("/regions", directory.SaveRegion)
	v1.GET("/songs", directory.ListSongs)
	v1.POST("/songs", leadership, directory.AddSong)

	events := NewEventHandler(svc.Events, cfg.Logger)
	v1.GET("/events", events.List)
	v1.GET("/events/:id", events.Get)
	v1.PUT("/events", leadership, events.Save)
	v1.DELETE("/events/:id", leadership, events.Delete)
	v1.GET("/events/:id/attendees", leadership, events.Attendees)
	v1.PUT("/events/:id/attendees/:userId", leadership, events.SetAttendeeStatus)
	v1.POST("/events/:id/subscribe", events.Subscribe)
	v1.POST("/events/:id/unsubscribe", events.Unsubscribe)

	notifications := NewNotificationHandler(svc.Notifications, cfg.Logger)
	v1.GET("/notifications", notifications.List)
	v1.POST("/notifications/read-all", notifications.MarkAllRead)
	v1.POST("/notifications/:id/read", notifications.MarkRead)

	chat := NewChatHandler(svc.Chat, cfg.Logger)
	v1.GET("/chat/rooms", chat.Rooms)
	v1.GET("/chat/:room/messages", chat.List)
	v1.POST("/chat/:room/messages", chat.Create)

	photos := NewPhotoHandler(svc.Gallery, cfg.Logger)
	v1.GET("/photos", photos.List)
	v1.POST("/photos", leadership, photos.Upload)
	v1.DELETE("/photos/:id", leadership, photos.Delete)

	if cfg.Broker != nil {
		v1.GET("/ws", realtime.NewHandler(cfg.Broker, cfg.Logger).Serve)
	}
	return r
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// requestLogger writes one zap line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
