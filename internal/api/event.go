package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

type EventHandler struct {
	events *service.EventService
	logger *zap.Logger
}

func NewEventHandler(events *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// List handles GET /v1/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list events")
		return
	}
	c.JSON(http.StatusOK, events)
}

// Get handles GET /v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "event")
	if !ok {
		return
	}
	e, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to get event")
		return
	}
	c.JSON(http.StatusOK, e)
}

// Save handles PUT /v1/events
//
// An event with an unknown or empty id is created. Attendees in the body
// are ignored; attendance only changes through subscribe and homologation.
func (h *EventHandler) Save(c *gin.Context) {
	var e models.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		bindError(c, err)
		return
	}
	saved, err := h.events.Save(c.Request.Context(), e)
	if err != nil {
		respondError(c, h.logger, err, "failed to save event")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE /v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "event")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscribe handles POST /v1/events/:id/subscribe
func (h *EventHandler) Subscribe(c *gin.Context) {
	h.attendance(c, h.events.Subscribe)
}

// Unsubscribe handles POST /v1/events/:id/unsubscribe
func (h *EventHandler) Unsubscribe(c *gin.Context) {
	h.attendance(c, h.events.Unsubscribe)
}

func (h *EventHandler) attendance(c *gin.Context, op func(ctx context.Context, eventID, userID uuid.UUID) (*models.Event, error)) {
	id, ok := pathID(c, "id", "event")
	if !ok {
		return
	}
	e, err := op(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to update attendance")
		return
	}
	c.JSON(http.StatusOK, e)
}

// Attendees handles GET /v1/events/:id/attendees
func (h *EventHandler) Attendees(c *gin.Context) {
	id, ok := pathID(c, "id", "event")
	if !ok {
		return
	}
	views, err := h.events.Attendees(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to list attendees")
		return
	}
	c.JSON(http.StatusOK, views)
}

type attendeeStatusRequest struct {
	Status models.AttendeeStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
}

// SetAttendeeStatus handles PUT /v1/events/:id/attendees/:userId
func (h *EventHandler) SetAttendeeStatus(c *gin.Context) {
	eventID, ok := pathID(c, "id", "event")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId", "user")
	if !ok {
		return
	}
	var req attendeeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	e, err := h.events.SetAttendeeStatus(c.Request.Context(), middleware.GetUser(c), eventID, userID, req.Status)
	if err != nil {
		respondError(c, h.logger, err, "failed to update attendee")
		return
	}
	c.JSON(http.StatusOK, e)
}
