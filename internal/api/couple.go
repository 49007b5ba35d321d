package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

const (
	maxDocumentUpload = 10 << 20
	// multipart field carrying the couple JSON next to the document files
	coupleFormField = "couple"
	documentsField  = "documents"
)

type CoupleHandler struct {
	registrations *service.RegistrationService
	logger        *zap.Logger
}

func NewCoupleHandler(registrations *service.RegistrationService, logger *zap.Logger) *CoupleHandler {
	return &CoupleHandler{registrations: registrations, logger: logger}
}

// Create handles POST /v1/couples
//
// The body is either the couple as JSON or a multipart form with the
// couple JSON in the "couple" field and files under "documents".
func (h *CoupleHandler) Create(c *gin.Context) {
	var (
		couple models.Couple
		docs   []service.Upload
	)
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		var ok bool
		if couple, docs, ok = h.readMultipart(c); !ok {
			return
		}
	} else if err := c.ShouldBindJSON(&couple); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.registrations.Register(c.Request.Context(), middleware.GetUser(c), couple, docs)
	if err != nil {
		respondError(c, h.logger, err, "failed to register couple")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CoupleHandler) readMultipart(c *gin.Context) (models.Couple, []service.Upload, bool) {
	var couple models.Couple
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return couple, nil, false
	}
	raw := form.Value[coupleFormField]
	if len(raw) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing couple field"})
		return couple, nil, false
	}
	if err := json.Unmarshal([]byte(raw[0]), &couple); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid couple field"})
		return couple, nil, false
	}

	docs := make([]service.Upload, 0, len(form.File[documentsField]))
	for _, fh := range form.File[documentsField] {
		u, err := readUpload(fh, maxDocumentUpload)
		if err != nil {
			respondError(c, h.logger, err, "failed to read document")
			return couple, nil, false
		}
		docs = append(docs, u)
	}
	return couple, docs, true
}

// List handles GET /v1/couples?search=&state=&status=
func (h *CoupleHandler) List(c *gin.Context) {
	f := service.CoupleFilter{
		Search: c.Query("search"),
		State:  c.Query("state"),
		Status: models.RegistrationStatus(c.Query("status")),
	}
	if f.Status != "" && !f.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	couples, err := h.registrations.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.logger, err, "failed to list couples")
		return
	}
	c.JSON(http.StatusOK, couples)
}

// Pending handles GET /v1/couples/pending
func (h *CoupleHandler) Pending(c *gin.Context) {
	couples, err := h.registrations.Pending(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list pending couples")
		return
	}
	c.JSON(http.StatusOK, couples)
}

// Get handles GET /v1/couples/:id
func (h *CoupleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id", "couple")
	if !ok {
		return
	}
	couple, err := h.registrations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to get couple")
		return
	}
	c.JSON(http.StatusOK, couple)
}

// Replace handles PUT /v1/couples/:id
func (h *CoupleHandler) Replace(c *gin.Context) {
	id, ok := pathID(c, "id", "couple")
	if !ok {
		return
	}
	var couple models.Couple
	if err := c.ShouldBindJSON(&couple); err != nil {
		bindError(c, err)
		return
	}
	updated, err := h.registrations.Replace(c.Request.Context(), id, couple)
	if err != nil {
		respondError(c, h.logger, err, "failed to update couple")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Approve handles POST /v1/couples/:id/approve
func (h *CoupleHandler) Approve(c *gin.Context) {
	h.transition(c, h.registrations.Approve)
}

// Reject handles POST /v1/couples/:id/reject
func (h *CoupleHandler) Reject(c *gin.Context) {
	h.transition(c, h.registrations.Reject)
}

func (h *CoupleHandler) transition(c *gin.Context, move func(context.Context, uuid.UUID) (*models.Couple, error)) {
	id, ok := pathID(c, "id", "couple")
	if !ok {
		return
	}
	couple, err := move(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to change registration status")
		return
	}
	c.JSON(http.StatusOK, couple)
}

// EmailAvailable handles GET /v1/couples/email-available?email=&exclude=
func (h *CoupleHandler) EmailAvailable(c *gin.Context) {
	exclude := uuid.Nil
	if raw := c.Query("exclude"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid exclude ID"})
			return
		}
		exclude = id
	}
	available, err := h.registrations.EmailAvailable(c.Request.Context(), c.Query("email"), exclude)
	if err != nil {
		respondError(c, h.logger, err, "failed to check email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

// Dashboard handles GET /v1/dashboard
func (h *CoupleHandler) Dashboard(c *gin.Context) {
	stats, err := h.registrations.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// History handles GET /v1/history/encounters?search=
func (h *CoupleHandler) History(c *gin.Context) {
	history, err := h.registrations.EncounterHistory(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err, "failed to list encounters")
		return
	}
	c.JSON(http.StatusOK, history)
}
