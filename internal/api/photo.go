package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

const maxPhotoUpload = 8 << 20

type PhotoHandler struct {
	gallery *service.GalleryService
	logger  *zap.Logger
}

func NewPhotoHandler(gallery *service.GalleryService, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{gallery: gallery, logger: logger}
}

// List handles GET /v1/photos?stage=&search=
func (h *PhotoHandler) List(c *gin.Context) {
	f := service.PhotoFilter{
		Stage:  models.Stage(strings.ToUpper(c.Query("stage"))),
		Search: c.Query("search"),
	}
	if f.Stage != "" && !f.Stage.ValidOrGeneral() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage filter"})
		return
	}
	photos, err := h.gallery.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.logger, err, "failed to list photos")
		return
	}
	c.JSON(http.StatusOK, photos)
}

type photoForm struct {
	Title       string       `form:"title" binding:"required"`
	Description string       `form:"description"`
	Stage       models.Stage `form:"stage" binding:"omitempty,ecc_stage"`
	EventID     string       `form:"event_id"`
}

// Upload handles POST /v1/photos (multipart: title, description, stage,
// event_id and the image under "file").
func (h *PhotoHandler) Upload(c *gin.Context) {
	var form photoForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	file, err := readUpload(fh, maxPhotoUpload)
	if err != nil {
		respondError(c, h.logger, err, "failed to read upload")
		return
	}

	in := service.PhotoInput{
		Title:       form.Title,
		Description: form.Description,
		Stage:       form.Stage,
		File:        file,
	}
	if form.EventID != "" {
		id, err := uuid.Parse(form.EventID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
			return
		}
		in.EventID = &id
	}

	p, err := h.gallery.Upload(c.Request.Context(), middleware.GetUser(c), in)
	if err != nil {
		respondError(c, h.logger, err, "failed to upload photo")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Delete handles DELETE /v1/photos/:id
func (h *PhotoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "photo")
	if !ok {
		return
	}
	if err := h.gallery.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "failed to delete photo")
		return
	}
	c.Status(http.StatusNoContent)
}
