package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

// DirectoryHandler serves apostolic regions and the song book.
type DirectoryHandler struct {
	directory *service.DirectoryService
	logger    *zap.Logger
}

func NewDirectoryHandler(directory *service.DirectoryService, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, logger: logger}
}

// ListRegions handles GET /v1/regions?search=
func (h *DirectoryHandler) ListRegions(c *gin.Context) {
	regions, err := h.directory.ListRegions(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, h.logger, err, "failed to list regions")
		return
	}
	c.JSON(http.StatusOK, regions)
}

// GetRegion handles GET /v1/regions/:id
func (h *DirectoryHandler) GetRegion(c *gin.Context) {
	id, ok := pathID(c, "id", "region")
	if !ok {
		return
	}
	r, err := h.directory.GetRegion(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to get region")
		return
	}
	c.JSON(http.StatusOK, r)
}

// SaveRegion handles PUT /v1/regions
func (h *DirectoryHandler) SaveRegion(c *gin.Context) {
	var r models.Region
	if err := c.ShouldBindJSON(&r); err != nil {
		bindError(c, err)
		return
	}
	saved, err := h.directory.SaveRegion(c.Request.Context(), r)
	if err != nil {
		respondError(c, h.logger, err, "failed to save region")
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListSongs handles GET /v1/songs?stage=&search=
func (h *DirectoryHandler) ListSongs(c *gin.Context) {
	f := service.SongFilter{
		Stage:  models.Stage(strings.ToUpper(c.Query("stage"))),
		Search: c.Query("search"),
	}
	if f.Stage != "" && !f.Stage.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stage filter"})
		return
	}
	songs, err := h.directory.ListSongs(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.logger, err, "failed to list songs")
		return
	}
	c.JSON(http.StatusOK, songs)
}

type songRequest struct {
	Title    string       `json:"title" binding:"required"`
	Author   string       `json:"author"`
	Stage    models.Stage `json:"stage" binding:"required,ecc_stage"`
	Lyrics   string       `json:"lyrics"`
	Category string       `json:"category"`
	VideoURL string       `json:"video_url" binding:"omitempty,url"`
}

// AddSong handles POST /v1/songs
func (h *DirectoryHandler) AddSong(c *gin.Context) {
	var req songRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	song, err := h.directory.AddSong(c.Request.Context(), models.Song{
		Title:    req.Title,
		Author:   req.Author,
		Stage:    req.Stage,
		Lyrics:   req.Lyrics,
		Category: req.Category,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to add song")
		return
	}
	c.JSON(http.StatusCreated, song)
}
