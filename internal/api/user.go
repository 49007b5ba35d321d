package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stanleylima25/ECC-Brasil/internal/middleware"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

type UserHandler struct {
	accounts *service.AccountService
	logger   *zap.Logger
}

func NewUserHandler(accounts *service.AccountService, logger *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

// GetMe handles GET /v1/users/me
//
// The profile comes from the account loaded for this request, so a term
// extended since login is already visible.
func (h *UserHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetUser(c))
}

// List handles GET /v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

type termRequest struct {
	TermStart time.Time `json:"term_start"`
	TermEnd   time.Time `json:"term_end" binding:"required"`
}

// ExtendTerm handles PUT /v1/users/:id/term
func (h *UserHandler) ExtendTerm(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}
	var req termRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.accounts.ExtendTerm(c.Request.Context(), middleware.GetUser(c), id, req.TermStart, req.TermEnd)
	if err != nil {
		respondError(c, h.logger, err, "failed to update term")
		return
	}
	c.JSON(http.StatusOK, u)
}
