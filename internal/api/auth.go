package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"go.uber.org/zap"
)

// AuthHandler serves signup and login, the only public account endpoints.
type AuthHandler struct {
	accounts  *service.AccountService
	jwtSecret string
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthHandler(accounts *service.AccountService, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

type signupRequest struct {
	Name          string      `json:"name" binding:"required"`
	Email         string      `json:"email" binding:"required,email"`
	Password      string      `json:"password" binding:"required,min=8"`
	Role          models.Role `json:"role" binding:"required,ecc_role"`
	Parish        string      `json:"parish"`
	Region        string      `json:"region"`
	AcceptedTerms bool        `json:"accepted_terms"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// authResponse is returned by both signup and login. The client sends the
// token back as "Authorization: Bearer <token>".
type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.accounts.Signup(c.Request.Context(), service.SignupInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		Parish:        req.Parish,
		Region:        req.Region,
		AcceptedTerms: req.AcceptedTerms,
	})
	if err != nil {
		respondError(c, h.logger, err, "signup failed")
		return
	}
	h.issue(c, http.StatusCreated, u, "signup failed")
}

// Login handles POST /v1/auth/login
//
// Unknown email and wrong password get the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "login failed")
		return
	}
	h.issue(c, http.StatusOK, u, "login failed")
}

func (h *AuthHandler) issue(c *gin.Context, status int, u *models.User, failMsg string) {
	token, err := auth.GenerateToken(u, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}
	c.JSON(status, authResponse{Token: token, User: u})
}
