package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"go.uber.org/zap"
)

// UserLoader is the slice of the user repository the access checks need.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoadUser reads the caller's current account on every request, so a role
// or term change takes effect without waiting for the token to expire.
// It must run after AuthMiddleware.
func LoadUser(users UserLoader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), GetUserID(c))
		if err != nil {
			logger.Error("failed to load session user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		u.PasswordHash = ""
		c.Set(ContextKeyUser, u)
		c.Set(ContextKeyRole, u.Role)
		c.Next()
	}
}

// RequireLeadership rejects couple accounts.
func RequireLeadership() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := GetUser(c)
		if u == nil || !u.Role.IsLeadership() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequireRegistrationAccess gates couple registration data behind
// models.CanViewRegistrations, evaluated at request time.
func RequireRegistrationAccess(now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		if !models.CanViewRegistrations(GetUser(c), now()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "registration data requires an active leadership term",
			})
			return
		}
		c.Next()
	}
}
