package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyUser   = "user"
)

// accessTokenParam carries the token for browser WebSocket clients, which
// cannot set an Authorization header on the upgrade request.
const accessTokenParam = "access_token"

// AuthMiddleware validates the bearer token and stores its claims on the
// gin context. Requests without a valid token never reach the handler.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		token := c.Query(accessTokenParam)
		return token, token != ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func fromContext[T any](c *gin.Context, key string) (T, bool) {
	var zero T
	val, exists := c.Get(key)
	if !exists {
		return zero, false
	}
	v, ok := val.(T)
	return v, ok
}

func GetUserID(c *gin.Context) uuid.UUID {
	id, _ := fromContext[uuid.UUID](c, ContextKeyUserID)
	return id
}

func GetEmail(c *gin.Context) string {
	email, _ := fromContext[string](c, ContextKeyEmail)
	return email
}

// GetUser returns the account loaded by LoadUser, or nil.
func GetUser(c *gin.Context) *models.User {
	u, _ := fromContext[*models.User](c, ContextKeyUser)
	return u
}
