package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret"

var brokenID = uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")

type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if id == brokenID {
		return nil, errors.New("db down")
	}
	u, ok := f[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(u, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func newRouter(users fakeUsers, now time.Time, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{
		AuthMiddleware(secret),
		LoadUser(users, zap.NewNop()),
	}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": GetUser(c).Role})
	})
	r.GET("/x", chain...)
	return r
}

func do(r http.Handler, token, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x"+query, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	u := &models.User{ID: uuid.New(), Email: "a@b.com", Role: models.RoleCoupleUser}
	r := newRouter(fakeUsers{u.ID: u}, time.Now())

	assert.Equal(t, http.StatusUnauthorized, do(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage", "").Code)
	assert.Equal(t, http.StatusOK, do(r, tokenFor(t, u), "").Code)
	assert.Equal(t, http.StatusOK, do(r, "", "?access_token="+tokenFor(t, u)).Code)
}

func TestLoadUser_DeletedAccountAndStoreError(t *testing.T) {
	ghost := &models.User{ID: uuid.New(), Role: models.RoleCoupleUser}
	broken := &models.User{ID: brokenID, Role: models.RoleCoupleUser}
	r := newRouter(fakeUsers{}, time.Now())

	assert.Equal(t, http.StatusUnauthorized, do(r, tokenFor(t, ghost), "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, tokenFor(t, broken), "").Code)
}

func TestRequireLeadership(t *testing.T) {
	couple := &models.User{ID: uuid.New(), Role: models.RoleCoupleUser}
	sector := &models.User{ID: uuid.New(), Role: models.RoleSectorCouple}
	r := newRouter(fakeUsers{couple.ID: couple, sector.ID: sector}, time.Now(), RequireLeadership())

	assert.Equal(t, http.StatusForbidden, do(r, tokenFor(t, couple), "").Code)
	assert.Equal(t, http.StatusOK, do(r, tokenFor(t, sector), "").Code)
}

func TestRequireRegistrationAccess_UsesFreshRecord(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(24 * time.Hour)
	sector := &models.User{ID: uuid.New(), Role: models.RoleSectorCouple, TermEnd: &end}
	users := fakeUsers{sector.ID: sector}

	gin.SetMode(gin.TestMode)
	r := newRouter(users, now, RequireRegistrationAccess(func() time.Time { return now }))
	token := tokenFor(t, sector)

	assert.Equal(t, http.StatusOK, do(r, token, "").Code)

	expired := now.Add(-time.Hour)
	sector.TermEnd = &expired
	assert.Equal(t, http.StatusForbidden, do(r, token, "").Code, "same token, term changed in storage")
}
