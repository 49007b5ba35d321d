package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Field: "email", Message: "is required"}, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrTermExpired, http.StatusForbidden},
		{fmt.Errorf("load: %w", service.ErrNotFound), http.StatusNotFound},
		{service.ErrDuplicateEmail, http.StatusConflict},
		{service.ErrInvalidTransition, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(c, zap.NewNop(), tc.err, "operation failed")
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, zap.NewNop(), errors.New("pq: secret detail"), "operation failed")
	assert.NotContains(t, w.Body.String(), "secret detail")
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ecc_http_requests_total")
}

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"name":           "Ana e Pedro",
		"email":          "ana@ecc.org",
		"password":       "senha-forte",
		"role":           "SECTOR_COUPLE",
		"accepted_terms": true,
	}

	w := env.do(t, http.MethodPost, "/v1/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[authResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodPost, "/v1/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	body["email"], body["role"] = "b@ecc.org", "POPE"
	w = env.do(t, http.MethodPost, "/v1/auth/signup", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"unknown role"`)

	body["role"] = "ADMIN"
	w = env.do(t, http.MethodPost, "/v1/auth/signup", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@ecc.org", "password": "errada!!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ana@ecc.org", "password": "senha-forte"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[authResponse](t, w).Token

	w = env.do(t, http.MethodGet, "/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, "ana@ecc.org", me.Email)
}

func TestAuthenticationRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/v1/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ghostToken, err := auth.GenerateToken(&models.User{ID: uuid.New(), Role: models.RoleAdmin}, testSecret, time.Hour)
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/v1/users/me", ghostToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "token of a removed account")

	_, token := env.leader(t)
	w = env.do(t, http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me?access_token="+token, nil)
	w = env.send(req, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegistrationAccessFollowsTerm(t *testing.T) {
	env := newTestEnv(t)
	expired := time.Now().Add(-time.Hour)
	sector, sectorToken := env.account(t, models.RoleSectorCouple, &expired)
	_, directorToken := env.account(t, models.RoleSpiritualDirector, nil)
	_, coupleToken := env.account(t, models.RoleCoupleUser, nil)

	w := env.do(t, http.MethodGet, "/v1/couples", sectorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodPost, "/v1/couples", sectorToken, newCouple("a@ecc.org"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodGet, "/v1/couples", coupleToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodGet, "/v1/couples", directorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	term := map[string]any{"term_end": time.Now().AddDate(1, 0, 0)}
	w = env.do(t, http.MethodPut, "/v1/users/"+sector.ID.String()+"/term", sectorToken, term)
	assert.Equal(t, http.StatusForbidden, w.Code, "only the director extends terms")
	w = env.do(t, http.MethodPut, "/v1/users/"+sector.ID.String()+"/term", directorToken, term)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// same token, fresh account state
	w = env.do(t, http.MethodGet, "/v1/couples", sectorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCoupleApprovalFlow(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.leader(t)

	w := env.do(t, http.MethodPost, "/v1/couples", token, newCouple("casal@ecc.org"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Couple](t, w)
	assert.Equal(t, models.RegistrationPending, created.Status)

	w = env.do(t, http.MethodPost, "/v1/couples", token, newCouple("CASAL@ecc.org "))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/v1/couples/email-available?email=casal@ecc.org", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/v1/couples/pending", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Couple](t, w), 1)

	path := "/v1/couples/" + created.ID.String()
	w = env.do(t, http.MethodPost, path+"/approve", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodPost, path+"/reject", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[service.DashboardStats](t, w)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 0, stats.Pending)

	w = env.do(t, http.MethodGet, "/v1/couples/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodGet, "/v1/couples/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, "/v1/couples?status=MAYBE", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCoupleMultipartWithDocuments(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.leader(t)

	req := multipartRequest(t, "/v1/couples",
		map[string]string{"couple": `{"husband":{"name":"Rui"},"wife":{"name":"Lia"},"email":"rui@ecc.org"}`},
		map[string][]byte{"documents": []byte("%PDF-1.7\n%%EOF")},
	)
	w := env.send(req, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c := decode[models.Couple](t, w)
	require.Len(t, c.Documents, 1)
	assert.Equal(t, "application/pdf", c.Documents[0].ContentType)
	assert.True(t, strings.HasPrefix(c.Documents[0].URL, "data:application/pdf;base64,"))
}

func TestEventAttendanceFlow(t *testing.T) {
	env := newTestEnv(t)
	_, leaderToken := env.leader(t)
	couple, coupleToken := env.account(t, models.RoleCoupleUser, nil)

	w := env.do(t, http.MethodPut, "/v1/events", coupleToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/v1/events", leaderToken, map[string]any{
		"title":      "Encontro de Casais",
		"type":       "ENCOUNTER",
		"stage":      "STAGE_1",
		"start_date": time.Now().AddDate(0, 1, 0),
		"location":   "Salão",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ev := decode[models.Event](t, w)
	eventPath := "/v1/events/" + ev.ID.String()

	w = env.do(t, http.MethodPost, eventPath+"/subscribe", coupleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[models.Event](t, w).Attendees, 1)

	status := map[string]string{"status": "APPROVED"}
	w = env.do(t, http.MethodPut, eventPath+"/attendees/"+couple.ID.String(), coupleToken, status)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodPut, eventPath+"/attendees/"+couple.ID.String(), leaderToken, map[string]string{"status": "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodPut, eventPath+"/attendees/"+couple.ID.String(), leaderToken, status)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, eventPath+"/attendees", leaderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	views := decode[[]service.AttendeeView](t, w)
	require.Len(t, views, 1)
	assert.Equal(t, couple.Email, views[0].Email)

	w = env.do(t, http.MethodGet, "/v1/notifications", coupleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[service.NotificationList](t, w)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Unread)
	assert.Equal(t, "Inscrição Aprovada!", list.Items[0].Title)

	w = env.do(t, http.MethodPost, "/v1/notifications/read-all", coupleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/v1/notifications/"+list.Items[0].ID.String()+"/read", leaderToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "other users' notifications are invisible")

	w = env.do(t, http.MethodDelete, eventPath, leaderToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodPost, eventPath+"/subscribe", coupleToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatRooms(t *testing.T) {
	env := newTestEnv(t)
	_, coupleToken := env.account(t, models.RoleCoupleUser, nil)
	_, leaderToken := env.leader(t)

	w := env.do(t, http.MethodGet, "/v1/chat/rooms", coupleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["SUPPORT"]`, w.Body.String())

	msg := map[string]string{"content": "<i>olá</i>"}
	w = env.do(t, http.MethodPost, "/v1/chat/admin/messages", coupleToken, msg)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodPost, "/v1/chat/lobby/messages", coupleToken, msg)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPost, "/v1/chat/support/messages", coupleToken, msg)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "olá", decode[models.ChatMessage](t, w).Content)

	w = env.do(t, http.MethodGet, "/v1/chat/SUPPORT/messages", leaderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ChatMessage](t, w), 1)
}

func TestSongsAndRegions(t *testing.T) {
	env := newTestEnv(t)
	_, leaderToken := env.leader(t)
	_, coupleToken := env.account(t, models.RoleCoupleUser, nil)

	w := env.do(t, http.MethodGet, "/v1/songs", coupleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	songs := decode[[]models.Song](t, w)
	require.Len(t, songs, 1)
	assert.Equal(t, service.DefaultSong.ID, songs[0].ID)

	w = env.do(t, http.MethodPost, "/v1/songs", coupleToken, map[string]string{"title": "x", "stage": "STAGE_1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodPost, "/v1/songs", leaderToken, map[string]string{"title": "x", "stage": "STAGE_9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodPost, "/v1/songs", leaderToken, map[string]string{"title": "Hino", "stage": "STAGE_2"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPut, "/v1/regions", leaderToken, map[string]any{"name": "Norte", "state": "PA"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r := decode[models.Region](t, w)
	assert.Len(t, r.StageLeaders, 3)

	w = env.do(t, http.MethodGet, "/v1/regions/"+r.ID.String(), coupleToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(t, http.MethodGet, "/v1/regions?search=norte", leaderToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Region](t, w), 1)
}

func TestPhotoUpload(t *testing.T) {
	env := newTestEnv(t)
	_, leaderToken := env.leader(t)
	_, coupleToken := env.account(t, models.RoleCoupleUser, nil)

	fields := map[string]string{"title": "Missa", "stage": "STAGE_3"}
	w := env.send(multipartRequest(t, "/v1/photos", fields, map[string][]byte{"file": pngData}), coupleToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.send(multipartRequest(t, "/v1/photos", fields, map[string][]byte{"file": []byte("plain text")}), leaderToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.send(multipartRequest(t, "/v1/photos", map[string]string{"stage": "STAGE_3"}, map[string][]byte{"file": pngData}), leaderToken)
	assert.Equal(t, http.StatusBadRequest, w.Code, "title is required")

	w = env.send(multipartRequest(t, "/v1/photos", fields, map[string][]byte{"file": pngData}), leaderToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[models.Photo](t, w)
	assert.True(t, strings.HasPrefix(p.URL, "data:image/png;base64,"))

	w = env.do(t, http.MethodGet, "/v1/photos?stage=STAGE_3", coupleToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Photo](t, w), 1)

	w = env.do(t, http.MethodDelete, "/v1/photos/"+p.ID.String(), leaderToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/v1/photos/"+p.ID.String(), leaderToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
