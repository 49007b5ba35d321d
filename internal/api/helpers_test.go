package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stanleylima25/ECC-Brasil/internal/auth"
	"github.com/stanleylima25/ECC-Brasil/internal/blob"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/observ"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"github.com/stanleylima25/ECC-Brasil/internal/repository/memory"
	"github.com/stanleylima25/ECC-Brasil/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	store  repository.Store
	svc    Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := memory.New().Store()
	broker := realtime.NewLocalBroker()
	t.Cleanup(func() { _ = broker.Close() })
	reg := prometheus.NewRegistry()
	metrics := observ.NewMetrics(reg)

	notifications := service.NewNotificationService(store.Notifications, broker, metrics, logger)
	svc := Services{
		Accounts:      service.NewAccountService(store.Users, logger),
		Registrations: service.NewRegistrationService(store.Couples, blob.InlineStore{}, logger),
		Events:        service.NewEventService(store.Events, store.Users, notifications, logger),
		Notifications: notifications,
		Chat:          service.NewChatService(store.Messages, broker, metrics, 100, logger),
		Directory:     service.NewDirectoryService(store.Regions, store.Songs, logger),
		Gallery:       service.NewGalleryService(store.Photos, store.Events, blob.InlineStore{}, logger),
	}
	router := NewRouter(svc, RouterConfig{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Users:     store.Users,
		Broker:    broker,
		Metrics:   metrics,
		Gatherer:  reg,
		Logger:    logger,
	})
	return &testEnv{router: router, store: store, svc: svc}
}

// account provisions a user and returns it with a valid token. termEnd nil
// means no mandate.
func (e *testEnv) account(t *testing.T, role models.Role, termEnd *time.Time) (*models.User, string) {
	t.Helper()
	u, err := e.svc.Accounts.Provision(context.Background(), service.SignupInput{
		Name:     "Casal " + string(role),
		Email:    uuid.NewString() + "@ecc.org",
		Password: "senha-forte",
		Role:     role,
		Parish:   "Sé",
	}, nil, termEnd)
	require.NoError(t, err)
	token, err := auth.GenerateToken(u, testSecret, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) leader(t *testing.T) (*models.User, string) {
	end := time.Now().AddDate(1, 0, 0)
	return e.account(t, models.RoleSectorCouple, &end)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token)
}

func (e *testEnv) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// multipartRequest builds a form with string fields and files keyed by
// field name.
func multipartRequest(t *testing.T, path string, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func newCouple(email string) models.Couple {
	return models.Couple{
		Husband: models.Person{Name: "João"},
		Wife:    models.Person{Name: "Maria"},
		Email:   email,
		Parish:  "Sé",
		City:    "Belém",
		State:   "PA",
	}
}
