package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"github.com/stanleylima25/ECC-Brasil/internal/repository/memory"
	"go.uber.org/zap"
)

var (
	testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

func fixedClock() time.Time { return testNow }

var errStorage = errors.New("storage unavailable")

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return "https://blobs.test/" + key, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fixture struct {
	store         repository.Store
	broker        *realtime.LocalBroker
	blobs         *fakeBlobs
	accounts      *AccountService
	registrations *RegistrationService
	notifications *NotificationService
	events        *EventService
	chat          *ChatService
	directory     *DirectoryService
	gallery       *GalleryService
}

func newFixture() *fixture {
	logger := zap.NewNop()
	store := memory.New().Store()
	broker := realtime.NewLocalBroker()
	blobs := newFakeBlobs()

	f := &fixture{store: store, broker: broker, blobs: blobs}
	f.accounts = NewAccountService(store.Users, logger)
	f.accounts.now = fixedClock
	f.registrations = NewRegistrationService(store.Couples, blobs, logger)
	f.registrations.now = fixedClock
	f.notifications = NewNotificationService(store.Notifications, broker, nil, logger)
	f.notifications.now = fixedClock
	f.events = NewEventService(store.Events, store.Users, f.notifications, logger)
	f.events.now = fixedClock
	f.chat = NewChatService(store.Messages, broker, nil, 5, logger)
	f.chat.now = fixedClock
	f.directory = NewDirectoryService(store.Regions, store.Songs, logger)
	f.gallery = NewGalleryService(store.Photos, store.Events, blobs, logger)
	f.gallery.now = fixedClock
	return f
}

func leader(role models.Role, termEnd time.Time) *models.User {
	return &models.User{
		ID:      uuid.New(),
		Name:    "Casal " + string(role),
		Role:    role,
		Email:   uuid.NewString() + "@ecc.org",
		TermEnd: &termEnd,
	}
}

func couple(email string) models.Couple {
	return models.Couple{
		Husband: models.Person{Name: "João"},
		Wife:    models.Person{Name: "Maria"},
		Email:   email,
		Parish:  "São José",
		Region:  "Norte",
		City:    "Belém",
		State:   "PA",
	}
}

// slowCouples delays reads so that concurrent callers overlap between what
// they check and what they write.
type slowCouples struct {
	repository.CoupleRepository
	delay time.Duration
}

func (s slowCouples) GetByID(ctx context.Context, id uuid.UUID) (*models.Couple, error) {
	time.Sleep(s.delay)
	return s.CoupleRepository.GetByID(ctx, id)
}

func (s slowCouples) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	taken, err := s.CoupleRepository.EmailTaken(ctx, email, excludeID)
	time.Sleep(s.delay)
	return taken, err
}

type failingCouples struct {
	repository.CoupleRepository
}

func (failingCouples) Save(context.Context, *models.Couple) error {
	return errStorage
}

// flakyNotifications fails the first failures calls to Create.
type flakyNotifications struct {
	repository.NotificationRepository

	mu       sync.Mutex
	failures int
}

func (f *flakyNotifications) Create(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()
	if fail {
		return errStorage
	}
	return f.NotificationRepository.Create(ctx, n)
}
