package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/blob"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"go.uber.org/zap"
)

const maxDocumentSize = 10 << 20

// RegistrationService manages couple registrations and the approval queue.
type RegistrationService struct {
	couples repository.CoupleRepository
	blobs   blob.Store
	logger  *zap.Logger
	now     func() time.Time
}

func NewRegistrationService(couples repository.CoupleRepository, blobs blob.Store, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{couples: couples, blobs: blobs, logger: logger, now: time.Now}
}

// Upload is a file received with a registration or a gallery post.
type Upload struct {
	Name string
	Data []byte
}

// Register stores a new PENDING registration on behalf of a leadership
// user whose term is still running.
func (s *RegistrationService) Register(ctx context.Context, actor *models.User, c models.Couple, docs []Upload) (*models.Couple, error) {
	if actor == nil || !actor.Role.IsLeadership() {
		return nil, ErrForbidden
	}
	now := s.now().UTC()
	if actor.TermExpired(now) {
		return nil, ErrTermExpired
	}
	if err := validateCouple(&c); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, c.Email, uuid.Nil); err != nil {
		return nil, err
	}

	c.ID = uuid.New()
	c.Status = models.RegistrationPending
	c.CreatedAt = now
	assignEncounterIDs(c.Encounters)
	if c.Documents == nil {
		c.Documents = make([]models.Document, 0, len(docs))
	}

	var stored []string
	for _, d := range docs {
		doc, key, err := s.storeDocument(ctx, c.ID, d, now)
		if err != nil {
			s.discardDocuments(ctx, stored)
			return nil, err
		}
		stored = append(stored, key)
		c.Documents = append(c.Documents, doc)
	}

	if err := s.couples.Save(ctx, &c); err != nil {
		s.discardDocuments(ctx, stored)
		return nil, mapSaveError(err)
	}
	s.logger.Info("couple registered",
		zap.String("couple_id", c.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	return &c, nil
}

// storeDocument puts one upload in the blob store and returns the document
// entry together with its blob key.
func (s *RegistrationService) storeDocument(ctx context.Context, coupleID uuid.UUID, u Upload, at time.Time) (models.Document, string, error) {
	if len(u.Data) == 0 {
		return models.Document{}, "", invalid("documents", fmt.Sprintf("%q is empty", u.Name))
	}
	if len(u.Data) > maxDocumentSize {
		return models.Document{}, "", invalid("documents", fmt.Sprintf("%q exceeds 10 MB", u.Name))
	}
	id := uuid.New()
	key := blob.Key("documents/"+coupleID.String(), id.String(), u.Name)
	contentType := mimetype.Detect(u.Data).String()
	url, err := s.blobs.Put(ctx, key, contentType, u.Data)
	if err != nil {
		return models.Document{}, "", err
	}
	return models.Document{
		ID:          id,
		Name:        u.Name,
		ContentType: contentType,
		URL:         url,
		UploadedAt:  at,
	}, key, nil
}

// discardDocuments removes blobs of a registration that was not stored.
func (s *RegistrationService) discardDocuments(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to remove orphaned document blob", zap.String("key", key), zap.Error(err))
		}
	}
}

// mapSaveError turns the storage-level uniqueness failure, which a
// concurrent registration can still hit after the pre-check, into the
// service error.
func mapSaveError(err error) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return ErrDuplicateEmail
	}
	return err
}

// EmailAvailable reports whether no couple other than excludeID uses email.
func (s *RegistrationService) EmailAvailable(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, invalid("email", "is required")
	}
	taken, err := s.couples.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *RegistrationService) ensureEmailFree(ctx context.Context, email string, excludeID uuid.UUID) error {
	available, err := s.EmailAvailable(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if !available {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *RegistrationService) Approve(ctx context.Context, id uuid.UUID) (*models.Couple, error) {
	return s.transition(ctx, id, models.RegistrationApproved)
}

func (s *RegistrationService) Reject(ctx context.Context, id uuid.UUID) (*models.Couple, error) {
	return s.transition(ctx, id, models.RegistrationRejected)
}

// transition moves a PENDING registration to a terminal status. Repeating
// the current terminal status is accepted as a no-op. The status check and
// the write are one atomic step in the store, so of two coordinators
// deciding at once exactly one wins.
func (s *RegistrationService) transition(ctx context.Context, id uuid.UUID, to models.RegistrationStatus) (*models.Couple, error) {
	prev, found, err := s.couples.TransitionStatus(ctx, id, models.RegistrationPending, to)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	switch prev {
	case models.RegistrationPending:
		s.logger.Info("registration status changed",
			zap.String("couple_id", id.String()),
			zap.String("status", string(to)),
		)
	case to:
	default:
		return nil, ErrInvalidTransition
	}
	return s.Get(ctx, id)
}

type CoupleFilter struct {
	// Search matches husband or wife name, parish, region or city,
	// case-insensitively.
	Search string
	State  string
	Status models.RegistrationStatus
}

func (f CoupleFilter) match(c *models.Couple) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.State != "" && c.State != f.State {
		return false
	}
	if f.Search == "" {
		return true
	}
	return containsFold(f.Search, c.Husband.Name, c.Wife.Name, c.Parish, c.Region, c.City)
}

func (s *RegistrationService) List(ctx context.Context, f CoupleFilter) ([]models.Couple, error) {
	all, err := s.couples.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Couple, 0, len(all))
	for i := range all {
		if f.match(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// Pending is the approval queue.
func (s *RegistrationService) Pending(ctx context.Context) ([]models.Couple, error) {
	return s.List(ctx, CoupleFilter{Status: models.RegistrationPending})
}

func (s *RegistrationService) Get(ctx context.Context, id uuid.UUID) (*models.Couple, error) {
	c, err := s.couples.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Replace overwrites a registration with c. Status and creation time are
// kept from the stored record; status only moves through Approve/Reject.
func (s *RegistrationService) Replace(ctx context.Context, id uuid.UUID, c models.Couple) (*models.Couple, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateCouple(&c); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, c.Email, id); err != nil {
		return nil, err
	}

	c.ID = id
	c.Status = existing.Status
	c.CreatedAt = existing.CreatedAt
	assignEncounterIDs(c.Encounters)
	if c.Documents == nil {
		c.Documents = existing.Documents
	}
	if err := s.couples.Save(ctx, &c); err != nil {
		return nil, mapSaveError(err)
	}
	return &c, nil
}

func validateCouple(c *models.Couple) error {
	c.Husband.Name = strings.TrimSpace(c.Husband.Name)
	c.Wife.Name = strings.TrimSpace(c.Wife.Name)
	c.Email = strings.TrimSpace(c.Email)

	switch {
	case c.Husband.Name == "":
		return invalid("husband.name", "is required")
	case c.Wife.Name == "":
		return invalid("wife.name", "is required")
	case c.Email == "" || !strings.Contains(c.Email, "@"):
		return invalid("email", "must be a valid address")
	}
	if c.Encounters == nil {
		c.Encounters = make([]models.EncounterRecord, 0)
	}
	for i, e := range c.Encounters {
		if !e.Stage.Valid() {
			return invalid(fmt.Sprintf("encounters[%d].stage", i), "must be STAGE_1, STAGE_2 or STAGE_3")
		}
		if e.Number <= 0 {
			return invalid(fmt.Sprintf("encounters[%d].number", i), "must be positive")
		}
	}
	return nil
}

func assignEncounterIDs(encounters []models.EncounterRecord) {
	for i := range encounters {
		if encounters[i].ID == uuid.Nil {
			encounters[i].ID = uuid.New()
		}
	}
}

// containsFold reports whether any field contains needle, ignoring case.
func containsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
