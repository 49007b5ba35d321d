package service

import (
	"context"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/blob"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"go.uber.org/zap"
)

const maxPhotoSize = 8 << 20

type GalleryService struct {
	photos repository.PhotoRepository
	events repository.EventRepository
	blobs  blob.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewGalleryService(photos repository.PhotoRepository, events repository.EventRepository, blobs blob.Store, logger *zap.Logger) *GalleryService {
	return &GalleryService{photos: photos, events: events, blobs: blobs, logger: logger, now: time.Now}
}

type PhotoFilter struct {
	// Stage GENERAL or empty means every stage.
	Stage  models.Stage
	Search string
}

func (s *GalleryService) List(ctx context.Context, f PhotoFilter) ([]models.Photo, error) {
	all, err := s.photos.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Photo, 0, len(all))
	for _, p := range all {
		if f.Stage != "" && f.Stage != models.StageGeneral && p.Stage != f.Stage {
			continue
		}
		if f.Search != "" && !containsFold(f.Search, p.Title, p.Description, p.UploadedBy) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type PhotoInput struct {
	Title       string
	Description string
	Stage       models.Stage
	EventID     *uuid.UUID
	File        Upload
}

// Upload stores an image and its gallery entry. Only image content is
// accepted, judged from the bytes rather than the client's content type.
// A linked event must exist and have been held.
func (s *GalleryService) Upload(ctx context.Context, actor *models.User, in PhotoInput) (*models.Photo, error) {
	if actor == nil || !actor.Role.IsLeadership() {
		return nil, ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if in.Stage == "" {
		in.Stage = models.StageGeneral
	}
	if !in.Stage.ValidOrGeneral() {
		return nil, invalid("stage", "unknown stage")
	}
	if len(in.File.Data) == 0 {
		return nil, invalid("file", "is required")
	}
	if len(in.File.Data) > maxPhotoSize {
		return nil, invalid("file", "exceeds 8 MB")
	}
	mt := mimetype.Detect(in.File.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, invalid("file", "must be an image")
	}

	if in.EventID != nil {
		e, err := s.events.GetByID(ctx, *in.EventID)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, invalid("event_id", "unknown event")
		}
		if e.Status != models.EventHeld {
			return nil, invalid("event_id", "photos can only be linked to held events")
		}
	}

	id := uuid.New()
	key := blob.Key("photos", id.String(), in.File.Name)
	url, err := s.blobs.Put(ctx, key, mt.String(), in.File.Data)
	if err != nil {
		return nil, err
	}

	p := &models.Photo{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		URL:         url,
		BlobKey:     key,
		EventID:     in.EventID,
		Stage:       in.Stage,
		UploadedBy:  actor.Name,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.photos.Create(ctx, p); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned photo blob", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	return p, nil
}

// Delete removes the entry and then its stored image.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotFound
	}
	found, err := s.photos.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if p.BlobKey != "" {
		if err := s.blobs.Delete(ctx, p.BlobKey); err != nil {
			s.logger.Warn("failed to remove photo blob", zap.String("key", p.BlobKey), zap.Error(err))
		}
	}
	return nil
}
