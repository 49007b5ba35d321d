package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type RegionStore struct {
	db *DB
}

func (s *RegionStore) List(_ context.Context) ([]models.Region, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	regions := make([]models.Region, 0, len(s.db.regions))
	for _, r := range s.db.regions {
		regions = append(regions, cloneRegion(r))
	}
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions, nil
}

func (s *RegionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Region, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, r := range s.db.regions {
		if r.ID == id {
			out := cloneRegion(r)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *RegionStore) Save(_ context.Context, r *models.Region) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.regions {
		if s.db.regions[i].ID == r.ID {
			s.db.regions[i] = cloneRegion(*r)
			return nil
		}
	}
	s.db.regions = append(s.db.regions, cloneRegion(*r))
	return nil
}

type SongStore struct {
	db *DB
}

func (s *SongStore) List(_ context.Context) ([]models.Song, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	songs := make([]models.Song, len(s.db.songs))
	copy(songs, s.db.songs)
	return songs, nil
}

func (s *SongStore) Create(_ context.Context, song *models.Song) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.songs = append(s.db.songs, *song)
	return nil
}

func (s *SongStore) Seed(_ context.Context, song *models.Song) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.songs {
		if existing.ID == song.ID {
			return false, nil
		}
	}
	s.db.songs = append(s.db.songs, *song)
	return true, nil
}

type PhotoStore struct {
	db *DB
}

func (s *PhotoStore) List(_ context.Context) ([]models.Photo, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	photos := make([]models.Photo, 0, len(s.db.photos))
	for _, p := range s.db.photos {
		photos = append(photos, clonePhoto(p))
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})
	return photos, nil
}

func (s *PhotoStore) GetByID(_ context.Context, id uuid.UUID) (*models.Photo, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, p := range s.db.photos {
		if p.ID == id {
			out := clonePhoto(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *PhotoStore) Create(_ context.Context, p *models.Photo) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.photos = append(s.db.photos, clonePhoto(*p))
	return nil
}

func (s *PhotoStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.photos {
		if s.db.photos[i].ID == id {
			s.db.photos = append(s.db.photos[:i], s.db.photos[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
