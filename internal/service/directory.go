package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"go.uber.org/zap"
)

// DirectoryService serves the apostolic region directory and the song book.
type DirectoryService struct {
	regions repository.RegionRepository
	songs   repository.SongRepository
	logger  *zap.Logger

	seedMu sync.Mutex
}

func NewDirectoryService(regions repository.RegionRepository, songs repository.SongRepository, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{regions: regions, songs: songs, logger: logger}
}

// ListRegions filters by name or state, case-insensitively.
func (s *DirectoryService) ListRegions(ctx context.Context, search string) ([]models.Region, error) {
	all, err := s.regions.List(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(search) == "" {
		return all, nil
	}
	out := make([]models.Region, 0, len(all))
	for _, r := range all {
		if containsFold(search, r.Name, r.State) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *DirectoryService) GetRegion(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	r, err := s.regions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

// SaveRegion upserts r. The result carries exactly one leader per stage,
// in stage order; missing stages get an empty leader.
func (s *DirectoryService) SaveRegion(ctx context.Context, r models.Region) (*models.Region, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return nil, invalid("name", "is required")
	}
	if r.TermStart != nil && r.TermEnd != nil && r.TermEnd.Before(*r.TermStart) {
		return nil, invalid("term_end", "must not be before term_start")
	}

	leaders := make(map[models.Stage]models.StageLeader, len(models.Stages))
	for _, l := range r.StageLeaders {
		if !l.Stage.Valid() {
			return nil, invalid("stage_leaders", "unknown stage "+string(l.Stage))
		}
		leaders[l.Stage] = l
	}
	r.StageLeaders = make([]models.StageLeader, 0, len(models.Stages))
	for _, stage := range models.Stages {
		l, ok := leaders[stage]
		if !ok {
			l = models.StageLeader{Stage: stage}
		}
		r.StageLeaders = append(r.StageLeaders, l)
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if err := s.regions.Save(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DefaultSong is placed in an empty song book.
var DefaultSong = models.Song{
	ID:       uuid.MustParse("3f9a7a52-4c1e-5b8e-9d61-2f0c1b6a7e01"),
	Title:    "Oração pela Família",
	Author:   "Padre Zezinho",
	Stage:    models.StageFirst,
	Category: "Espiritualidade",
	Lyrics: "Que nenhuma família comece em qualquer de repente\n" +
		"Que nenhuma família termine por falta de amor\n" +
		"Que o casal seja um para o outro de corpo e de mente\n" +
		"E que nada no mundo separe um casal sonhador...",
	VideoURL: "https://www.youtube.com/watch?v=M5G877FAn3k",
}

type SongFilter struct {
	Stage  models.Stage
	Search string
}

// ListSongs returns the song book in insertion order. An empty book is
// seeded with DefaultSong first.
func (s *DirectoryService) ListSongs(ctx context.Context, f SongFilter) ([]models.Song, error) {
	songs, err := s.seededSongs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Song, 0, len(songs))
	for _, song := range songs {
		if f.Stage != "" && song.Stage != f.Stage {
			continue
		}
		if f.Search != "" && !containsFold(f.Search, song.Title, song.Author) {
			continue
		}
		out = append(out, song)
	}
	return out, nil
}

func (s *DirectoryService) seededSongs(ctx context.Context) ([]models.Song, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(songs) > 0 {
		return songs, nil
	}
	seed := DefaultSong
	inserted, err := s.songs.Seed(ctx, &seed)
	if err != nil {
		return nil, err
	}
	if inserted {
		s.logger.Info("song book seeded")
	}
	// another instance may have seeded first; read back what is stored
	return s.songs.List(ctx)
}

func (s *DirectoryService) AddSong(ctx context.Context, song models.Song) (*models.Song, error) {
	song.Title = strings.TrimSpace(song.Title)
	switch {
	case song.Title == "":
		return nil, invalid("title", "is required")
	case !song.Stage.Valid():
		return nil, invalid("stage", "must be STAGE_1, STAGE_2 or STAGE_3")
	}
	// make sure the default song keeps its place at the top of the book
	if _, err := s.seededSongs(ctx); err != nil {
		return nil, err
	}
	song.ID = uuid.New()
	if err := s.songs.Create(ctx, &song); err != nil {
		return nil, err
	}
	return &song, nil
}
