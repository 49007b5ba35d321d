package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
)

type RegionStore struct {
	pool *pgxpool.Pool
}

func NewRegionStore(pool *pgxpool.Pool) *RegionStore {
	return &RegionStore{pool: pool}
}

func (s *RegionStore) List(ctx context.Context) ([]models.Region, error) {
	rows, err := s.pool.Query(ctx, `SELECT record FROM regions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	regions := make([]models.Region, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		var r models.Region
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("decode region: %w", err)
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}
	return regions, nil
}

func (s *RegionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	var raw []byte
	if err := s.pool.QueryRow(ctx, `SELECT record FROM regions WHERE id = $1`, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get region: %w", err)
	}
	var r models.Region
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode region: %w", err)
	}
	return &r, nil
}

func (s *RegionStore) Save(ctx context.Context, r *models.Region) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode region: %w", err)
	}
	query := `
		INSERT INTO regions (id, name, state, record)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, state = EXCLUDED.state, record = EXCLUDED.record`

	if _, err := s.pool.Exec(ctx, query, r.ID, r.Name, r.State, raw); err != nil {
		return fmt.Errorf("save region: %w", err)
	}
	return nil
}

type SongStore struct {
	pool *pgxpool.Pool
}

func NewSongStore(pool *pgxpool.Pool) *SongStore {
	return &SongStore{pool: pool}
}

func (s *SongStore) List(ctx context.Context) ([]models.Song, error) {
	query := `
		SELECT id, title, author, stage, lyrics, category, video_url
		FROM songs
		ORDER BY seq`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := make([]models.Song, 0)
	for rows.Next() {
		var (
			song  models.Song
			stage string
		)
		if err := rows.Scan(&song.ID, &song.Title, &song.Author, &stage, &song.Lyrics, &song.Category, &song.VideoURL); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		song.Stage = models.Stage(stage)
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

func (s *SongStore) Create(ctx context.Context, song *models.Song) error {
	query := `
		INSERT INTO songs (id, title, author, stage, lyrics, category, video_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, query,
		song.ID, song.Title, song.Author, string(song.Stage), song.Lyrics, song.Category, song.VideoURL)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

func (s *SongStore) Seed(ctx context.Context, song *models.Song) (bool, error) {
	query := `
		INSERT INTO songs (id, title, author, stage, lyrics, category, video_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query,
		song.ID, song.Title, song.Author, string(song.Stage), song.Lyrics, song.Category, song.VideoURL)
	if err != nil {
		return false, fmt.Errorf("seed song: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

type PhotoStore struct {
	pool *pgxpool.Pool
}

func NewPhotoStore(pool *pgxpool.Pool) *PhotoStore {
	return &PhotoStore{pool: pool}
}

const photoColumns = `id, title, description, url, blob_key, event_id, stage, uploaded_by, created_at`

func (s *PhotoStore) List(ctx context.Context) ([]models.Photo, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+photoColumns+` FROM photos ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return photos, nil
}

func (s *PhotoStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error) {
	p, err := scanPhoto(s.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get photo: %w", err)
	}
	return p, nil
}

func (s *PhotoStore) Create(ctx context.Context, p *models.Photo) error {
	query := `INSERT INTO photos (` + photoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.URL, p.BlobKey, p.EventID, string(p.Stage), p.UploadedBy, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (s *PhotoStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete photo: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanPhoto(row pgx.Row) (*models.Photo, error) {
	var (
		p     models.Photo
		stage string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.URL, &p.BlobKey, &p.EventID, &stage, &p.UploadedBy, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Stage = models.Stage(stage)
	return &p, nil
}
