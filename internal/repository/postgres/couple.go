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
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
)

// CoupleStore keeps each registration as a JSONB document. The columns next
// to it (email, status, created_at) exist for filtering and ordering and are
// rewritten together with the document.
type CoupleStore struct {
	pool *pgxpool.Pool
}

func NewCoupleStore(pool *pgxpool.Pool) *CoupleStore {
	return &CoupleStore{pool: pool}
}

func (s *CoupleStore) List(ctx context.Context) ([]models.Couple, error) {
	query := `SELECT record FROM couples ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list couples: %w", err)
	}
	defer rows.Close()

	couples := make([]models.Couple, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan couple: %w", err)
		}
		var c models.Couple
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode couple: %w", err)
		}
		couples = append(couples, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate couples: %w", err)
	}
	return couples, nil
}

func (s *CoupleStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Couple, error) {
	query := `SELECT record FROM couples WHERE id = $1`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get couple: %w", err)
	}
	var c models.Couple
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode couple: %w", err)
	}
	return &c, nil
}

func (s *CoupleStore) Save(ctx context.Context, c *models.Couple) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode couple: %w", err)
	}

	query := `
		INSERT INTO couples (id, email, status, created_at, record)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    status = EXCLUDED.status,
		    created_at = EXCLUDED.created_at,
		    record = EXCLUDED.record`

	if _, err := s.pool.Exec(ctx, query, c.ID, c.Email, string(c.Status), c.CreatedAt, raw); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("save couple: %w", err)
	}
	return nil
}

// TransitionStatus locks the row, so of two concurrent transitions out of
// the same status only the first one writes.
func (s *CoupleStore) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.RegistrationStatus) (models.RegistrationStatus, bool, error) {
	var (
		prev  models.RegistrationStatus
		found bool
	)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `SELECT status FROM couples WHERE id = $1 FOR UPDATE`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		found = true
		prev = models.RegistrationStatus(current)
		if prev != from {
			return nil
		}

		_, err = tx.Exec(ctx, `
			UPDATE couples
			SET status = $2,
			    record = jsonb_set(record, '{status}', to_jsonb($2::text))
			WHERE id = $1`, id, string(to))
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("transition couple status: %w", err)
	}
	return prev, found, nil
}

func (s *CoupleStore) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM couples
			WHERE lower(btrim(email)) = lower(btrim($1)) AND id <> $2
		)`

	var taken bool
	if err := s.pool.QueryRow(ctx, query, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check couple email: %w", err)
	}
	return taken, nil
}
