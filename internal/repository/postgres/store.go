// Package postgres implements the repository interfaces on top of pgxpool.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
)

func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Users:         NewUserStore(pool),
		Couples:       NewCoupleStore(pool),
		Events:        NewEventStore(pool),
		Messages:      NewMessageStore(pool),
		Notifications: NewNotificationStore(pool),
		Regions:       NewRegionStore(pool),
		Songs:         NewSongStore(pool),
		Photos:        NewPhotoStore(pool),
	}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
