// Package app opens the backing services selected by configuration. Both
// the server and the admin CLI start from here.
package app

import (
	"context"
	"fmt"

	"github.com/stanleylima25/ECC-Brasil/internal/blob"
	"github.com/stanleylima25/ECC-Brasil/internal/config"
	"github.com/stanleylima25/ECC-Brasil/internal/db"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stanleylima25/ECC-Brasil/internal/repository"
	"github.com/stanleylima25/ECC-Brasil/internal/repository/memory"
	"github.com/stanleylima25/ECC-Brasil/internal/repository/postgres"
	"go.uber.org/zap"
)

// Storage is an opened repository set. DB is nil for the memory driver.
type Storage struct {
	Store repository.Store
	DB    *db.DB
}

// Health pings Postgres. The memory driver is always healthy.
func (s *Storage) Health(ctx context.Context) error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Health(ctx)
}

func (s *Storage) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

// OpenStorage connects the configured driver. With AUTO_MIGRATE the
// Postgres schema is brought up to date first.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Storage, error) {
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		return &Storage{Store: memory.New().Store()}, nil
	case "postgres":
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if cfg.AutoMigrate {
			if err := database.Migrate(ctx, "up"); err != nil {
				database.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return &Storage{Store: postgres.NewStore(database.Pool()), DB: database}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// OpenBroker uses Redis when REDIS_URL is set, so every instance sees
// every publish, and an in-process broker otherwise.
func OpenBroker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (realtime.Broker, error) {
	if cfg.RedisURL == "" {
		return realtime.NewLocalBroker(), nil
	}
	b, err := realtime.NewRedisBroker(ctx, cfg.RedisURL, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return b, nil
}

func OpenBlobs(ctx context.Context, cfg *config.Config, logger *zap.Logger) (blob.Store, error) {
	if cfg.S3.Bucket == "" {
		logger.Info("no S3 bucket configured; uploads are stored inline")
		return blob.InlineStore{}, nil
	}
	s, err := blob.NewS3Store(ctx, blob.S3Options{
		Bucket:          cfg.S3.Bucket,
		Endpoint:        cfg.S3.Endpoint,
		Region:          cfg.S3.Region,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		PublicBaseURL:   cfg.S3.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open S3 store: %w", err)
	}
	return s, nil
}
