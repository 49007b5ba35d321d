package app

import (
	"context"
	"testing"

	"github.com/stanleylima25/ECC-Brasil/internal/blob"
	"github.com/stanleylima25/ECC-Brasil/internal/config"
	"github.com/stanleylima25/ECC-Brasil/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStorage_Memory(t *testing.T) {
	s, err := OpenStorage(context.Background(), &config.Config{StorageDriver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	assert.Nil(t, s.DB)
	assert.NotNil(t, s.Store.Users)
	assert.NoError(t, s.Health(context.Background()))
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	_, err := OpenStorage(context.Background(), &config.Config{StorageDriver: "sqlite"}, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenBrokerAndBlobs_Fallbacks(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}

	b, err := OpenBroker(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &realtime.LocalBroker{}, b)

	store, err := OpenBlobs(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, blob.InlineStore{}, store)

	cfg.S3.Bucket = "fotos"
	_, err = OpenBlobs(ctx, cfg, zap.NewNop())
	assert.Error(t, err, "a bucket without credentials is a configuration error")
}
