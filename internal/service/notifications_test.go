package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stanleylima25/ECC-Brasil/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_ReadState(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	me, other := uuid.New(), uuid.New()

	first, err := f.notifications.Notify(ctx, me, "a", "a", models.NotificationInfo)
	require.NoError(t, err)
	_, err = f.notifications.Notify(ctx, me, "b", "b", models.NotificationInfo)
	require.NoError(t, err)
	theirs, err := f.notifications.Notify(ctx, other, "c", "c", models.NotificationWarning)
	require.NoError(t, err)

	assert.ErrorIs(t, f.notifications.MarkRead(ctx, me, theirs.ID), ErrNotFound)
	require.NoError(t, f.notifications.MarkRead(ctx, me, first.ID))

	list, err := f.notifications.List(ctx, me)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 1, list.Unread)

	n, err := f.notifications.MarkAllRead(ctx, me)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	list, err = f.notifications.List(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Unread, "other users are untouched")
}
