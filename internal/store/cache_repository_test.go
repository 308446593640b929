package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workix/fieldsync/models"
)

func TestEntityCacheRepository_TimestampOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t, filepath.Join(t.TempDir(), "offline.db"))
	base := time.Now().Truncate(time.Millisecond)

	applied, err := s.EntityCache.UpsertEntity(ctx, models.CachedEntity{
		ID: "work-orders/42", Payload: "v2", UpdatedAt: base.Add(2 * time.Second),
	})
	require.NoError(t, err)
	assert.True(t, applied)

	// A stale snapshot must not win over the newer cached row.
	applied, err = s.EntityCache.UpsertEntity(ctx, models.CachedEntity{
		ID: "work-orders/42", Payload: "v1", UpdatedAt: base.Add(1 * time.Second),
	})
	require.NoError(t, err)
	assert.False(t, applied)

	// Neither does a snapshot with the same timestamp.
	applied, err = s.EntityCache.UpsertEntity(ctx, models.CachedEntity{
		ID: "work-orders/42", Payload: "v2-replay", UpdatedAt: base.Add(2 * time.Second),
	})
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.EntityCache.GetEntity(ctx, "work-orders/42")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Payload)
	assert.Equal(t, base.Add(2*time.Second).UnixMilli(), got.UpdatedAt.UnixMilli())

	// A strictly newer snapshot overwrites.
	applied, err = s.EntityCache.UpsertEntity(ctx, models.CachedEntity{
		ID: "work-orders/42", Payload: "v3", UpdatedAt: base.Add(3 * time.Second),
	})
	require.NoError(t, err)
	assert.True(t, applied)

	got, err = s.EntityCache.GetEntity(ctx, "work-orders/42")
	require.NoError(t, err)
	assert.Equal(t, "v3", got.Payload)
}

func TestEntityCacheRepository_ListByEntityType(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t, filepath.Join(t.TempDir(), "offline.db"))
	now := time.Now()

	for _, id := range []string{"work-orders/1", "work-orders/2", "assets/9"} {
		_, err := s.EntityCache.UpsertEntity(ctx, models.CachedEntity{
			ID: id, Payload: "ct", UpdatedAt: now,
		})
		require.NoError(t, err)
	}

	workOrders, err := s.EntityCache.ListEntities(ctx, "work-orders")
	require.NoError(t, err)
	require.Len(t, workOrders, 2)
	assert.Equal(t, "work-orders/1", workOrders[0].ID)
	assert.Equal(t, "work-orders/2", workOrders[1].ID)

	assets, err := s.EntityCache.ListEntities(ctx, "assets")
	require.NoError(t, err)
	assert.Len(t, assets, 1)

	sites, err := s.EntityCache.ListEntities(ctx, "sites")
	require.NoError(t, err)
	assert.Empty(t, sites)
}

func TestMetadataRepository_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStorages(t, filepath.Join(t.TempDir(), "offline.db"))

	_, err := s.Metadata.GetValue(ctx, "last_pull:work-orders")
	assert.ErrorIs(t, err, ErrMetadataNotFound)

	require.NoError(t, s.Metadata.SetValue(ctx, "last_pull:work-orders", "1700000000000"))
	got, err := s.Metadata.GetValue(ctx, "last_pull:work-orders")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", got)

	require.NoError(t, s.Metadata.SetValue(ctx, "last_pull:work-orders", "1700000001000"))
	got, err = s.Metadata.GetValue(ctx, "last_pull:work-orders")
	require.NoError(t, err)
	assert.Equal(t, "1700000001000", got)
}
