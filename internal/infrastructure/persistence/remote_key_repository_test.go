package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// setupSyncTestDB creates an in-memory SQLite database with the sync tables
func setupSyncTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.RemoteKeyMappingModel{},
		&models.SyncWatermarkModel{},
		&models.SyncImportLogModel{},
	)
	require.NoError(t, err)
	return db
}

func TestRemoteKeyStore_PutAndGet(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()
	localID := uuid.New()

	err := store.Put(ctx, integration.EntityTypeOrders, localID, "026-111")
	require.NoError(t, err)

	remoteKey, err := store.Get(ctx, integration.EntityTypeOrders, localID)
	require.NoError(t, err)
	assert.Equal(t, "026-111", remoteKey)

	gotLocal, err := store.GetLocal(ctx, integration.EntityTypeOrders, "026-111")
	require.NoError(t, err)
	assert.Equal(t, localID, gotLocal)
}

func TestRemoteKeyStore_NotFound(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()

	_, err := store.Get(ctx, integration.EntityTypeOrders, uuid.New())
	assert.ErrorIs(t, err, integration.ErrRemoteKeyNotFound)

	_, err = store.GetLocal(ctx, integration.EntityTypeOrders, "missing")
	assert.ErrorIs(t, err, integration.ErrRemoteKeyNotFound)
}

func TestRemoteKeyStore_PutIdempotent(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()
	localID := uuid.New()

	require.NoError(t, store.Put(ctx, integration.EntityTypeProducts, localID, "SKU-1"))
	require.NoError(t, store.Put(ctx, integration.EntityTypeProducts, localID, "SKU-1"))

	remoteKey, err := store.Get(ctx, integration.EntityTypeProducts, localID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", remoteKey)
}

func TestRemoteKeyStore_ConflictOnLocalSide(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()
	localID := uuid.New()

	require.NoError(t, store.Put(ctx, integration.EntityTypeProducts, localID, "SKU-1"))

	err := store.Put(ctx, integration.EntityTypeProducts, localID, "SKU-2")
	assert.ErrorIs(t, err, integration.ErrRemoteKeyConflict)
}

func TestRemoteKeyStore_ConflictOnRemoteSide(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, integration.EntityTypeProducts, uuid.New(), "SKU-1"))

	err := store.Put(ctx, integration.EntityTypeProducts, uuid.New(), "SKU-1")
	assert.ErrorIs(t, err, integration.ErrRemoteKeyConflict)
}

func TestRemoteKeyStore_EntityTypesIsolated(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()

	// The same remote key may exist once per entity type.
	require.NoError(t, store.Put(ctx, integration.EntityTypeProducts, uuid.New(), "K-1"))
	require.NoError(t, store.Put(ctx, integration.EntityTypeOrders, uuid.New(), "K-1"))

	_, err := store.GetLocal(ctx, integration.EntityTypeProducts, "K-1")
	assert.NoError(t, err)
}

func TestRemoteKeyStore_RejectsInvalidInput(t *testing.T) {
	store := NewGormRemoteKeyStore(setupSyncTestDB(t))
	ctx := context.Background()

	err := store.Put(ctx, integration.EntityType("Bananas"), uuid.New(), "K-1")
	assert.ErrorIs(t, err, integration.ErrInvalidEntityType)

	err = store.Put(ctx, integration.EntityTypeOrders, uuid.Nil, "K-1")
	assert.ErrorIs(t, err, integration.ErrInvalidLocalID)

	err = store.Put(ctx, integration.EntityTypeOrders, uuid.New(), "")
	assert.ErrorIs(t, err, integration.ErrInvalidRemoteKey)
}
