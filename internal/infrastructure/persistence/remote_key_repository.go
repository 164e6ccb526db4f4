package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormRemoteKeyStore implements RemoteKeyStore using GORM
type GormRemoteKeyStore struct {
	db *gorm.DB
}

var _ integration.RemoteKeyStore = (*GormRemoteKeyStore)(nil)

// NewGormRemoteKeyStore creates a new GormRemoteKeyStore
func NewGormRemoteKeyStore(db *gorm.DB) *GormRemoteKeyStore {
	return &GormRemoteKeyStore{db: db}
}

// Get returns the remote key paired with a local entity.
func (r *GormRemoteKeyStore) Get(ctx context.Context, entityType integration.EntityType, localID uuid.UUID) (string, error) {
	var model models.RemoteKeyMappingModel
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND local_id = ?", entityType.String(), localID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", integration.ErrRemoteKeyNotFound
		}
		return "", err
	}
	return model.RemoteKey, nil
}

// GetLocal returns the local entity ID paired with a remote key.
func (r *GormRemoteKeyStore) GetLocal(ctx context.Context, entityType integration.EntityType, remoteKey string) (uuid.UUID, error) {
	var model models.RemoteKeyMappingModel
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND remote_key = ?", entityType.String(), remoteKey).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, integration.ErrRemoteKeyNotFound
		}
		return uuid.Nil, err
	}
	return model.LocalID, nil
}

// Put records a pairing. Re-inserting the identical pair is a no-op; a pair
// colliding with an existing mapping on either side fails with
// ErrRemoteKeyConflict.
func (r *GormRemoteKeyStore) Put(ctx context.Context, entityType integration.EntityType, localID uuid.UUID, remoteKey string) error {
	mapping, err := integration.NewRemoteKeyMapping(entityType, localID, remoteKey)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.RemoteKeyMappingModel
		err := tx.
			Where("entity_type = ? AND (local_id = ? OR remote_key = ?)", entityType.String(), localID, remoteKey).
			First(&existing).Error
		if err == nil {
			if existing.LocalID == localID && existing.RemoteKey == remoteKey {
				return nil
			}
			return integration.ErrRemoteKeyConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var model models.RemoteKeyMappingModel
		model.FromDomain(mapping)
		return tx.Create(&model).Error
	})
}
