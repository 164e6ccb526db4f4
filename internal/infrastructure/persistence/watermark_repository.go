package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormWatermarkStore implements WatermarkStore using GORM
type GormWatermarkStore struct {
	db *gorm.DB
}

var _ integration.WatermarkStore = (*GormWatermarkStore)(nil)

// NewGormWatermarkStore creates a new GormWatermarkStore
func NewGormWatermarkStore(db *gorm.DB) *GormWatermarkStore {
	return &GormWatermarkStore{db: db}
}

// Get returns the watermark for a sync job and entity type.
func (r *GormWatermarkStore) Get(ctx context.Context, syncJobID uuid.UUID, entityType integration.EntityType) (time.Time, error) {
	var model models.SyncWatermarkModel
	err := r.db.WithContext(ctx).
		Where("sync_job_id = ? AND entity_type = ?", syncJobID, entityType.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, integration.ErrWatermarkNotFound
		}
		return time.Time{}, err
	}
	return model.LastSyncedAt, nil
}

// Set records the boundary of a completed pass, inserting or updating the
// row for the (sync job, entity type) pair.
func (r *GormWatermarkStore) Set(ctx context.Context, syncJobID uuid.UUID, entityType integration.EntityType, lastSyncedAt time.Time) error {
	model := models.SyncWatermarkModel{
		SyncJobID:    syncJobID,
		EntityType:   entityType.String(),
		LastSyncedAt: lastSyncedAt,
		UpdatedAt:    time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sync_job_id"}, {Name: "entity_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_synced_at", "updated_at"}),
		}).
		Create(&model).Error
}
