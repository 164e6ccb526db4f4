package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormSyncLog implements SyncLog using GORM
type GormSyncLog struct {
	db *gorm.DB
}

var _ integration.SyncLog = (*GormSyncLog)(nil)

// NewGormSyncLog creates a new GormSyncLog
func NewGormSyncLog(db *gorm.DB) *GormSyncLog {
	return &GormSyncLog{db: db}
}

// RecordImportSuccess marks a remote record as successfully paired.
func (r *GormSyncLog) RecordImportSuccess(ctx context.Context, entityType integration.EntityType, remoteKey string) error {
	return r.record(ctx, entityType, remoteKey, true, "")
}

// RecordImportError records a non-fatal per-record failure.
func (r *GormSyncLog) RecordImportError(ctx context.Context, entityType integration.EntityType, remoteKey, message string) error {
	return r.record(ctx, entityType, remoteKey, false, message)
}

func (r *GormSyncLog) record(ctx context.Context, entityType integration.EntityType, remoteKey string, success bool, message string) error {
	model := models.SyncImportLogModel{
		ID:         uuid.New(),
		EntityType: entityType.String(),
		RemoteKey:  remoteKey,
		Success:    success,
		Message:    message,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
