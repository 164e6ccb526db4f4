package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopsync/backend/internal/domain/integration"
)

// RemoteKeyMappingModel is the persistence model for remote key mappings.
// Both sides of a pairing are unique per entity type.
type RemoteKeyMappingModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityType string    `gorm:"type:varchar(40);not null;uniqueIndex:idx_remote_keys_local,priority:1;uniqueIndex:idx_remote_keys_remote,priority:1"`
	LocalID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_remote_keys_local,priority:2"`
	RemoteKey  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_remote_keys_remote,priority:2"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RemoteKeyMappingModel) TableName() string {
	return "remote_key_mappings"
}

// ToDomain converts the persistence model to a domain RemoteKeyMapping.
func (m *RemoteKeyMappingModel) ToDomain() *integration.RemoteKeyMapping {
	return &integration.RemoteKeyMapping{
		ID:         m.ID,
		EntityType: integration.EntityType(m.EntityType),
		LocalID:    m.LocalID,
		RemoteKey:  m.RemoteKey,
		CreatedAt:  m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain RemoteKeyMapping.
func (m *RemoteKeyMappingModel) FromDomain(mapping *integration.RemoteKeyMapping) {
	m.ID = mapping.ID
	m.EntityType = mapping.EntityType.String()
	m.LocalID = mapping.LocalID
	m.RemoteKey = mapping.RemoteKey
	m.CreatedAt = mapping.CreatedAt
}

// SyncWatermarkModel is the persistence model for sync watermarks, keyed by
// sync job and entity type.
type SyncWatermarkModel struct {
	SyncJobID    uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityType   string    `gorm:"type:varchar(40);primary_key"`
	LastSyncedAt time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncWatermarkModel) TableName() string {
	return "sync_watermarks"
}

// SyncImportLogModel records one per-record import outcome.
type SyncImportLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityType string    `gorm:"type:varchar(40);not null;index:idx_sync_import_logs_entity"`
	RemoteKey  string    `gorm:"type:varchar(100);not null"`
	Success    bool      `gorm:"not null"`
	Message    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SyncImportLogModel) TableName() string {
	return "sync_import_logs"
}
