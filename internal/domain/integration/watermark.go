package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// SyncWatermark
// ---------------------------------------------------------------------------

// SyncWatermark is the last successfully synchronized timestamp for one
// (sync job, entity type) combination. It bounds the query window of the
// next import pass.
type SyncWatermark struct {
	// SyncJobID identifies the configured synchronization job
	SyncJobID uuid.UUID
	// EntityType identifies the record family
	EntityType EntityType
	// LastSyncedAt is the boundary of the last complete pass
	LastSyncedAt time.Time
	// UpdatedAt is when the watermark was last advanced
	UpdatedAt time.Time
}

// ---------------------------------------------------------------------------
// WatermarkStore Port
// ---------------------------------------------------------------------------

// WatermarkStore persists sync watermarks. Set is only called after a pass
// completes without fatal error; a pass that fails partway never advances
// the watermark, so the next run re-scans the same window and relies on the
// RemoteKeyStore to skip records already imported.
type WatermarkStore interface {
	// Get returns the watermark for a sync job and entity type.
	// Returns ErrWatermarkNotFound when no pass has completed yet.
	Get(ctx context.Context, syncJobID uuid.UUID, entityType EntityType) (time.Time, error)

	// Set records the boundary of a completed pass.
	Set(ctx context.Context, syncJobID uuid.UUID, entityType EntityType, lastSyncedAt time.Time) error
}
