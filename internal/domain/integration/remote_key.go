package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// RemoteKeyMapping Entity
// ---------------------------------------------------------------------------

// RemoteKeyMapping pairs a local entity with the identifier the marketplace
// assigned to the same record. Both (EntityType, LocalID) and
// (EntityType, RemoteKey) are unique; a mapping is created on first
// successful pairing and never deleted during normal operation.
type RemoteKeyMapping struct {
	// ID is the unique identifier of this mapping
	ID uuid.UUID
	// EntityType identifies the record family this mapping belongs to
	EntityType EntityType
	// LocalID is our internal entity ID
	LocalID uuid.UUID
	// RemoteKey is the identifier assigned by the marketplace
	RemoteKey string
	// CreatedAt is when this mapping was first recorded
	CreatedAt time.Time
}

// NewRemoteKeyMapping creates a new remote key mapping
func NewRemoteKeyMapping(entityType EntityType, localID uuid.UUID, remoteKey string) (*RemoteKeyMapping, error) {
	if !entityType.IsValid() {
		return nil, ErrInvalidEntityType
	}
	if localID == uuid.Nil {
		return nil, ErrInvalidLocalID
	}
	if remoteKey == "" {
		return nil, ErrInvalidRemoteKey
	}

	return &RemoteKeyMapping{
		ID:         uuid.New(),
		EntityType: entityType,
		LocalID:    localID,
		RemoteKey:  remoteKey,
		CreatedAt:  time.Now(),
	}, nil
}

// ---------------------------------------------------------------------------
// RemoteKeyStore Port
// ---------------------------------------------------------------------------

// RemoteKeyStore persists remote key mappings. It is the idempotency gate of
// the whole engine: imports consult it before creating local entities, and
// exports only consider entities it already knows about.
type RemoteKeyStore interface {
	// Get returns the remote key paired with a local entity.
	// Returns ErrRemoteKeyNotFound when no mapping exists.
	Get(ctx context.Context, entityType EntityType, localID uuid.UUID) (string, error)

	// GetLocal returns the local entity ID paired with a remote key.
	// Returns ErrRemoteKeyNotFound when no mapping exists.
	GetLocal(ctx context.Context, entityType EntityType, remoteKey string) (uuid.UUID, error)

	// Put records a pairing. Re-inserting an identical pair is a no-op;
	// a pair that collides with an existing mapping on either side fails
	// with ErrRemoteKeyConflict.
	Put(ctx context.Context, entityType EntityType, localID uuid.UUID, remoteKey string) error
}
