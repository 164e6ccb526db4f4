package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemoteKeyMapping_Success(t *testing.T) {
	localID := uuid.New()

	mapping, err := NewRemoteKeyMapping(EntityTypeOrders, localID, "026-1234567-1234567")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, mapping.ID)
	assert.Equal(t, EntityTypeOrders, mapping.EntityType)
	assert.Equal(t, localID, mapping.LocalID)
	assert.Equal(t, "026-1234567-1234567", mapping.RemoteKey)
	assert.False(t, mapping.CreatedAt.IsZero())
}

func TestNewRemoteKeyMapping_InvalidEntityType(t *testing.T) {
	_, err := NewRemoteKeyMapping(EntityType("Bananas"), uuid.New(), "key")
	assert.ErrorIs(t, err, ErrInvalidEntityType)
}

func TestNewRemoteKeyMapping_NilLocalID(t *testing.T) {
	_, err := NewRemoteKeyMapping(EntityTypeProducts, uuid.Nil, "key")
	assert.ErrorIs(t, err, ErrInvalidLocalID)
}

func TestNewRemoteKeyMapping_EmptyRemoteKey(t *testing.T) {
	_, err := NewRemoteKeyMapping(EntityTypeProducts, uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidRemoteKey)
}
