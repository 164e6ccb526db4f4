package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboundBatchAdd(t *testing.T) {
	batch := &OutboundBatch{}
	assert.True(t, batch.IsEmpty())

	first := uuid.New()
	second := uuid.New()
	batch.Add("SKU-1", first, 5)
	batch.Add("SKU-2", second, 0)

	assert.False(t, batch.IsEmpty())
	require.Len(t, batch.Messages, 2)
	assert.Equal(t, 1, batch.Messages[0].MessageID)
	assert.Equal(t, 2, batch.Messages[1].MessageID)
	assert.Equal(t, OperationTypeUpdate, batch.Messages[0].OperationType)
	assert.Equal(t, "SKU-2", batch.Messages[1].SKU)
	assert.Equal(t, int64(0), batch.Messages[1].Quantity)

	require.Len(t, batch.PendingUpdates, 2)
	assert.Equal(t, first, batch.PendingUpdates[0].ProductID)
	assert.Equal(t, int64(5), batch.PendingUpdates[0].Stock)
}

func TestMoneyAmountOrZero(t *testing.T) {
	var missing *Money
	assert.True(t, missing.AmountOrZero().IsZero())

	price := &Money{Amount: decimal.RequireFromString("19.99"), CurrencyCode: "EUR"}
	assert.Equal(t, "19.99", price.AmountOrZero().String())
}
