package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

func TestOrderImporter_CreateOrderPersistsLines(t *testing.T) {
	db := setupMerchantTestDB(t)
	importer := NewGormOrderImporter(db)
	productID := uuid.New()

	order := &integration.LocalOrder{
		RemoteOrderID: "026-5344233-3983155",
		RemoteStatus:  "Unshipped",
		CustomerEmail: "buyer@marketplace.example",
		CurrencyCode:  "EUR",
		Billing: integration.OrderAddress{
			Name:     "Erika Mustermann",
			Address:  "Musterstr. 1",
			City:     "Berlin",
			PostCode: "10115",
		},
		Shipping: integration.OrderAddress{
			Name:     "Erika Mustermann",
			Address:  "Musterstr. 1",
			City:     "Berlin",
			PostCode: "10115",
		},
		SuppressNotifications: true,
		Lines: []integration.LocalOrderLine{
			{
				Type:      integration.OrderLineTypeProduct,
				Name:      "Widget",
				Quantity:  3,
				UnitPrice: decimal.RequireFromString("19.99"),
				TaxRate:   decimal.NewFromInt(19),
				ProductID: &productID,
				Model:     "WIDGET-1",
			},
			{
				Type:      integration.OrderLineTypeShipping,
				Name:      "Shipping",
				Quantity:  1,
				UnitPrice: decimal.RequireFromString("3.9"),
				TaxRate:   decimal.Zero,
			},
		},
	}

	id, err := importer.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	var stored models.OrderModel
	require.NoError(t, db.Preload("Lines").First(&stored, "id = ?", id).Error)
	assert.Equal(t, "026-5344233-3983155", stored.RemoteOrderID)
	assert.Equal(t, "Unshipped", stored.RemoteStatus)
	assert.True(t, stored.SuppressNotifications)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, 1, stored.Lines[0].Position)
	assert.Equal(t, string(integration.OrderLineTypeProduct), stored.Lines[0].Type)
	assert.True(t, stored.Lines[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 2, stored.Lines[1].Position)
	assert.Equal(t, string(integration.OrderLineTypeShipping), stored.Lines[1].Type)
}

func TestOrderImporter_DuplicateRemoteOrderRejected(t *testing.T) {
	db := setupMerchantTestDB(t)
	importer := NewGormOrderImporter(db)

	order := &integration.LocalOrder{
		RemoteOrderID: "026-5344233-3983155",
		RemoteStatus:  "Unshipped",
		CurrencyCode:  "EUR",
	}

	_, err := importer.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	_, err = importer.CreateOrder(context.Background(), order)
	assert.Error(t, err)
}
