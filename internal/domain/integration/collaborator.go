package integration

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Entity Collaborator Ports
// ---------------------------------------------------------------------------
// The engine does not own the merchant's business entities. It reaches them
// through these narrow lookup/upsert interfaces; persistence and querying of
// the catalog itself live elsewhere.

// CatalogProduct is the slice of a merchant product the engine needs.
type CatalogProduct struct {
	// ID is the local product ID
	ID uuid.UUID
	// Model is the merchant model code
	Model string
	// EAN is the product barcode, used as the pairing fallback
	EAN string
	// Stock is the current merchant stock level
	Stock decimal.Decimal
	// MarketplaceAvailability is the stock value last published to the
	// marketplace, as stored; empty when never published
	MarketplaceAvailability string
}

// ProductCatalog looks up and updates merchant products.
type ProductCatalog interface {
	// FindByID returns a product by local ID.
	// Returns ErrProductNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*CatalogProduct, error)

	// FindByEAN returns a product by barcode.
	// Returns ErrProductNotFound when absent.
	FindByEAN(ctx context.Context, ean string) (*CatalogProduct, error)

	// ListForAvailabilityExport returns the products eligible for the
	// availability export pass.
	ListForAvailabilityExport(ctx context.Context) ([]CatalogProduct, error)

	// UpdateAvailability persists a published stock value on a product.
	UpdateAvailability(ctx context.Context, id uuid.UUID, stock int64) error
}

// OrderImporter creates local orders from mapped marketplace orders.
type OrderImporter interface {
	// CreateOrder persists a mapped order and returns its local ID
	CreateOrder(ctx context.Context, order *LocalOrder) (uuid.UUID, error)
}

// CurrencyLookup resolves currency codes to local currency IDs.
type CurrencyLookup interface {
	// FindIDByCode returns the local currency ID for an ISO code.
	// Returns ErrCurrencyNotFound when the shop does not carry the currency.
	FindIDByCode(ctx context.Context, code string) (uuid.UUID, error)
}

// CountryLookup resolves ISO country codes to local country IDs.
type CountryLookup interface {
	// FindIDByISO2 returns the local country ID for an ISO 3166-1 alpha-2
	// code. Returns ErrCountryNotFound when absent.
	FindIDByISO2(ctx context.Context, code string) (uuid.UUID, error)
}

// SyncLog records per-record import outcomes. Record-level failures are
// logged through here and never abort a pass.
type SyncLog interface {
	// RecordImportSuccess marks a remote record as successfully paired
	RecordImportSuccess(ctx context.Context, entityType EntityType, remoteKey string) error

	// RecordImportError records a non-fatal per-record failure
	RecordImportError(ctx context.Context, entityType EntityType, remoteKey, message string) error
}
