package persistence

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormProductCatalog implements ProductCatalog against the merchant product
// table.
type GormProductCatalog struct {
	db *gorm.DB
}

var _ integration.ProductCatalog = (*GormProductCatalog)(nil)

// NewGormProductCatalog creates a new GormProductCatalog
func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// FindByID returns a product by local ID.
func (r *GormProductCatalog) FindByID(ctx context.Context, id uuid.UUID) (*integration.CatalogProduct, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEAN returns a product by barcode.
func (r *GormProductCatalog) FindByEAN(ctx context.Context, ean string) (*integration.CatalogProduct, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "ean = ?", ean).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListForAvailabilityExport returns active products in stable ID order.
func (r *GormProductCatalog) ListForAvailabilityExport(ctx context.Context) ([]integration.CatalogProduct, error) {
	var productModels []models.ProductModel
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id ASC").
		Find(&productModels).Error
	if err != nil {
		return nil, err
	}

	products := make([]integration.CatalogProduct, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// UpdateAvailability persists a published stock value on a product.
func (r *GormProductCatalog) UpdateAvailability(ctx context.Context, id uuid.UUID, stock int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"amazon_availability": strconv.FormatInt(stock, 10),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrProductNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lookup Repositories
// ---------------------------------------------------------------------------

// GormCurrencyLookup implements CurrencyLookup using GORM
type GormCurrencyLookup struct {
	db *gorm.DB
}

var _ integration.CurrencyLookup = (*GormCurrencyLookup)(nil)

// NewGormCurrencyLookup creates a new GormCurrencyLookup
func NewGormCurrencyLookup(db *gorm.DB) *GormCurrencyLookup {
	return &GormCurrencyLookup{db: db}
}

// FindIDByCode returns the local currency ID for an ISO code.
func (r *GormCurrencyLookup) FindIDByCode(ctx context.Context, code string) (uuid.UUID, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, integration.ErrCurrencyNotFound
		}
		return uuid.Nil, err
	}
	return model.ID, nil
}

// GormCountryLookup implements CountryLookup using GORM
type GormCountryLookup struct {
	db *gorm.DB
}

var _ integration.CountryLookup = (*GormCountryLookup)(nil)

// NewGormCountryLookup creates a new GormCountryLookup
func NewGormCountryLookup(db *gorm.DB) *GormCountryLookup {
	return &GormCountryLookup{db: db}
}

// FindIDByISO2 returns the local country ID for an ISO 3166-1 alpha-2 code.
func (r *GormCountryLookup) FindIDByISO2(ctx context.Context, code string) (uuid.UUID, error) {
	var model models.CountryModel
	if err := r.db.WithContext(ctx).First(&model, "iso2 = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, integration.ErrCountryNotFound
		}
		return uuid.Nil, err
	}
	return model.ID, nil
}
