package integration

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// ProductImporter
// ---------------------------------------------------------------------------

// ProductImporter consumes merchant listings report rows. A row pairs by SKU
// through the remote key store, falling back to a catalog lookup by EAN. An
// unmatched row is recorded in the sync log and skipped; the pass continues.
type ProductImporter struct {
	keys    integration.RemoteKeyStore
	catalog integration.ProductCatalog
	syncLog integration.SyncLog
	logger  *zap.Logger
}

// NewProductImporter creates a new ProductImporter
func NewProductImporter(
	keys integration.RemoteKeyStore,
	catalog integration.ProductCatalog,
	syncLog integration.SyncLog,
	logger *zap.Logger,
) *ProductImporter {
	return &ProductImporter{
		keys:    keys,
		catalog: catalog,
		syncLog: syncLog,
		logger:  logger,
	}
}

// ImportRow processes one report row. It returns an error only on
// infrastructure failure; pairing misses are recorded and swallowed.
func (p *ProductImporter) ImportRow(ctx context.Context, row *integration.RemoteProductRow) error {
	if row.SKU == "" {
		return nil
	}

	localID, err := p.keys.GetLocal(ctx, integration.EntityTypeProducts, row.SKU)
	if err != nil {
		if !errors.Is(err, integration.ErrRemoteKeyNotFound) {
			return err
		}

		// Not paired yet: fall back to pairing by EAN.
		product, err := p.catalog.FindByEAN(ctx, row.SKU)
		if err != nil {
			if errors.Is(err, integration.ErrProductNotFound) {
				msg := fmt.Sprintf("Product with SKU %s not found.", row.SKU)
				if logErr := p.syncLog.RecordImportError(ctx, integration.EntityTypeProducts, row.SKU, msg); logErr != nil {
					return logErr
				}
				p.logger.Warn("Report row skipped, product not paired",
					zap.String("sku", row.SKU),
				)
				return nil
			}
			return err
		}

		if err := p.keys.Put(ctx, integration.EntityTypeProducts, product.ID, row.SKU); err != nil {
			return err
		}
		if err := p.syncLog.RecordImportSuccess(ctx, integration.EntityTypeProducts, row.SKU); err != nil {
			return err
		}
		localID = product.ID

		p.logger.Info("Product paired by EAN",
			zap.String("sku", row.SKU),
			zap.String("product_id", product.ID.String()),
		)
	}

	return p.catalog.UpdateAvailability(ctx, localID, clampStock(row.Quantity))
}

// clampStock floors the published stock value at zero.
func clampStock(stock int64) int64 {
	if stock > 0 {
		return stock
	}
	return 0
}
