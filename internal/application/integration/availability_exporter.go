package integration

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// AvailabilityExporter
// ---------------------------------------------------------------------------

// AvailabilityExporter builds the outbound inventory batch and commits the
// deferred local updates once the marketplace confirms the feed. The two
// phases are split so the commit is independently testable and is never run
// optimistically.
type AvailabilityExporter struct {
	keys    integration.RemoteKeyStore
	catalog integration.ProductCatalog
	syncLog integration.SyncLog
	logger  *zap.Logger
}

// NewAvailabilityExporter creates a new AvailabilityExporter
func NewAvailabilityExporter(
	keys integration.RemoteKeyStore,
	catalog integration.ProductCatalog,
	syncLog integration.SyncLog,
	logger *zap.Logger,
) *AvailabilityExporter {
	return &AvailabilityExporter{
		keys:    keys,
		catalog: catalog,
		syncLog: syncLog,
		logger:  logger,
	}
}

// Collect builds the outbound batch. Only products already paired with a
// remote key are eligible, and a message is emitted only when the computed
// stock differs from the value last published - the dedup gate that keeps
// redundant remote updates off the wire.
func (e *AvailabilityExporter) Collect(ctx context.Context) (*integration.OutboundBatch, error) {
	products, err := e.catalog.ListForAvailabilityExport(ctx)
	if err != nil {
		return nil, err
	}

	batch := &integration.OutboundBatch{}

	for i := range products {
		product := &products[i]

		sku, err := e.keys.Get(ctx, integration.EntityTypeProducts, product.ID)
		if err != nil {
			if errors.Is(err, integration.ErrRemoteKeyNotFound) {
				continue
			}
			return nil, err
		}

		stock := clampStock(product.Stock.IntPart())
		if strconv.FormatInt(stock, 10) == product.MarketplaceAvailability {
			continue
		}

		batch.Add(sku, product.ID, stock)
	}

	e.logger.Debug("Availability batch collected",
		zap.Int("eligible_products", len(products)),
		zap.Int("messages", len(batch.Messages)),
	)

	return batch, nil
}

// Commit persists the published stock values and success markers. It must
// only be called after the feed job reached DONE and its result document
// was retrieved.
func (e *AvailabilityExporter) Commit(ctx context.Context, updates []integration.AvailabilityUpdate) error {
	for _, update := range updates {
		if err := e.catalog.UpdateAvailability(ctx, update.ProductID, update.Stock); err != nil {
			return err
		}
		if err := e.syncLog.RecordImportSuccess(ctx, integration.EntityTypeProducts, update.SKU); err != nil {
			return err
		}
	}

	e.logger.Info("Availability updates committed",
		zap.Int("count", len(updates)),
	)

	return nil
}
