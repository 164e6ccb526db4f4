package integration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

const (
	// listingsReportType is the merchant listings report used for product pairing.
	listingsReportType = "GET_MERCHANT_LISTINGS_ALL_DATA"

	// inventoryFeedType carries availability updates back to the marketplace.
	inventoryFeedType = "POST_INVENTORY_AVAILABILITY_DATA"

	// orderStatusUnshipped is the only order status imported.
	orderStatusUnshipped = "Unshipped"

	// defaultSafetyMargin is subtracted from the pass boundary so records
	// still settling on the remote side are picked up by the next pass.
	defaultSafetyMargin = time.Minute
)

// ---------------------------------------------------------------------------
// SyncOrchestrator
// ---------------------------------------------------------------------------

// OrchestratorConfig carries the per-job settings of a synchronization run.
type OrchestratorConfig struct {
	// SyncJobID identifies the configured synchronization job
	SyncJobID uuid.UUID
	// MarketplaceIDs are all marketplaces the job covers
	MarketplaceIDs []string
	// MainMarketplaceID is the marketplace reports are generated for
	MainMarketplaceID string
	// Lookback bounds the first order import when no watermark exists yet.
	// Zero means one calendar month.
	Lookback time.Duration
	// SafetyMargin is subtracted from the pass boundary, zero means one minute
	SafetyMargin time.Duration
	// ScratchDir is where staged result documents are written
	ScratchDir string
}

// SyncOrchestrator runs one synchronization pass per entity type. Order and
// product imports pull from the marketplace, the availability export pushes
// local stock back. A pass that fails partway leaves the watermark untouched
// so the window is re-scanned on the next run.
type SyncOrchestrator struct {
	cfg OrchestratorConfig

	api        integration.MarketplaceAPI
	watermarks integration.WatermarkStore
	keys       integration.RemoteKeyStore
	fetcher    *OrderFetcher
	poller     *JobPoller
	mapper     *OrderMapper
	products   *ProductImporter
	exporter   *AvailabilityExporter
	feeds      integration.FeedBuilder
	reports    integration.ReportParser
	orders     integration.OrderImporter
	syncLog    integration.SyncLog
	logger     *zap.Logger

	now func() time.Time
}

// NewSyncOrchestrator wires a SyncOrchestrator from its collaborators.
func NewSyncOrchestrator(
	cfg OrchestratorConfig,
	api integration.MarketplaceAPI,
	watermarks integration.WatermarkStore,
	keys integration.RemoteKeyStore,
	fetcher *OrderFetcher,
	poller *JobPoller,
	mapper *OrderMapper,
	products *ProductImporter,
	exporter *AvailabilityExporter,
	feeds integration.FeedBuilder,
	reports integration.ReportParser,
	orders integration.OrderImporter,
	syncLog integration.SyncLog,
	logger *zap.Logger,
) *SyncOrchestrator {
	if cfg.SafetyMargin <= 0 {
		cfg.SafetyMargin = defaultSafetyMargin
	}
	return &SyncOrchestrator{
		cfg:        cfg,
		api:        api,
		watermarks: watermarks,
		keys:       keys,
		fetcher:    fetcher,
		poller:     poller,
		mapper:     mapper,
		products:   products,
		exporter:   exporter,
		feeds:      feeds,
		reports:    reports,
		orders:     orders,
		syncLog:    syncLog,
		logger:     logger,
		now:        time.Now,
	}
}

// RunPass executes one synchronization pass for the given entity type.
func (o *SyncOrchestrator) RunPass(ctx context.Context, entityType integration.EntityType) error {
	switch entityType {
	case integration.EntityTypeOrders:
		return o.ImportOrders(ctx)
	case integration.EntityTypeProducts:
		return o.ImportProducts(ctx)
	case integration.EntityTypeProductAvailabilities:
		return o.ExportProductAvailabilities(ctx)
	default:
		return fmt.Errorf("%w: %s", integration.ErrInvalidEntityType, entityType)
	}
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// ImportOrders imports unshipped orders modified since the watermark. The
// pass boundary is captured before fetching starts and the watermark only
// advances after the whole listing was walked without a fatal error.
func (o *SyncOrchestrator) ImportOrders(ctx context.Context) error {
	passEnd := o.now().Add(-o.cfg.SafetyMargin)

	since, err := o.windowStart(ctx, passEnd)
	if err != nil {
		return err
	}

	o.logger.Info("Importing orders",
		zap.Time("since", since),
		zap.Time("until", passEnd),
	)

	query := integration.ListOrdersQuery{
		MarketplaceIDs: o.cfg.MarketplaceIDs,
		Statuses:       []string{orderStatusUnshipped},
		ModifiedSince:  since,
	}

	var imported int
	err = o.fetcher.Each(ctx, query, func(ctx context.Context, order *integration.RemoteOrder, items []integration.RemoteOrderItem) error {
		if err := o.importOrder(ctx, order, items); err != nil {
			return err
		}
		imported++
		return nil
	})
	if err != nil {
		return err
	}

	if err := o.watermarks.Set(ctx, o.cfg.SyncJobID, integration.EntityTypeOrders, passEnd); err != nil {
		return err
	}

	o.logger.Info("Order import complete", zap.Int("imported", imported))
	return nil
}

func (o *SyncOrchestrator) windowStart(ctx context.Context, passEnd time.Time) (time.Time, error) {
	since, err := o.watermarks.Get(ctx, o.cfg.SyncJobID, integration.EntityTypeOrders)
	if err == nil {
		return since, nil
	}
	if !errors.Is(err, integration.ErrWatermarkNotFound) {
		return time.Time{}, err
	}
	if o.cfg.Lookback > 0 {
		return passEnd.Add(-o.cfg.Lookback), nil
	}
	return passEnd.AddDate(0, -1, 0), nil
}

func (o *SyncOrchestrator) importOrder(ctx context.Context, order *integration.RemoteOrder, items []integration.RemoteOrderItem) error {
	local, err := o.mapper.MapOrder(ctx, order, items)
	if err != nil {
		return err
	}

	localID, err := o.orders.CreateOrder(ctx, local)
	if err != nil {
		return err
	}

	if err := o.keys.Put(ctx, integration.EntityTypeOrders, localID, order.RemoteOrderID); err != nil {
		return err
	}

	if err := o.syncLog.RecordImportSuccess(ctx, integration.EntityTypeOrders, order.RemoteOrderID); err != nil {
		return err
	}

	o.logger.Info("Imported order",
		zap.String("remote_order_id", order.RemoteOrderID),
		zap.String("order_id", localID.String()),
	)
	return nil
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ImportProducts requests a merchant listings report, stages the result
// document and pairs every row to a catalog product. Rows that cannot be
// matched are logged and skipped without failing the pass.
func (o *SyncOrchestrator) ImportProducts(ctx context.Context) error {
	o.logger.Info("Importing products", zap.String("report_type", listingsReportType))

	reportID, err := o.api.CreateReport(ctx, listingsReportType, []string{o.cfg.MainMarketplaceID})
	if err != nil {
		return err
	}

	documentID, err := o.poller.AwaitCompletion(ctx, func(ctx context.Context) (*integration.AsyncJob, error) {
		return o.api.GetReport(ctx, reportID)
	})
	if err != nil {
		return err
	}

	ref, err := o.api.GetReportDocument(ctx, documentID)
	if err != nil {
		return err
	}

	destPath, err := o.scratchPath(integration.EntityTypeProducts)
	if err != nil {
		return err
	}
	if err := o.api.DownloadDocument(ctx, ref, destPath); err != nil {
		return err
	}

	rows, err := o.reports.Open(destPath)
	if err != nil {
		return err
	}
	defer rows.Close()

	var processed int
	for {
		row, err := rows.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := o.products.ImportRow(ctx, row); err != nil {
			return err
		}
		processed++
	}

	o.logger.Info("Product import complete", zap.Int("rows", processed))
	return nil
}

// ---------------------------------------------------------------------------
// Product availabilities
// ---------------------------------------------------------------------------

// ExportProductAvailabilities pushes changed stock levels to the marketplace
// as an inventory feed. When nothing changed since the last export the pass
// finishes without touching the network. Local availability snapshots are
// only updated after the feed job completed and its processing report was
// retrieved.
func (o *SyncOrchestrator) ExportProductAvailabilities(ctx context.Context) error {
	batch, err := o.exporter.Collect(ctx)
	if err != nil {
		return err
	}
	if batch.IsEmpty() {
		o.logger.Info("No availability changes to export")
		return nil
	}

	payload, contentType, err := o.feeds.BuildAvailabilityFeed(batch)
	if err != nil {
		return err
	}

	doc, err := o.api.CreateFeedDocument(ctx, contentType)
	if err != nil {
		return err
	}

	if err := o.api.UploadFeedDocument(ctx, doc.UploadURL, contentType, payload); err != nil {
		return err
	}

	feedID, err := o.api.CreateFeed(ctx, inventoryFeedType, o.cfg.MarketplaceIDs, doc.DocumentID)
	if err != nil {
		return err
	}

	o.logger.Info("Submitted availability feed",
		zap.String("feed_id", feedID),
		zap.Int("messages", len(batch.Messages)),
	)

	resultDocumentID, err := o.poller.AwaitCompletion(ctx, func(ctx context.Context) (*integration.AsyncJob, error) {
		return o.api.GetFeed(ctx, feedID)
	})
	if err != nil {
		return err
	}

	report, err := o.fetchProcessingReport(ctx, resultDocumentID)
	if err != nil {
		return err
	}

	o.logger.Info("Availability feed processed",
		zap.String("status", report.StatusCode),
		zap.Int64("processed", report.MessagesProcessed),
		zap.Int64("successful", report.MessagesSuccessful),
		zap.Int64("errors", report.MessagesWithError),
		zap.Int64("warnings", report.MessagesWithWarning),
	)
	if report.MessagesWithError > 0 {
		o.logger.Warn("Availability feed reported message errors",
			zap.Int64("errors", report.MessagesWithError),
		)
	}

	return o.exporter.Commit(ctx, batch.PendingUpdates)
}

func (o *SyncOrchestrator) fetchProcessingReport(ctx context.Context, documentID string) (*integration.ProcessingReport, error) {
	ref, err := o.api.GetFeedDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	destPath, err := o.scratchPath(integration.EntityTypeProductAvailabilities)
	if err != nil {
		return nil, err
	}
	if err := o.api.DownloadDocument(ctx, ref, destPath); err != nil {
		return nil, err
	}

	f, err := os.Open(destPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return o.feeds.ParseProcessingReport(f)
}

// scratchPath ensures the staging directory exists before handing out a
// destination inside it, so a fresh deployment can stage documents without
// any operator setup.
func (o *SyncOrchestrator) scratchPath(entityType integration.EntityType) (string, error) {
	if err := os.MkdirAll(o.cfg.ScratchDir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir %s: %w", o.cfg.ScratchDir, err)
	}
	return filepath.Join(o.cfg.ScratchDir, entityType.ScratchName()), nil
}
