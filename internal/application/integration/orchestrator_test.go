package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

var testSyncJobID = uuid.MustParse("99999999-9999-9999-9999-999999999999")

type orchestratorFixture struct {
	api        *MockMarketplaceAPI
	watermarks *MockWatermarkStore
	keys       *MockRemoteKeyStore
	catalog    *MockProductCatalog
	currencies *MockCurrencyLookup
	countries  *MockCountryLookup
	orders     *MockOrderImporter
	syncLog    *MockSyncLog
	feeds      *MockFeedBuilder
	reports    *MockReportParser

	orchestrator *SyncOrchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	return newOrchestratorFixtureWithScratch(t, t.TempDir())
}

func newOrchestratorFixtureWithScratch(t *testing.T, scratchDir string) *orchestratorFixture {
	t.Helper()
	logger := zap.NewNop()

	f := &orchestratorFixture{
		api:        new(MockMarketplaceAPI),
		watermarks: new(MockWatermarkStore),
		keys:       new(MockRemoteKeyStore),
		catalog:    new(MockProductCatalog),
		currencies: new(MockCurrencyLookup),
		countries:  new(MockCountryLookup),
		orders:     new(MockOrderImporter),
		syncLog:    new(MockSyncLog),
		feeds:      new(MockFeedBuilder),
		reports:    new(MockReportParser),
	}

	cfg := OrchestratorConfig{
		SyncJobID:         testSyncJobID,
		MarketplaceIDs:    []string{"A1PA6795UKMFR9"},
		MainMarketplaceID: "A1PA6795UKMFR9",
		SafetyMargin:      time.Minute,
		ScratchDir:        scratchDir,
	}

	fetcher := NewOrderFetcher(f.api, f.keys, 20, time.Hour, logger)
	poller := NewJobPoller(time.Millisecond, logger)
	mapper := NewOrderMapper(f.keys, f.catalog, f.currencies, f.countries, "de-DE", 2)
	products := NewProductImporter(f.keys, f.catalog, f.syncLog, logger)
	exporter := NewAvailabilityExporter(f.keys, f.catalog, f.syncLog, logger)

	f.orchestrator = NewSyncOrchestrator(
		cfg, f.api, f.watermarks, f.keys,
		fetcher, poller, mapper, products, exporter,
		f.feeds, f.reports, f.orders, f.syncLog, logger,
	)
	return f
}

// ---------------------------------------------------------------------------
// RunPass Tests
// ---------------------------------------------------------------------------

func TestRunPass_InvalidEntityType(t *testing.T) {
	f := newOrchestratorFixture(t)

	err := f.orchestrator.RunPass(context.Background(), integration.EntityType("Bananas"))

	assert.ErrorIs(t, err, integration.ErrInvalidEntityType)
}

// ---------------------------------------------------------------------------
// ImportOrders Tests
// ---------------------------------------------------------------------------

func TestImportOrders_AdvancesWatermarkAfterCleanPass(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f.orchestrator.now = func() time.Time { return now }
	passEnd := now.Add(-time.Minute)
	since := now.Add(-2 * time.Hour)

	localOrderID := uuid.New()

	f.watermarks.On("Get", ctx, testSyncJobID, integration.EntityTypeOrders).Return(since, nil)
	f.api.On("ListOrders", ctx, integration.ListOrdersQuery{
		MarketplaceIDs: []string{"A1PA6795UKMFR9"},
		Statuses:       []string{"Unshipped"},
		ModifiedSince:  since,
	}).Return(&integration.OrderPage{Orders: []integration.RemoteOrder{
		{RemoteOrderID: "026-111", Status: "Unshipped", ShippingAddress: integration.RemoteAddress{CountryCode: "DE"}},
	}}, nil)
	f.keys.On("GetLocal", ctx, integration.EntityTypeOrders, "026-111").Return(uuid.Nil, integration.ErrRemoteKeyNotFound)
	f.api.On("ListOrderItems", ctx, "026-111", "").Return(&integration.OrderItemPage{Items: []integration.RemoteOrderItem{
		{SellerSKU: "SKU-1", Title: "Widget", QuantityOrdered: 1, ItemPrice: money("19.99", "EUR")},
	}}, nil)
	f.countries.On("FindIDByISO2", ctx, "DE").Return(testCountryID, nil)
	f.currencies.On("FindIDByCode", ctx, "EUR").Return(testCurrencyID, nil)
	f.keys.On("GetLocal", ctx, integration.EntityTypeProducts, "SKU-1").Return(uuid.Nil, integration.ErrRemoteKeyNotFound)
	f.orders.On("CreateOrder", ctx, mock.AnythingOfType("*integration.LocalOrder")).Return(localOrderID, nil)
	f.keys.On("Put", ctx, integration.EntityTypeOrders, localOrderID, "026-111").Return(nil)
	f.syncLog.On("RecordImportSuccess", ctx, integration.EntityTypeOrders, "026-111").Return(nil)
	f.watermarks.On("Set", ctx, testSyncJobID, integration.EntityTypeOrders, passEnd).Return(nil)

	err := f.orchestrator.ImportOrders(ctx)

	require.NoError(t, err)
	f.watermarks.AssertExpectations(t)
	f.orders.AssertExpectations(t)
}

func TestImportOrders_DefaultLookbackWithoutWatermark(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f.orchestrator.now = func() time.Time { return now }
	passEnd := now.Add(-time.Minute)

	f.watermarks.On("Get", ctx, testSyncJobID, integration.EntityTypeOrders).Return(time.Time{}, integration.ErrWatermarkNotFound)
	f.api.On("ListOrders", ctx, mock.MatchedBy(func(q integration.ListOrdersQuery) bool {
		return q.ModifiedSince.Equal(passEnd.AddDate(0, -1, 0))
	})).Return(&integration.OrderPage{}, nil)
	f.watermarks.On("Set", ctx, testSyncJobID, integration.EntityTypeOrders, passEnd).Return(nil)

	err := f.orchestrator.ImportOrders(ctx)

	require.NoError(t, err)
	f.api.AssertExpectations(t)
}

func TestImportOrders_FailedPassLeavesWatermark(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	since := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	f.watermarks.On("Get", ctx, testSyncJobID, integration.EntityTypeOrders).Return(since, nil)
	f.api.On("ListOrders", ctx, mock.Anything).Return(nil, &integration.RemoteFetchError{Op: "ListOrders", Payload: "boom"})

	err := f.orchestrator.ImportOrders(ctx)

	require.Error(t, err)
	var fetchErr *integration.RemoteFetchError
	assert.ErrorAs(t, err, &fetchErr)
	f.watermarks.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImportOrders_SecondRunSkipsImportedOrder(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	since := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	f.watermarks.On("Get", ctx, testSyncJobID, integration.EntityTypeOrders).Return(since, nil)
	f.api.On("ListOrders", ctx, mock.Anything).Return(&integration.OrderPage{Orders: []integration.RemoteOrder{
		{RemoteOrderID: "026-111", Status: "Unshipped"},
	}}, nil)
	f.keys.On("GetLocal", ctx, integration.EntityTypeOrders, "026-111").Return(uuid.New(), nil)
	f.watermarks.On("Set", ctx, testSyncJobID, integration.EntityTypeOrders, mock.Anything).Return(nil)

	err := f.orchestrator.ImportOrders(ctx)

	require.NoError(t, err)
	f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	f.api.AssertNotCalled(t, "ListOrderItems", mock.Anything, mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// ImportProducts Tests
// ---------------------------------------------------------------------------

func TestImportProducts_StagesReportAndPairsRows(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.api.On("CreateReport", ctx, "GET_MERCHANT_LISTINGS_ALL_DATA", []string{"A1PA6795UKMFR9"}).Return("report-1", nil)
	f.api.On("GetReport", ctx, "report-1").Return(&integration.AsyncJob{
		ID: "report-1", Status: integration.JobStatusDone, ResultDocumentID: "doc-1",
	}, nil)
	ref := &integration.DocumentRef{DocumentID: "doc-1", URL: "https://example.invalid/doc-1"}
	f.api.On("GetReportDocument", ctx, "doc-1").Return(ref, nil)
	f.api.On("DownloadDocument", ctx, ref, mock.MatchedBy(func(path string) bool {
		return filepath.Base(path) == "amazon-report.csv"
	})).Return(nil)
	f.reports.On("Open", mock.Anything).Return(&sliceRowIterator{rows: []*integration.RemoteProductRow{
		{SKU: "SKU-1", Quantity: 4},
	}}, nil)
	f.keys.On("GetLocal", ctx, integration.EntityTypeProducts, "SKU-1").Return(testProductID, nil)
	f.catalog.On("UpdateAvailability", ctx, testProductID, int64(4)).Return(nil)

	err := f.orchestrator.ImportProducts(ctx)

	require.NoError(t, err)
	f.api.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}

func TestImportProducts_CreatesScratchDirOnFreshDeployment(t *testing.T) {
	scratchDir := filepath.Join(t.TempDir(), "shopsync", "scratch")
	f := newOrchestratorFixtureWithScratch(t, scratchDir)
	ctx := context.Background()

	f.api.On("CreateReport", ctx, "GET_MERCHANT_LISTINGS_ALL_DATA", []string{"A1PA6795UKMFR9"}).Return("report-1", nil)
	f.api.On("GetReport", ctx, "report-1").Return(&integration.AsyncJob{
		ID: "report-1", Status: integration.JobStatusDone, ResultDocumentID: "doc-1",
	}, nil)
	ref := &integration.DocumentRef{DocumentID: "doc-1", URL: "https://example.invalid/doc-1"}
	f.api.On("GetReportDocument", ctx, "doc-1").Return(ref, nil)

	// Staging writes into the scratch dir the same way the HTTP client does.
	// With no directory in place yet this is the call that used to fail.
	f.api.On("DownloadDocument", ctx, ref, mock.Anything).Run(func(args mock.Arguments) {
		file, err := os.Create(args.String(2))
		require.NoError(t, err)
		require.NoError(t, file.Close())
	}).Return(nil)
	f.reports.On("Open", mock.Anything).Return(&sliceRowIterator{}, nil)

	err := f.orchestrator.ImportProducts(ctx)

	require.NoError(t, err)
	assert.DirExists(t, scratchDir)
}

func TestImportProducts_ReportJobFatal(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.api.On("CreateReport", ctx, "GET_MERCHANT_LISTINGS_ALL_DATA", []string{"A1PA6795UKMFR9"}).Return("report-1", nil)
	f.api.On("GetReport", ctx, "report-1").Return(&integration.AsyncJob{
		ID: "report-1", Status: integration.JobStatusFatal,
	}, nil)

	err := f.orchestrator.ImportProducts(ctx)

	var jobErr *integration.JobFailedError
	require.ErrorAs(t, err, &jobErr)
	f.api.AssertNotCalled(t, "GetReportDocument", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// ExportProductAvailabilities Tests
// ---------------------------------------------------------------------------

func TestExportProductAvailabilities_EmptyBatchSkipsNetwork(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.catalog.On("ListForAvailabilityExport", ctx).Return([]integration.CatalogProduct{}, nil)

	err := f.orchestrator.ExportProductAvailabilities(ctx)

	require.NoError(t, err)
	f.api.AssertNotCalled(t, "CreateFeedDocument", mock.Anything, mock.Anything)
	f.feeds.AssertNotCalled(t, "BuildAvailabilityFeed", mock.Anything)
}

func TestExportProductAvailabilities_CommitsAfterConfirmedFeed(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.catalog.On("ListForAvailabilityExport", ctx).Return([]integration.CatalogProduct{
		{ID: testProductID, Stock: decimal.NewFromInt(9), MarketplaceAvailability: "3"},
	}, nil)
	f.keys.On("Get", ctx, integration.EntityTypeProducts, testProductID).Return("SKU-1", nil)

	payload := []byte("<AmazonEnvelope/>")
	f.feeds.On("BuildAvailabilityFeed", mock.AnythingOfType("*integration.OutboundBatch")).Return(payload, "text/xml", nil)
	f.api.On("CreateFeedDocument", ctx, "text/xml").Return(&integration.FeedDocument{
		DocumentID: "feeddoc-1", UploadURL: "https://example.invalid/upload",
	}, nil)
	f.api.On("UploadFeedDocument", ctx, "https://example.invalid/upload", "text/xml", payload).Return(nil)
	f.api.On("CreateFeed", ctx, "POST_INVENTORY_AVAILABILITY_DATA", []string{"A1PA6795UKMFR9"}, "feeddoc-1").Return("feed-1", nil)
	f.api.On("GetFeed", ctx, "feed-1").Return(&integration.AsyncJob{
		ID: "feed-1", Status: integration.JobStatusDone, ResultDocumentID: "result-1",
	}, nil)
	resultRef := &integration.DocumentRef{DocumentID: "result-1", URL: "https://example.invalid/result"}
	f.api.On("GetFeedDocument", ctx, "result-1").Return(resultRef, nil)
	f.api.On("DownloadDocument", ctx, resultRef, mock.MatchedBy(func(path string) bool {
		return filepath.Base(path) == "amazon-feed-report.xml"
	})).Run(func(args mock.Arguments) {
		require.NoError(t, os.WriteFile(args.String(2), []byte("<report/>"), 0o644))
	}).Return(nil)
	f.feeds.On("ParseProcessingReport", mock.Anything).Return(&integration.ProcessingReport{
		StatusCode:         "Complete",
		MessagesProcessed:  1,
		MessagesSuccessful: 1,
	}, nil)
	f.catalog.On("UpdateAvailability", ctx, testProductID, int64(9)).Return(nil)
	f.syncLog.On("RecordImportSuccess", ctx, integration.EntityTypeProducts, "SKU-1").Return(nil)

	err := f.orchestrator.ExportProductAvailabilities(ctx)

	require.NoError(t, err)
	f.api.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}

func TestExportProductAvailabilities_NoCommitOnFeedFailure(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.catalog.On("ListForAvailabilityExport", ctx).Return([]integration.CatalogProduct{
		{ID: testProductID, Stock: decimal.NewFromInt(9), MarketplaceAvailability: "3"},
	}, nil)
	f.keys.On("Get", ctx, integration.EntityTypeProducts, testProductID).Return("SKU-1", nil)
	f.feeds.On("BuildAvailabilityFeed", mock.Anything).Return([]byte("<AmazonEnvelope/>"), "text/xml", nil)
	f.api.On("CreateFeedDocument", ctx, "text/xml").Return(&integration.FeedDocument{
		DocumentID: "feeddoc-1", UploadURL: "https://example.invalid/upload",
	}, nil)
	f.api.On("UploadFeedDocument", ctx, mock.Anything, "text/xml", mock.Anything).Return(nil)
	f.api.On("CreateFeed", ctx, "POST_INVENTORY_AVAILABILITY_DATA", []string{"A1PA6795UKMFR9"}, "feeddoc-1").Return("feed-1", nil)
	f.api.On("GetFeed", ctx, "feed-1").Return(&integration.AsyncJob{
		ID: "feed-1", Status: integration.JobStatusCancelled,
	}, nil)

	err := f.orchestrator.ExportProductAvailabilities(ctx)

	var jobErr *integration.JobFailedError
	require.ErrorAs(t, err, &jobErr)
	f.catalog.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestExportProductAvailabilities_UploadErrorAborts(t *testing.T) {
	f := newOrchestratorFixture(t)
	ctx := context.Background()

	f.catalog.On("ListForAvailabilityExport", ctx).Return([]integration.CatalogProduct{
		{ID: testProductID, Stock: decimal.NewFromInt(9), MarketplaceAvailability: "3"},
	}, nil)
	f.keys.On("Get", ctx, integration.EntityTypeProducts, testProductID).Return("SKU-1", nil)
	f.feeds.On("BuildAvailabilityFeed", mock.Anything).Return([]byte("<AmazonEnvelope/>"), "text/xml", nil)
	f.api.On("CreateFeedDocument", ctx, "text/xml").Return(&integration.FeedDocument{
		DocumentID: "feeddoc-1", UploadURL: "https://example.invalid/upload",
	}, nil)
	f.api.On("UploadFeedDocument", ctx, mock.Anything, "text/xml", mock.Anything).
		Return(&integration.UploadError{URL: "https://example.invalid/upload", Err: errors.New("tls handshake")})

	err := f.orchestrator.ExportProductAvailabilities(ctx)

	var uploadErr *integration.UploadError
	require.ErrorAs(t, err, &uploadErr)
	f.api.AssertNotCalled(t, "CreateFeed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
