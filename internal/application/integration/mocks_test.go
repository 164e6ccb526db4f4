package integration

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shopsync/backend/internal/domain/integration"
)

// MockRemoteKeyStore is a mock implementation of RemoteKeyStore
type MockRemoteKeyStore struct {
	mock.Mock
}

func (m *MockRemoteKeyStore) Get(ctx context.Context, entityType integration.EntityType, localID uuid.UUID) (string, error) {
	args := m.Called(ctx, entityType, localID)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteKeyStore) GetLocal(ctx context.Context, entityType integration.EntityType, remoteKey string) (uuid.UUID, error) {
	args := m.Called(ctx, entityType, remoteKey)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRemoteKeyStore) Put(ctx context.Context, entityType integration.EntityType, localID uuid.UUID, remoteKey string) error {
	args := m.Called(ctx, entityType, localID, remoteKey)
	return args.Error(0)
}

// MockWatermarkStore is a mock implementation of WatermarkStore
type MockWatermarkStore struct {
	mock.Mock
}

func (m *MockWatermarkStore) Get(ctx context.Context, syncJobID uuid.UUID, entityType integration.EntityType) (time.Time, error) {
	args := m.Called(ctx, syncJobID, entityType)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockWatermarkStore) Set(ctx context.Context, syncJobID uuid.UUID, entityType integration.EntityType, lastSyncedAt time.Time) error {
	args := m.Called(ctx, syncJobID, entityType, lastSyncedAt)
	return args.Error(0)
}

// MockProductCatalog is a mock implementation of ProductCatalog
type MockProductCatalog struct {
	mock.Mock
}

func (m *MockProductCatalog) FindByID(ctx context.Context, id uuid.UUID) (*integration.CatalogProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.CatalogProduct), args.Error(1)
}

func (m *MockProductCatalog) FindByEAN(ctx context.Context, ean string) (*integration.CatalogProduct, error) {
	args := m.Called(ctx, ean)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.CatalogProduct), args.Error(1)
}

func (m *MockProductCatalog) ListForAvailabilityExport(ctx context.Context) ([]integration.CatalogProduct, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.CatalogProduct), args.Error(1)
}

func (m *MockProductCatalog) UpdateAvailability(ctx context.Context, id uuid.UUID, stock int64) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

// MockOrderImporter is a mock implementation of OrderImporter
type MockOrderImporter struct {
	mock.Mock
}

func (m *MockOrderImporter) CreateOrder(ctx context.Context, order *integration.LocalOrder) (uuid.UUID, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockCurrencyLookup is a mock implementation of CurrencyLookup
type MockCurrencyLookup struct {
	mock.Mock
}

func (m *MockCurrencyLookup) FindIDByCode(ctx context.Context, code string) (uuid.UUID, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockCountryLookup is a mock implementation of CountryLookup
type MockCountryLookup struct {
	mock.Mock
}

func (m *MockCountryLookup) FindIDByISO2(ctx context.Context, code string) (uuid.UUID, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockSyncLog is a mock implementation of SyncLog
type MockSyncLog struct {
	mock.Mock
}

func (m *MockSyncLog) RecordImportSuccess(ctx context.Context, entityType integration.EntityType, remoteKey string) error {
	args := m.Called(ctx, entityType, remoteKey)
	return args.Error(0)
}

func (m *MockSyncLog) RecordImportError(ctx context.Context, entityType integration.EntityType, remoteKey, message string) error {
	args := m.Called(ctx, entityType, remoteKey, message)
	return args.Error(0)
}

// MockMarketplaceAPI is a mock implementation of MarketplaceAPI
type MockMarketplaceAPI struct {
	mock.Mock
}

func (m *MockMarketplaceAPI) ListOrders(ctx context.Context, query integration.ListOrdersQuery) (*integration.OrderPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrderPage), args.Error(1)
}

func (m *MockMarketplaceAPI) ListOrderItems(ctx context.Context, remoteOrderID, nextToken string) (*integration.OrderItemPage, error) {
	args := m.Called(ctx, remoteOrderID, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OrderItemPage), args.Error(1)
}

func (m *MockMarketplaceAPI) CreateReport(ctx context.Context, reportType string, marketplaceIDs []string) (string, error) {
	args := m.Called(ctx, reportType, marketplaceIDs)
	return args.String(0), args.Error(1)
}

func (m *MockMarketplaceAPI) GetReport(ctx context.Context, reportID string) (*integration.AsyncJob, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.AsyncJob), args.Error(1)
}

func (m *MockMarketplaceAPI) GetReportDocument(ctx context.Context, documentID string) (*integration.DocumentRef, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.DocumentRef), args.Error(1)
}

func (m *MockMarketplaceAPI) CreateFeedDocument(ctx context.Context, contentType string) (*integration.FeedDocument, error) {
	args := m.Called(ctx, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.FeedDocument), args.Error(1)
}

func (m *MockMarketplaceAPI) UploadFeedDocument(ctx context.Context, uploadURL, contentType string, body []byte) error {
	args := m.Called(ctx, uploadURL, contentType, body)
	return args.Error(0)
}

func (m *MockMarketplaceAPI) CreateFeed(ctx context.Context, feedType string, marketplaceIDs []string, inputDocumentID string) (string, error) {
	args := m.Called(ctx, feedType, marketplaceIDs, inputDocumentID)
	return args.String(0), args.Error(1)
}

func (m *MockMarketplaceAPI) GetFeed(ctx context.Context, feedID string) (*integration.AsyncJob, error) {
	args := m.Called(ctx, feedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.AsyncJob), args.Error(1)
}

func (m *MockMarketplaceAPI) GetFeedDocument(ctx context.Context, documentID string) (*integration.DocumentRef, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.DocumentRef), args.Error(1)
}

func (m *MockMarketplaceAPI) DownloadDocument(ctx context.Context, ref *integration.DocumentRef, destPath string) error {
	args := m.Called(ctx, ref, destPath)
	return args.Error(0)
}

// MockFeedBuilder is a mock implementation of FeedBuilder
type MockFeedBuilder struct {
	mock.Mock
}

func (m *MockFeedBuilder) BuildAvailabilityFeed(batch *integration.OutboundBatch) ([]byte, string, error) {
	args := m.Called(batch)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockFeedBuilder) ParseProcessingReport(r io.Reader) (*integration.ProcessingReport, error) {
	args := m.Called(r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProcessingReport), args.Error(1)
}

// MockReportParser is a mock implementation of ReportParser
type MockReportParser struct {
	mock.Mock
}

func (m *MockReportParser) Open(path string) (integration.RowIterator, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.RowIterator), args.Error(1)
}

// sliceRowIterator serves a fixed row slice, then io.EOF.
type sliceRowIterator struct {
	rows []*integration.RemoteProductRow
	pos  int
}

func (it *sliceRowIterator) Next() (*integration.RemoteProductRow, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	row := it.rows[it.pos]
	it.pos++
	return row, nil
}

func (it *sliceRowIterator) Close() error { return nil }
