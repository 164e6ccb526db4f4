package integration

import (
	"context"
	"io"
	"time"
)

// ---------------------------------------------------------------------------
// Marketplace API Port
// ---------------------------------------------------------------------------

// ListOrdersQuery bounds an order listing request.
type ListOrdersQuery struct {
	// MarketplaceIDs are the marketplaces to query
	MarketplaceIDs []string
	// Statuses filters by marketplace order status
	Statuses []string
	// ModifiedSince is the lower bound of the query window
	ModifiedSince time.Time
	// NextToken continues a previous page, empty for the first page
	NextToken string
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	// Orders are the orders on this page
	Orders []RemoteOrder
	// NextToken requests the following page, empty on the last page
	NextToken string
}

// OrderItemPage is one page of an order's line items.
type OrderItemPage struct {
	// Items are the line items on this page
	Items []RemoteOrderItem
	// NextToken requests the following page, empty on the last page
	NextToken string
}

// FeedDocument references a created feed document and its upload target.
type FeedDocument struct {
	// DocumentID identifies the document on the marketplace
	DocumentID string
	// UploadURL is the presigned URL the content must be PUT to
	UploadURL string
}

// DocumentRef references a downloadable result document.
type DocumentRef struct {
	// DocumentID identifies the document on the marketplace
	DocumentID string
	// URL is the presigned download URL
	URL string
	// CompressionAlgorithm is set when the content is compressed, e.g. "GZIP"
	CompressionAlgorithm string
}

// MarketplaceAPI is the port to the remote marketplace. Implementations wrap
// the vendor HTTP APIs; fetch methods fail with *RemoteFetchError on bad or
// empty payloads, upload fails with *UploadError. None of the methods retry:
// retry policy belongs to the scheduler driving the passes.
type MarketplaceAPI interface {
	// ListOrders returns one page of orders matching the query
	ListOrders(ctx context.Context, query ListOrdersQuery) (*OrderPage, error)

	// ListOrderItems returns one page of an order's line items
	ListOrderItems(ctx context.Context, remoteOrderID, nextToken string) (*OrderItemPage, error)

	// CreateReport submits a report generation job and returns its ID
	CreateReport(ctx context.Context, reportType string, marketplaceIDs []string) (string, error)

	// GetReport returns the current state of a report job
	GetReport(ctx context.Context, reportID string) (*AsyncJob, error)

	// GetReportDocument resolves a report result document reference
	GetReportDocument(ctx context.Context, documentID string) (*DocumentRef, error)

	// CreateFeedDocument allocates a feed document for upload
	CreateFeedDocument(ctx context.Context, contentType string) (*FeedDocument, error)

	// UploadFeedDocument uploads the feed content to the presigned URL
	UploadFeedDocument(ctx context.Context, uploadURL, contentType string, body []byte) error

	// CreateFeed submits a feed job over an uploaded document
	CreateFeed(ctx context.Context, feedType string, marketplaceIDs []string, inputDocumentID string) (string, error)

	// GetFeed returns the current state of a feed job
	GetFeed(ctx context.Context, feedID string) (*AsyncJob, error)

	// GetFeedDocument resolves a feed result document reference
	GetFeedDocument(ctx context.Context, documentID string) (*DocumentRef, error)

	// DownloadDocument stages a result document at destPath, decompressing
	// when the reference says so. The destination is overwritten.
	DownloadDocument(ctx context.Context, ref *DocumentRef, destPath string) error
}

// ---------------------------------------------------------------------------
// Report Parsing Port
// ---------------------------------------------------------------------------

// RowIterator is a lazy, single-pass, non-restartable sequence of report
// rows. Next returns io.EOF after the last row.
type RowIterator interface {
	// Next returns the next row, or io.EOF when the report is exhausted
	Next() (*RemoteProductRow, error)

	// Close releases the underlying document
	Close() error
}

// ReportParser opens a staged report document as a row iterator.
type ReportParser interface {
	// Open opens the document at path for streaming consumption
	Open(path string) (RowIterator, error)
}

// ---------------------------------------------------------------------------
// Feed Format Port
// ---------------------------------------------------------------------------

// FeedBuilder serializes outbound batches into the marketplace document
// format and parses the processing report the marketplace returns.
type FeedBuilder interface {
	// BuildAvailabilityFeed renders the batch as a feed document and
	// returns the payload with its content type
	BuildAvailabilityFeed(batch *OutboundBatch) (payload []byte, contentType string, err error)

	// ParseProcessingReport parses a feed result document
	ParseProcessingReport(r io.Reader) (*ProcessingReport, error)
}
