package marketplace

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed API response size (10MB)
const maxResponseSize = 10 * 1024 * 1024

// tokenExpiryMargin renews the LWA token this long before it expires.
const tokenExpiryMargin = time.Minute

// API paths, versioned per the Selling Partner API.
const (
	pathOrders        = "/orders/v0/orders"
	pathReports       = "/reports/2021-06-30/reports"
	pathReportDocs    = "/reports/2021-06-30/documents"
	pathFeeds         = "/feeds/2021-06-30/feeds"
	pathFeedDocuments = "/feeds/2021-06-30/documents"
)

// AmazonClient implements the MarketplaceAPI port against the Selling
// Partner API. It holds one LWA access token and renews it on expiry; all
// other state lives on the remote side.
type AmazonClient struct {
	config     *AmazonConfig
	httpClient *http.Client
	// uploadClient is used for presigned document transfers only. It is
	// the one place where TLS verification may be relaxed.
	uploadClient *http.Client
	logger       *zap.Logger

	tokenURL string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var _ integration.MarketplaceAPI = (*AmazonClient)(nil)

// NewAmazonClient creates a new client for the configured connection.
func NewAmazonClient(config *AmazonConfig, logger *zap.Logger) (*AmazonClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	uploadClient := &http.Client{Timeout: timeout}
	if config.InsecureUpload {
		uploadClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
		logger.Warn("TLS verification disabled for feed document uploads")
	}

	return &AmazonClient{
		config:       config,
		httpClient:   &http.Client{Timeout: timeout},
		uploadClient: uploadClient,
		logger:       logger,
		tokenURL:     LWATokenURL,
	}, nil
}

// ---------------------------------------------------------------------------
// LWA Token
// ---------------------------------------------------------------------------

func (c *AmazonClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.config.RefreshToken)
	form.Set("client_id", c.config.ClientID)
	form.Set("client_secret", c.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &integration.RemoteFetchError{Op: "Token", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", &integration.RemoteFetchError{Op: "Token", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &integration.RemoteFetchError{Op: "Token", Payload: string(body)}
	}

	var tok lwaTokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", &integration.RemoteFetchError{Op: "Token", Err: err}
	}
	if tok.AccessToken == "" {
		return "", &integration.RemoteFetchError{Op: "Token", Payload: string(body)}
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.accessToken, nil
}

// ---------------------------------------------------------------------------
// HTTP Helpers
// ---------------------------------------------------------------------------

func (c *AmazonClient) call(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.config.Endpoint + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-amz-access-token", token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &integration.RemoteFetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &integration.RemoteFetchError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &integration.RemoteFetchError{Op: op, Payload: string(respBody)}
	}

	c.logger.Debug("Marketplace API call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
	)
	return respBody, nil
}

func decodeResponse[T any](op string, body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &integration.RemoteFetchError{Op: op, Err: err}
	}
	return &out, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// ListOrders returns one page of orders matching the query.
func (c *AmazonClient) ListOrders(ctx context.Context, q integration.ListOrdersQuery) (*integration.OrderPage, error) {
	query := url.Values{}
	query.Set("MarketplaceIds", strings.Join(q.MarketplaceIDs, ","))
	if len(q.Statuses) > 0 {
		query.Set("OrderStatuses", strings.Join(q.Statuses, ","))
	}
	if !q.ModifiedSince.IsZero() {
		query.Set("LastUpdatedAfter", q.ModifiedSince.UTC().Format(time.RFC3339))
	}
	if q.NextToken != "" {
		query.Set("NextToken", q.NextToken)
	}

	body, err := c.call(ctx, "ListOrders", http.MethodGet, pathOrders, query, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[getOrdersResponse]("ListOrders", body)
	if err != nil {
		return nil, err
	}
	if resp.Payload == nil {
		return nil, &integration.RemoteFetchError{Op: "ListOrders", Payload: string(body)}
	}

	page := &integration.OrderPage{NextToken: resp.Payload.NextToken}
	for i := range resp.Payload.Orders {
		page.Orders = append(page.Orders, resp.Payload.Orders[i].toDomain())
	}
	return page, nil
}

// ListOrderItems returns one page of an order's line items.
func (c *AmazonClient) ListOrderItems(ctx context.Context, remoteOrderID, nextToken string) (*integration.OrderItemPage, error) {
	query := url.Values{}
	if nextToken != "" {
		query.Set("NextToken", nextToken)
	}

	path := fmt.Sprintf("%s/%s/orderItems", pathOrders, url.PathEscape(remoteOrderID))
	body, err := c.call(ctx, "ListOrderItems", http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[getOrderItemsResponse]("ListOrderItems", body)
	if err != nil {
		return nil, err
	}
	if resp.Payload == nil {
		return nil, &integration.RemoteFetchError{Op: "ListOrderItems", Payload: string(body)}
	}

	page := &integration.OrderItemPage{NextToken: resp.Payload.NextToken}
	for i := range resp.Payload.OrderItems {
		page.Items = append(page.Items, resp.Payload.OrderItems[i].toDomain())
	}
	return page, nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// CreateReport submits a report generation job.
func (c *AmazonClient) CreateReport(ctx context.Context, reportType string, marketplaceIDs []string) (string, error) {
	body, err := c.call(ctx, "CreateReport", http.MethodPost, pathReports, nil, createReportRequest{
		ReportType:     reportType,
		MarketplaceIDs: marketplaceIDs,
	})
	if err != nil {
		return "", err
	}
	resp, err := decodeResponse[createReportResponse]("CreateReport", body)
	if err != nil {
		return "", err
	}
	if resp.ReportID == "" {
		return "", &integration.RemoteFetchError{Op: "CreateReport", Payload: string(body)}
	}
	return resp.ReportID, nil
}

// GetReport returns the current state of a report job.
func (c *AmazonClient) GetReport(ctx context.Context, reportID string) (*integration.AsyncJob, error) {
	path := pathReports + "/" + url.PathEscape(reportID)
	body, err := c.call(ctx, "GetReport", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[getReportResponse]("GetReport", body)
	if err != nil {
		return nil, err
	}
	return toAsyncJob("GetReport", resp.ReportID, resp.ProcessingStatus, resp.ReportDocumentID, body)
}

// GetReportDocument resolves a report result document reference.
func (c *AmazonClient) GetReportDocument(ctx context.Context, documentID string) (*integration.DocumentRef, error) {
	path := pathReportDocs + "/" + url.PathEscape(documentID)
	body, err := c.call(ctx, "GetReportDocument", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[reportDocumentResponse]("GetReportDocument", body)
	if err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, &integration.RemoteFetchError{Op: "GetReportDocument", Payload: string(body)}
	}
	return &integration.DocumentRef{
		DocumentID:           resp.ReportDocumentID,
		URL:                  resp.URL,
		CompressionAlgorithm: resp.CompressionAlgorithm,
	}, nil
}

// ---------------------------------------------------------------------------
// Feeds
// ---------------------------------------------------------------------------

// CreateFeedDocument allocates a feed document for upload.
func (c *AmazonClient) CreateFeedDocument(ctx context.Context, contentType string) (*integration.FeedDocument, error) {
	body, err := c.call(ctx, "CreateFeedDocument", http.MethodPost, pathFeedDocuments, nil, createFeedDocumentRequest{
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[createFeedDocumentResponse]("CreateFeedDocument", body)
	if err != nil {
		return nil, err
	}
	if resp.FeedDocumentID == "" || resp.URL == "" {
		return nil, &integration.RemoteFetchError{Op: "CreateFeedDocument", Payload: string(body)}
	}
	return &integration.FeedDocument{DocumentID: resp.FeedDocumentID, UploadURL: resp.URL}, nil
}

// UploadFeedDocument uploads the feed content to the presigned URL.
func (c *AmazonClient) UploadFeedDocument(ctx context.Context, uploadURL, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(body))
	if err != nil {
		return &integration.UploadError{URL: uploadURL, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return &integration.UploadError{URL: uploadURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &integration.UploadError{URL: uploadURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}

// CreateFeed submits a feed job over an uploaded document.
func (c *AmazonClient) CreateFeed(ctx context.Context, feedType string, marketplaceIDs []string, inputDocumentID string) (string, error) {
	body, err := c.call(ctx, "CreateFeed", http.MethodPost, pathFeeds, nil, createFeedRequest{
		FeedType:            feedType,
		MarketplaceIDs:      marketplaceIDs,
		InputFeedDocumentID: inputDocumentID,
	})
	if err != nil {
		return "", err
	}
	resp, err := decodeResponse[createFeedResponse]("CreateFeed", body)
	if err != nil {
		return "", err
	}
	if resp.FeedID == "" {
		return "", &integration.RemoteFetchError{Op: "CreateFeed", Payload: string(body)}
	}
	return resp.FeedID, nil
}

// GetFeed returns the current state of a feed job.
func (c *AmazonClient) GetFeed(ctx context.Context, feedID string) (*integration.AsyncJob, error) {
	path := pathFeeds + "/" + url.PathEscape(feedID)
	body, err := c.call(ctx, "GetFeed", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[getFeedResponse]("GetFeed", body)
	if err != nil {
		return nil, err
	}
	return toAsyncJob("GetFeed", resp.FeedID, resp.ProcessingStatus, resp.ResultFeedDocumentID, body)
}

// GetFeedDocument resolves a feed result document reference.
func (c *AmazonClient) GetFeedDocument(ctx context.Context, documentID string) (*integration.DocumentRef, error) {
	path := pathFeedDocuments + "/" + url.PathEscape(documentID)
	body, err := c.call(ctx, "GetFeedDocument", http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := decodeResponse[feedDocumentResponse]("GetFeedDocument", body)
	if err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, &integration.RemoteFetchError{Op: "GetFeedDocument", Payload: string(body)}
	}
	return &integration.DocumentRef{
		DocumentID:           resp.FeedDocumentID,
		URL:                  resp.URL,
		CompressionAlgorithm: resp.CompressionAlgorithm,
	}, nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// DownloadDocument stages a result document at destPath, transparently
// decompressing gzip content. Presigned document URLs carry their own
// authorization, so no token header is sent.
func (c *AmazonClient) DownloadDocument(ctx context.Context, ref *integration.DocumentRef, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return err
	}

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return &integration.RemoteFetchError{Op: "DownloadDocument", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return &integration.RemoteFetchError{Op: "DownloadDocument", Payload: string(body)}
	}

	var reader io.Reader = resp.Body
	if strings.EqualFold(ref.CompressionAlgorithm, "GZIP") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return &integration.RemoteFetchError{Op: "DownloadDocument", Err: err}
		}
		defer gz.Close()
		reader = gz
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, reader); err != nil {
		out.Close()
		return &integration.RemoteFetchError{Op: "DownloadDocument", Err: err}
	}
	return out.Close()
}

func toAsyncJob(op, id, processingStatus, resultDocumentID string, body []byte) (*integration.AsyncJob, error) {
	status := integration.JobStatus(processingStatus)
	if !status.IsValid() {
		return nil, &integration.RemoteFetchError{Op: op, Payload: string(body)}
	}
	return &integration.AsyncJob{ID: id, Status: status, ResultDocumentID: resultDocumentID}, nil
}
