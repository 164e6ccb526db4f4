package marketplace

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/shopsync/backend/internal/domain/integration"
)

const (
	// feedContentType is sent with inventory feed documents
	feedContentType = "text/xml; charset=UTF-8"

	// envelopeDocumentVersion is the legacy feed document version
	envelopeDocumentVersion = "1.01"

	// inventoryMessageType marks an inventory availability envelope
	inventoryMessageType = "Inventory"
)

// ---------------------------------------------------------------------------
// Feed Envelope
// ---------------------------------------------------------------------------

type envelopeHeader struct {
	DocumentVersion    string `xml:"DocumentVersion"`
	MerchantIdentifier string `xml:"MerchantIdentifier"`
}

type inventoryPayload struct {
	SKU      string `xml:"SKU"`
	Quantity int64  `xml:"Quantity"`
}

type inventoryMessage struct {
	MessageID     int              `xml:"MessageID"`
	OperationType string           `xml:"OperationType"`
	Inventory     inventoryPayload `xml:"Inventory"`
}

type feedEnvelope struct {
	XMLName        xml.Name           `xml:"AmazonEnvelope"`
	XSI            string             `xml:"xmlns:xsi,attr"`
	SchemaLocation string             `xml:"xsi:noNamespaceSchemaLocation,attr"`
	Header         envelopeHeader     `xml:"Header"`
	MessageType    string             `xml:"MessageType"`
	Messages       []inventoryMessage `xml:"Message"`
}

// ---------------------------------------------------------------------------
// Processing Report Envelope
// ---------------------------------------------------------------------------

type processingSummary struct {
	MessagesProcessed   int64 `xml:"MessagesProcessed"`
	MessagesSuccessful  int64 `xml:"MessagesSuccessful"`
	MessagesWithError   int64 `xml:"MessagesWithError"`
	MessagesWithWarning int64 `xml:"MessagesWithWarning"`
}

type processingReport struct {
	StatusCode string            `xml:"StatusCode"`
	Summary    processingSummary `xml:"ProcessingSummary"`
}

type reportEnvelope struct {
	XMLName  xml.Name `xml:"AmazonEnvelope"`
	Messages []struct {
		ProcessingReport *processingReport `xml:"ProcessingReport"`
	} `xml:"Message"`
}

// ---------------------------------------------------------------------------
// AmazonFeedBuilder
// ---------------------------------------------------------------------------

// AmazonFeedBuilder renders outbound batches as AmazonEnvelope documents and
// parses the processing report envelope the marketplace returns.
type AmazonFeedBuilder struct {
	sellerID string
}

var _ integration.FeedBuilder = (*AmazonFeedBuilder)(nil)

// NewAmazonFeedBuilder creates a feed builder for the given merchant.
func NewAmazonFeedBuilder(sellerID string) *AmazonFeedBuilder {
	return &AmazonFeedBuilder{sellerID: sellerID}
}

// BuildAvailabilityFeed renders the batch as an inventory envelope.
func (b *AmazonFeedBuilder) BuildAvailabilityFeed(batch *integration.OutboundBatch) ([]byte, string, error) {
	envelope := feedEnvelope{
		XSI:            "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "amzn-envelope.xsd",
		Header: envelopeHeader{
			DocumentVersion:    envelopeDocumentVersion,
			MerchantIdentifier: b.sellerID,
		},
		MessageType: inventoryMessageType,
	}

	for _, msg := range batch.Messages {
		envelope.Messages = append(envelope.Messages, inventoryMessage{
			MessageID:     msg.MessageID,
			OperationType: string(msg.OperationType),
			Inventory: inventoryPayload{
				SKU:      msg.SKU,
				Quantity: msg.Quantity,
			},
		})
	}

	encoded, err := xml.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("amazon: encoding feed envelope: %w", err)
	}

	return append([]byte(xml.Header), encoded...), feedContentType, nil
}

// ParseProcessingReport parses the feed result envelope.
func (b *AmazonFeedBuilder) ParseProcessingReport(r io.Reader) (*integration.ProcessingReport, error) {
	var envelope reportEnvelope
	if err := xml.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("amazon: decoding processing report: %w", err)
	}

	for _, msg := range envelope.Messages {
		if msg.ProcessingReport == nil {
			continue
		}
		return &integration.ProcessingReport{
			StatusCode:          msg.ProcessingReport.StatusCode,
			MessagesProcessed:   msg.ProcessingReport.Summary.MessagesProcessed,
			MessagesSuccessful:  msg.ProcessingReport.Summary.MessagesSuccessful,
			MessagesWithError:   msg.ProcessingReport.Summary.MessagesWithError,
			MessagesWithWarning: msg.ProcessingReport.Summary.MessagesWithWarning,
		}, nil
	}

	return nil, fmt.Errorf("amazon: %w", integration.ErrMissingResult)
}
