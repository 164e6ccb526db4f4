package integration

import "github.com/google/uuid"

// ---------------------------------------------------------------------------
// Remote Product Rows
// ---------------------------------------------------------------------------

// RemoteProductRow is one line of a merchant listings report. Rows are
// consumed streaming, never held in memory as a full collection.
type RemoteProductRow struct {
	// SKU is the seller SKU of the listing
	SKU string
	// Quantity is the listed availability
	Quantity int64
	// Fields carries the raw report columns keyed by header name
	Fields map[string]string
}

// ---------------------------------------------------------------------------
// Outbound Batch
// ---------------------------------------------------------------------------

// OperationType is the marketplace operation requested by a feed message.
type OperationType string

const (
	// OperationTypeUpdate replaces the remote value with the supplied one
	OperationTypeUpdate OperationType = "Update"
)

// AvailabilityMessage is one inventory message of an outbound feed.
type AvailabilityMessage struct {
	// MessageID is the per-feed message sequence number
	MessageID int
	// OperationType is the requested operation
	OperationType OperationType
	// SKU is the remote key of the product
	SKU string
	// Quantity is the stock value to publish
	Quantity int64
}

// AvailabilityUpdate is the local-state change held back until the feed is
// confirmed successful.
type AvailabilityUpdate struct {
	// ProductID is the local product
	ProductID uuid.UUID
	// SKU is the remote key of the product
	SKU string
	// Stock is the published stock value to persist locally
	Stock int64
}

// OutboundBatch accumulates the per-entity change records of an export pass.
// It is flushed as a single feed submission when non-empty and discarded
// otherwise. The pending updates are committed only after the marketplace
// confirms the feed, never optimistically.
type OutboundBatch struct {
	// Messages are the feed messages, in collection order
	Messages []AvailabilityMessage
	// PendingUpdates are the deferred local-state updates, parallel to Messages
	PendingUpdates []AvailabilityUpdate
}

// Add appends a message and its deferred local update to the batch.
func (b *OutboundBatch) Add(sku string, productID uuid.UUID, stock int64) {
	b.Messages = append(b.Messages, AvailabilityMessage{
		MessageID:     len(b.Messages) + 1,
		OperationType: OperationTypeUpdate,
		SKU:           sku,
		Quantity:      stock,
	})
	b.PendingUpdates = append(b.PendingUpdates, AvailabilityUpdate{
		ProductID: productID,
		SKU:       sku,
		Stock:     stock,
	})
}

// IsEmpty returns true if the batch holds no messages.
func (b *OutboundBatch) IsEmpty() bool {
	return len(b.Messages) == 0
}

// ---------------------------------------------------------------------------
// Feed Processing Report
// ---------------------------------------------------------------------------

// ProcessingReport is the summary the marketplace returns in the feed
// result document.
type ProcessingReport struct {
	// StatusCode is the overall processing status, e.g. "Complete"
	StatusCode string
	// MessagesProcessed is the number of messages the marketplace read
	MessagesProcessed int64
	// MessagesSuccessful is the number of messages applied
	MessagesSuccessful int64
	// MessagesWithError is the number of rejected messages
	MessagesWithError int64
	// MessagesWithWarning is the number of messages applied with warnings
	MessagesWithWarning int64
}
