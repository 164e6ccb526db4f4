package integration

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Sentinel Errors
// ---------------------------------------------------------------------------

var (
	// Remote key mapping errors
	ErrRemoteKeyNotFound = errors.New("integration: remote key mapping not found")
	ErrRemoteKeyConflict = errors.New("integration: remote key mapping conflict")
	ErrInvalidLocalID    = errors.New("integration: invalid local entity ID")
	ErrInvalidRemoteKey  = errors.New("integration: invalid remote key")

	// Watermark errors
	ErrWatermarkNotFound = errors.New("integration: sync watermark not found")

	// Async job errors
	ErrMissingResult = errors.New("integration: job completed without result document")

	// Dispatch errors
	ErrInvalidEntityType = errors.New("integration: invalid entity type")

	// Entity collaborator errors
	ErrProductNotFound  = errors.New("integration: product not found")
	ErrCurrencyNotFound = errors.New("integration: currency not found")
	ErrCountryNotFound  = errors.New("integration: country not found")
)

// ---------------------------------------------------------------------------
// RemoteFetchError
// ---------------------------------------------------------------------------

// RemoteFetchError indicates a bad or empty response from the marketplace
// while fetching a remote collection. It aborts the current pass; the
// watermark is not advanced so the next run re-scans the same window.
type RemoteFetchError struct {
	// Op is the remote operation that failed, e.g. "ListOrders"
	Op string
	// Payload carries the upstream error payload for diagnostics
	Payload string
	// Err is the underlying transport error, if any
	Err error
}

// Error implements the error interface
func (e *RemoteFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integration: remote fetch %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("integration: remote fetch %s failed: %s", e.Op, e.Payload)
}

// Unwrap returns the underlying error
func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// ---------------------------------------------------------------------------
// JobFailedError
// ---------------------------------------------------------------------------

// JobFailedError indicates an asynchronous report or feed job reached a
// failed terminal state (FATAL or CANCELLED).
type JobFailedError struct {
	// JobID is the remote job identifier
	JobID string
	// Status is the terminal status the job reached
	Status JobStatus
}

// Error implements the error interface
func (e *JobFailedError) Error() string {
	return fmt.Sprintf("integration: job %s not processed, status %s", e.JobID, e.Status)
}

// ---------------------------------------------------------------------------
// UploadError
// ---------------------------------------------------------------------------

// UploadError indicates the feed document upload failed in transport.
type UploadError struct {
	// URL is the presigned upload destination
	URL string
	// Err is the underlying transport error
	Err error
}

// Error implements the error interface
func (e *UploadError) Error() string {
	return fmt.Sprintf("integration: feed document upload failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *UploadError) Unwrap() error {
	return e.Err
}
