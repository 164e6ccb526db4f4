package integration

// ---------------------------------------------------------------------------
// Async Job Lifecycle
// ---------------------------------------------------------------------------

// JobStatus represents the processing status of an asynchronous report or
// feed job on the marketplace.
type JobStatus string

const (
	// JobStatusInQueue indicates the job is waiting to be processed
	JobStatusInQueue JobStatus = "IN_QUEUE"
	// JobStatusInProgress indicates the job is being processed
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	// JobStatusDone indicates the job completed successfully
	JobStatusDone JobStatus = "DONE"
	// JobStatusFatal indicates the job failed permanently
	JobStatusFatal JobStatus = "FATAL"
	// JobStatusCancelled indicates the job was cancelled by the marketplace
	JobStatusCancelled JobStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusInQueue, JobStatusInProgress, JobStatusDone, JobStatusFatal, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the status is a final state
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusDone, JobStatusFatal, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// IsFailure returns true if the status is a failed terminal state
func (s JobStatus) IsFailure() bool {
	return s == JobStatusFatal || s == JobStatusCancelled
}

// AsyncJob is a snapshot of a remote report or feed job. Its lifecycle is
// create, poll until terminal, fetch the result document, discard.
type AsyncJob struct {
	// ID is the remote job identifier
	ID string
	// Status is the processing status at poll time
	Status JobStatus
	// ResultDocumentID references the result document once the job is DONE
	ResultDocumentID string
}
