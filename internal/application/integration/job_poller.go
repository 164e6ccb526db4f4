package integration

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

// defaultPollInterval is the fixed delay between job status polls.
const defaultPollInterval = 5 * time.Second

// ---------------------------------------------------------------------------
// JobPoller
// ---------------------------------------------------------------------------

// JobStatusFunc fetches the current state of an asynchronous job.
type JobStatusFunc func(ctx context.Context) (*integration.AsyncJob, error)

// JobPoller drives the submit-then-poll state machine shared by report and
// feed jobs. Polling is unbounded: the remote system is relied upon to
// eventually reach a terminal state, and the pass context is the safety
// valve against jobs that never do.
type JobPoller struct {
	interval time.Duration
	logger   *zap.Logger
}

// NewJobPoller creates a JobPoller with the fixed poll interval. A
// non-positive interval falls back to the default.
func NewJobPoller(interval time.Duration, logger *zap.Logger) *JobPoller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &JobPoller{interval: interval, logger: logger}
}

// AwaitCompletion polls the job until it reaches a terminal state and
// returns the result document ID. FATAL and CANCELLED fail with
// *JobFailedError; DONE without a result document fails with
// ErrMissingResult. The first poll happens one interval after submission.
func (p *JobPoller) AwaitCompletion(ctx context.Context, status JobStatusFunc) (string, error) {
	for {
		if err := sleepContext(ctx, p.interval); err != nil {
			return "", err
		}

		job, err := status(ctx)
		if err != nil {
			return "", err
		}

		p.logger.Debug("Polled async job",
			zap.String("job_id", job.ID),
			zap.String("status", job.Status.String()),
		)

		if job.Status.IsFailure() {
			return "", &integration.JobFailedError{JobID: job.ID, Status: job.Status}
		}

		if job.Status == integration.JobStatusDone {
			if job.ResultDocumentID == "" {
				return "", integration.ErrMissingResult
			}
			return job.ResultDocumentID, nil
		}
	}
}

// sleepContext sleeps for d unless the context is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
