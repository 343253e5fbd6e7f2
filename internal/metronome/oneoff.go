package metronome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcos/checkjob/api"
)

// RunOneOff creates the job, starts a single run and waits until the job
// history shows a success or a failure. The job definition is deleted
// afterwards regardless of the outcome.
func (c *Client) RunOneOff(ctx context.Context, job api.Job) error {
	log := c.log.With("job_id", job.ID)

	if err := c.CreateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to create job %s: %w", job.ID, err)
	}
	log.Debug("created job")

	defer func() {
		// the caller's context may already be done, cleanup gets its own
		delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if delErr := c.DeleteJob(delCtx, job.ID); delErr != nil {
			log.Warn("failed to delete job", "err", delErr)
		}
	}()

	run, err := c.StartRun(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("failed to start run of job %s: %w", job.ID, err)
	}
	log = log.With("run_id", run.ID)
	log.Info("started job run")

	return c.waitForCompletion(ctx, job.ID, run.ID)
}

func (c *Client) waitForCompletion(ctx context.Context, jobID, runID string) error {
	waitCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	ticker := time.NewTicker(c.PollInterval)
	defer ticker.Stop()

	for {
		history, err := c.GetJobHistory(waitCtx, jobID)
		switch {
		case err != nil && waitCtx.Err() != nil:
			// fall through to the deadline check below
		case err != nil:
			return fmt.Errorf("failed to get history of job %s: %w", jobID, err)
		case history.FailureCount > 0:
			return fmt.Errorf("%w: job %s run %s", ErrJobFailed, jobID, runID)
		case history.SuccessCount >= 1:
			return nil
		}

		select {
		case <-waitCtx.Done():
			if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return fmt.Errorf("%w: job %s run %s after %s", ErrTimeout, jobID, runID, c.Timeout)
			}
			return fmt.Errorf("waiting for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}
