package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dcos/checkjob/api"
	"github.com/dcos/checkjob/internal/checks"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Scheduler,Reporter

// Scheduler runs a one-off job to completion. It returns an error when the
// job could not be submitted or when it finished with a non-zero exit status.
type Scheduler interface {
	RunOneOff(ctx context.Context, job api.Job) error
}

// Reporter receives job lifecycle notifications.
type Reporter interface {
	StartJob(job api.Job)
	FinishJob(job api.Job, err error)
}

type Submitter struct {
	scheduler Scheduler
	reporter  Reporter
	log       *slog.Logger
}

// NewSubmitter creates a Submitter. reporter may be nil.
func NewSubmitter(scheduler Scheduler, reporter Reporter, log *slog.Logger) *Submitter {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Submitter{
		scheduler: scheduler,
		reporter:  reporter,
		log:       log,
	}
}

// SubmitTargets builds the check command for targets and runs it as one job.
func (s *Submitter) SubmitTargets(ctx context.Context, targets []checks.Target) (api.Job, error) {
	return s.Submit(ctx, checks.BuildCommand(targets))
}

// Submit runs cmd as a fresh check job and blocks until the scheduler reports
// the outcome. There are no retries; the scheduler's error is the result.
func (s *Submitter) Submit(ctx context.Context, cmd string) (api.Job, error) {
	job := NewCheckJob(cmd)
	log := s.log.With("job_id", job.ID)

	log.Info("submitting check job", "cmd", cmd)
	s.reporter.StartJob(job)

	err := s.scheduler.RunOneOff(ctx, job)
	if err != nil {
		err = fmt.Errorf("check job %s failed: %w", job.ID, err)
		log.Error("check job failed", "err", err)
	} else {
		log.Info("check job passed")
	}

	s.reporter.FinishJob(job, err)
	return job, err
}

type nopReporter struct{}

func (nopReporter) StartJob(api.Job)         {}
func (nopReporter) FinishJob(api.Job, error) {}
