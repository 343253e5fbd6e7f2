package localsched

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/dcos/checkjob/api"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrRunNotFound = errors.New("job run not found")
	ErrJobExists   = errors.New("job already exists")
	ErrActiveRuns  = errors.New("job has active runs")
	ErrInvalidJob  = errors.New("invalid job definition")
	ErrStopped     = errors.New("scheduler is shutting down")
)

var jobIDPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*$`)

// validID reports whether id is a well-formed job or run id. Well-formed ids
// are also safe single path elements.
func validID(id string) bool {
	return jobIDPattern.MatchString(id)
}

type jobState struct {
	mu      sync.Mutex
	def     api.Job
	runs    map[string]*api.JobRun
	cancels map[string]context.CancelFunc
	history api.JobHistory
}

// Scheduler runs one-off jobs on the local host, keeping Metronome's
// job/run/history bookkeeping in memory.
type Scheduler struct {
	jobs    *xsync.MapOf[string, *jobState]
	active  mapset.Set[string]
	outputs *OutputStore
	exec    ExecFunc

	// lifeMu orders run registration against Shutdown.
	lifeMu  sync.Mutex
	stopped bool
	runCtx  context.Context
	stopAll context.CancelFunc
	runs    errgroup.Group

	log *slog.Logger
}

type Option func(*Scheduler)

// WithExecFunc replaces the shell executor.
func WithExecFunc(fn ExecFunc) Option {
	return func(s *Scheduler) { s.exec = fn }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

func New(outputs *OutputStore, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		jobs:    xsync.NewMapOf[string, *jobState](),
		active:  mapset.NewSet[string](),
		outputs: outputs,
		exec:    RunShell,
		runCtx:  ctx,
		stopAll: cancel,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateJob registers a job definition.
func (s *Scheduler) CreateJob(job api.Job) error {
	if !validID(job.ID) {
		return fmt.Errorf("%w: id %q", ErrInvalidJob, job.ID)
	}
	if job.Run.Cmd == "" {
		return fmt.Errorf("%w: empty cmd", ErrInvalidJob)
	}
	if job.Run.Cpus < 0 || job.Run.Mem < 0 || job.Run.Disk < 0 {
		return fmt.Errorf("%w: negative resources", ErrInvalidJob)
	}
	job.History = nil

	_, loaded := s.jobs.LoadOrStore(job.ID, &jobState{
		def:     job,
		runs:    make(map[string]*api.JobRun),
		cancels: make(map[string]context.CancelFunc),
	})
	if loaded {
		return fmt.Errorf("%w: %s", ErrJobExists, job.ID)
	}
	s.log.Info("created job", "job_id", job.ID)
	return nil
}

// GetJob returns the job definition, with its history if requested.
func (s *Scheduler) GetJob(jobID string, withHistory bool) (api.Job, error) {
	st, ok := s.jobs.Load(jobID)
	if !ok {
		return api.Job{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	job := st.def
	if withHistory {
		h := st.history
		h.SuccessfulFinishedRuns = append([]api.FinishedRun{}, st.history.SuccessfulFinishedRuns...)
		h.FailedFinishedRuns = append([]api.FinishedRun{}, st.history.FailedFinishedRuns...)
		job.History = &h
	}
	return job, nil
}

// DeleteJob removes a job. Active runs are stopped when stopRuns is set,
// otherwise their presence makes the deletion fail.
func (s *Scheduler) DeleteJob(jobID string, stopRuns bool) error {
	st, ok := s.jobs.Load(jobID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	st.mu.Lock()
	if len(st.cancels) > 0 && !stopRuns {
		st.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrActiveRuns, jobID)
	}
	for _, cancel := range st.cancels {
		cancel()
	}
	st.mu.Unlock()

	s.jobs.Delete(jobID)
	s.log.Info("deleted job", "job_id", jobID)
	return nil
}

// StartRun starts a new run of the job in the background.
func (s *Scheduler) StartRun(jobID string) (api.JobRun, error) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.stopped {
		return api.JobRun{}, ErrStopped
	}
	st, ok := s.jobs.Load(jobID)
	if !ok {
		return api.JobRun{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}

	ctx, cancel := context.WithCancel(s.runCtx)
	run := &api.JobRun{
		ID:        newRunID(),
		JobID:     jobID,
		Status:    api.RunStarting,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	st.mu.Lock()
	st.runs[run.ID] = run
	st.cancels[run.ID] = cancel
	cmd := st.def.Run.Cmd
	snapshot := *run
	st.mu.Unlock()

	key := jobID + "/" + run.ID
	s.active.Add(key)
	s.runs.Go(func() error {
		defer s.active.Remove(key)
		defer cancel()
		s.execute(ctx, st, run.ID, cmd)
		return nil
	})

	s.log.Info("started job run", "job_id", jobID, "run_id", run.ID)
	return snapshot, nil
}

func (s *Scheduler) execute(ctx context.Context, st *jobState, runID, cmd string) {
	st.mu.Lock()
	jobID := st.def.ID
	st.runs[runID].Status = api.RunActive
	st.mu.Unlock()

	log := s.log.With("job_id", jobID, "run_id", runID)

	res, err := s.exec(ctx, cmd)
	if s.outputs != nil {
		if serr := s.outputs.Save(jobID, runID, res.Output); serr != nil {
			log.Warn("failed to save run output", "err", serr)
		}
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	run := st.runs[runID]
	now := time.Now().UTC().Format(time.RFC3339)
	run.FinishedAt = now
	delete(st.cancels, runID)

	finished := api.FinishedRun{ID: runID, CreatedAt: run.CreatedAt, FinishedAt: now}
	if err == nil && res.ExitCode == 0 {
		run.Status = api.RunCompleted
		st.history.SuccessCount++
		st.history.LastSuccessAt = &now
		st.history.SuccessfulFinishedRuns = append(st.history.SuccessfulFinishedRuns, finished)
		log.Info("job run completed", "wall", res.Wall)
		return
	}

	run.Status = api.RunFailed
	st.history.FailureCount++
	st.history.LastFailureAt = &now
	st.history.FailedFinishedRuns = append(st.history.FailedFinishedRuns, finished)
	log.Warn("job run failed", "exit_code", res.ExitCode, "err", err, "wall", res.Wall)
}

// GetRun returns a snapshot of a run.
func (s *Scheduler) GetRun(jobID, runID string) (api.JobRun, error) {
	st, ok := s.jobs.Load(jobID)
	if !ok {
		return api.JobRun{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	run, ok := st.runs[runID]
	if !ok {
		return api.JobRun{}, fmt.Errorf("%w: %s/%s", ErrRunNotFound, jobID, runID)
	}
	return *run, nil
}

// RunOutput returns the stored output of a finished run.
func (s *Scheduler) RunOutput(jobID, runID string) ([]byte, error) {
	if s.outputs == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrRunNotFound, jobID, runID)
	}
	if !validID(jobID) || !validID(runID) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRunNotFound, jobID, runID)
	}
	out, err := s.outputs.Load(jobID, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunNotFound, err)
	}
	return out, nil
}

// ActiveRuns lists "<job id>/<run id>" of runs that have not finished yet.
func (s *Scheduler) ActiveRuns() []string {
	return s.active.ToSlice()
}

// JobCount returns the number of registered jobs.
func (s *Scheduler) JobCount() int {
	return s.jobs.Size()
}

// Shutdown stops all runs and waits for them to be recorded.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.lifeMu.Lock()
	s.stopped = true
	s.stopAll()
	s.lifeMu.Unlock()

	done := make(chan error, 1)
	go func() { done <- s.runs.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every started run has finished.
func (s *Scheduler) Wait() error {
	return s.runs.Wait()
}

func newRunID() string {
	u := uuid.New()
	return time.Now().UTC().Format("20060102150405") + hex.EncodeToString(u[:3])[:5]
}
